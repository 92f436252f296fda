package listening

import "errors"

var (
	ErrSessionNotFound   = errors.New("listening session not found")
	ErrSessionEnded      = errors.New("listening session already ended")
	ErrNotEnrolled       = errors.New("user is not enrolled in program")
	ErrAlreadyEnrolled   = errors.New("user is already enrolled in program")
	ErrTrackNotInProgram = errors.New("track does not belong to program")
)
