package catalog

import "errors"

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrTrackNotFound         = errors.New("track not found")
	ErrProgramNotFound       = errors.New("program not found")
	ErrCustomProgramNotFound = errors.New("custom program not found")
	ErrDuplicateTrack        = errors.New("duplicate track in program")
)
