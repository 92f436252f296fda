package listening

import (
	"fmt"
	"math"
	"time"
)

// Enrollment tracks a user's progress through a program. Completed track IDs
// behave as a set; progress is a rounded percentage of the program's tracks.
type Enrollment struct {
	id                uint
	userID            uint
	programID         uint
	completedTrackIDs map[uint]struct{}
	progress          int
	isCompleted       bool
	enrolledAt        time.Time
	completedAt       *time.Time
	lastAccessedAt    time.Time
	version           int
	createdAt         time.Time
	updatedAt         time.Time
}

func NewEnrollment(userID, programID uint) (*Enrollment, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if programID == 0 {
		return nil, fmt.Errorf("program ID is required")
	}
	now := time.Now().UTC()
	return &Enrollment{
		userID:            userID,
		programID:         programID,
		completedTrackIDs: map[uint]struct{}{},
		enrolledAt:        now,
		lastAccessedAt:    now,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

type EnrollmentReconstructParams struct {
	ID                uint
	UserID            uint
	ProgramID         uint
	CompletedTrackIDs []uint
	Progress          int
	IsCompleted       bool
	EnrolledAt        time.Time
	CompletedAt       *time.Time
	LastAccessedAt    time.Time
	Version           int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func ReconstructEnrollment(p EnrollmentReconstructParams) (*Enrollment, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("enrollment ID cannot be zero")
	}
	if p.UserID == 0 || p.ProgramID == 0 {
		return nil, fmt.Errorf("user ID and program ID are required")
	}
	completed := make(map[uint]struct{}, len(p.CompletedTrackIDs))
	for _, tid := range p.CompletedTrackIDs {
		completed[tid] = struct{}{}
	}
	return &Enrollment{
		id:                p.ID,
		userID:            p.UserID,
		programID:         p.ProgramID,
		completedTrackIDs: completed,
		progress:          p.Progress,
		isCompleted:       p.IsCompleted,
		enrolledAt:        p.EnrolledAt,
		completedAt:       p.CompletedAt,
		lastAccessedAt:    p.LastAccessedAt,
		version:           p.Version,
		createdAt:         p.CreatedAt,
		updatedAt:         p.UpdatedAt,
	}, nil
}

func (e *Enrollment) ID() uint                   { return e.id }
func (e *Enrollment) UserID() uint               { return e.userID }
func (e *Enrollment) ProgramID() uint            { return e.programID }
func (e *Enrollment) Progress() int              { return e.progress }
func (e *Enrollment) IsCompleted() bool          { return e.isCompleted }
func (e *Enrollment) EnrolledAt() time.Time      { return e.enrolledAt }
func (e *Enrollment) CompletedAt() *time.Time    { return e.completedAt }
func (e *Enrollment) LastAccessedAt() time.Time  { return e.lastAccessedAt }
func (e *Enrollment) Version() int               { return e.version }
func (e *Enrollment) CreatedAt() time.Time       { return e.createdAt }
func (e *Enrollment) UpdatedAt() time.Time       { return e.updatedAt }

// CompletedTrackIDs returns the completed set in unspecified order.
func (e *Enrollment) CompletedTrackIDs() []uint {
	ids := make([]uint, 0, len(e.completedTrackIDs))
	for tid := range e.completedTrackIDs {
		ids = append(ids, tid)
	}
	return ids
}

func (e *Enrollment) HasCompletedTrack(trackID uint) bool {
	_, ok := e.completedTrackIDs[trackID]
	return ok
}

func (e *Enrollment) SetID(newID uint) error {
	if e.id != 0 {
		return fmt.Errorf("enrollment ID is already set")
	}
	if newID == 0 {
		return fmt.Errorf("enrollment ID cannot be zero")
	}
	e.id = newID
	return nil
}

// Touch records that the user accessed the program.
func (e *Enrollment) Touch() {
	e.lastAccessedAt = time.Now().UTC()
	e.touch()
}

// MarkTrackComplete adds a track to the completed set and recomputes progress
// against totalTracks. It is idempotent. The returned flag is true only on the
// call that transitions the enrollment to completed, so callers can fire the
// completion notification exactly once.
func (e *Enrollment) MarkTrackComplete(trackID uint, totalTracks int) (justCompleted bool, err error) {
	if trackID == 0 {
		return false, fmt.Errorf("track ID is required")
	}
	if totalTracks <= 0 {
		return false, fmt.Errorf("program has no tracks")
	}

	e.completedTrackIDs[trackID] = struct{}{}
	e.progress = int(math.Round(100 * float64(len(e.completedTrackIDs)) / float64(totalTracks)))
	if e.progress > 100 {
		e.progress = 100
	}
	e.lastAccessedAt = time.Now().UTC()

	if len(e.completedTrackIDs) >= totalTracks && !e.isCompleted {
		e.isCompleted = true
		now := time.Now().UTC()
		e.completedAt = &now
		justCompleted = true
	}
	e.touch()
	return justCompleted, nil
}

func (e *Enrollment) touch() {
	e.updatedAt = time.Now().UTC()
	e.version++
}
