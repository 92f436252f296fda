package listening

import (
	"fmt"
	"time"

	"calmora/internal/shared/id"
)

// Session records one playback of a track. A session with no end time whose
// start is older than the abandonment threshold is force-closed by the sweep.
type Session struct {
	id              uint
	sid             string
	userID          uint
	trackID         uint
	programID       *uint
	startTime       time.Time
	endTime         *time.Time
	durationSeconds int
	completed       bool
	lastPosition    int
	deviceInfo      map[string]string
	version         int
	createdAt       time.Time
	updatedAt       time.Time
}

// NewSession starts a session now.
func NewSession(userID, trackID uint, programID *uint, deviceInfo map[string]string) (*Session, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if trackID == 0 {
		return nil, fmt.Errorf("track ID is required")
	}
	if deviceInfo == nil {
		deviceInfo = map[string]string{}
	}

	now := time.Now().UTC()
	return &Session{
		sid:        id.MustGenerateWithPrefix(id.PrefixSession, id.DefaultLength),
		userID:     userID,
		trackID:    trackID,
		programID:  programID,
		startTime:  now,
		deviceInfo: deviceInfo,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

type SessionReconstructParams struct {
	ID              uint
	SID             string
	UserID          uint
	TrackID         uint
	ProgramID       *uint
	StartTime       time.Time
	EndTime         *time.Time
	DurationSeconds int
	Completed       bool
	LastPosition    int
	DeviceInfo      map[string]string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func ReconstructSession(p SessionReconstructParams) (*Session, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("session ID cannot be zero")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	deviceInfo := p.DeviceInfo
	if deviceInfo == nil {
		deviceInfo = map[string]string{}
	}
	return &Session{
		id:              p.ID,
		sid:             p.SID,
		userID:          p.UserID,
		trackID:         p.TrackID,
		programID:       p.ProgramID,
		startTime:       p.StartTime,
		endTime:         p.EndTime,
		durationSeconds: p.DurationSeconds,
		completed:       p.Completed,
		lastPosition:    p.LastPosition,
		deviceInfo:      deviceInfo,
		version:         p.Version,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}, nil
}

func (s *Session) ID() uint                      { return s.id }
func (s *Session) SID() string                   { return s.sid }
func (s *Session) UserID() uint                  { return s.userID }
func (s *Session) TrackID() uint                 { return s.trackID }
func (s *Session) ProgramID() *uint              { return s.programID }
func (s *Session) StartTime() time.Time          { return s.startTime }
func (s *Session) EndTime() *time.Time           { return s.endTime }
func (s *Session) DurationSeconds() int          { return s.durationSeconds }
func (s *Session) IsCompleted() bool             { return s.completed }
func (s *Session) LastPosition() int             { return s.lastPosition }
func (s *Session) DeviceInfo() map[string]string { return s.deviceInfo }
func (s *Session) Version() int                  { return s.version }
func (s *Session) CreatedAt() time.Time          { return s.createdAt }
func (s *Session) UpdatedAt() time.Time          { return s.updatedAt }

// IsOpen reports whether the session has not ended yet.
func (s *Session) IsOpen() bool {
	return s.endTime == nil
}

func (s *Session) SetID(newID uint) error {
	if s.id != 0 {
		return fmt.Errorf("session ID is already set")
	}
	if newID == 0 {
		return fmt.Errorf("session ID cannot be zero")
	}
	s.id = newID
	return nil
}

// UpdatePosition records playback progress without changing session state.
func (s *Session) UpdatePosition(seconds int) error {
	if !s.IsOpen() {
		return fmt.Errorf("session already ended")
	}
	if seconds < 0 {
		return fmt.Errorf("position cannot be negative")
	}
	s.lastPosition = seconds
	s.touch()
	return nil
}

// End closes the session now, deriving duration from wall-clock elapsed time.
func (s *Session) End(completed bool) error {
	if !s.IsOpen() {
		return fmt.Errorf("session already ended")
	}
	now := time.Now().UTC()
	s.endTime = &now
	s.completed = completed
	s.durationSeconds = int(now.Sub(s.startTime).Seconds())
	if s.durationSeconds < 0 {
		s.durationSeconds = 0
	}
	s.touch()
	return nil
}

// ForceClose ends an abandoned session at sweepTime. Duration comes from the
// last reported position when available, otherwise the wall-clock delta.
// Completed is always forced false.
func (s *Session) ForceClose(sweepTime time.Time) error {
	if !s.IsOpen() {
		return fmt.Errorf("session already ended")
	}
	s.endTime = &sweepTime
	s.completed = false
	if s.lastPosition > 0 {
		s.durationSeconds = s.lastPosition
	} else {
		s.durationSeconds = int(sweepTime.Sub(s.startTime).Seconds())
		if s.durationSeconds < 0 {
			s.durationSeconds = 0
		}
	}
	s.touch()
	return nil
}

// IsAbandonedAt reports whether an open session passed the threshold at t.
func (s *Session) IsAbandonedAt(t time.Time, threshold time.Duration) bool {
	return s.IsOpen() && t.Sub(s.startTime) > threshold
}

func (s *Session) touch() {
	s.updatedAt = time.Now().UTC()
	s.version++
}
