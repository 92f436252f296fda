package listening

import (
	"context"
	"time"
)

// PeriodStat is one aggregation bucket of a user's listening history.
type PeriodStat struct {
	Period          string
	TotalSeconds    int64
	SessionCount    int64
	CompletedCount  int64
	DistinctTracks  int64
}

// TrackPlayCount ranks a track by play volume.
type TrackPlayCount struct {
	TrackID      uint
	PlayCount    int64
	TotalSeconds int64
}

// HourBucket counts sessions started within one hour of day (0-23).
type HourBucket struct {
	Hour         int
	SessionCount int64
}

// CategoryListenStat is a user's listening volume within one category.
type CategoryListenStat struct {
	CategoryID   uint
	TotalSeconds int64
	SessionCount int64
}

// SessionAggregate is a user's overall ended-session totals for a range.
type SessionAggregate struct {
	SessionCount   int64
	CompletedCount int64
	TotalSeconds   int64
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Update(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id uint) (*Session, error)
	GetBySID(ctx context.Context, sid string) (*Session, error)
	ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*Session, int64, error)

	// ListAbandoned returns open sessions whose start time is before cutoff.
	ListAbandoned(ctx context.Context, cutoff time.Time, limit int) ([]*Session, error)

	// TotalListeningSeconds sums ended-session durations for a user. Nil
	// bounds leave the corresponding side of the range open.
	TotalListeningSeconds(ctx context.Context, userID uint, from, to *time.Time) (int64, error)
	StatsByPeriod(ctx context.Context, userID uint, granularity string, from, to time.Time) ([]PeriodStat, error)
	PopularTracks(ctx context.Context, from, to time.Time, limit int) ([]TrackPlayCount, error)
	SessionsByHour(ctx context.Context, userID uint, from, to time.Time) ([]HourBucket, error)
	CategoryStats(ctx context.Context, userID uint, from, to time.Time) ([]CategoryListenStat, error)
	Aggregate(ctx context.Context, userID uint, from, to time.Time) (SessionAggregate, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *Enrollment) error
	Update(ctx context.Context, enrollment *Enrollment) error
	GetByUserAndProgram(ctx context.Context, userID, programID uint) (*Enrollment, error)
	ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*Enrollment, int64, error)
}
