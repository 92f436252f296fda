// Package dto defines presentation-layer data structures for listening
// history and program progress.
package dto

import (
	"time"

	"calmora/internal/domain/listening"
)

// SessionDTO is the public representation of a listening session.
type SessionDTO struct {
	SID             string     `json:"sid"`
	TrackSID        string     `json:"track_sid,omitempty"`
	ProgramSID      string     `json:"program_sid,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	LastPosition    int        `json:"last_position"`
	Completed       bool       `json:"completed"`
}

// EnrollmentDTO is the public representation of program progress.
type EnrollmentDTO struct {
	ProgramSID        string     `json:"program_sid,omitempty"`
	Progress          int        `json:"progress"`
	Completed         bool       `json:"completed"`
	CompletedTrackIDs int        `json:"completed_tracks"`
	TotalTracks       int        `json:"total_tracks,omitempty"`
	EnrolledAt        time.Time  `json:"enrolled_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	LastAccessedAt    time.Time  `json:"last_accessed_at"`
}

// PeriodStatDTO is one aggregation bucket of a user's listening history.
type PeriodStatDTO struct {
	Period         string `json:"period"`
	TotalSeconds   int64  `json:"total_seconds"`
	SessionCount   int64  `json:"session_count"`
	CompletedCount int64  `json:"completed_count"`
	DistinctTracks int64  `json:"distinct_tracks"`
}

// PopularTrackDTO ranks a track by play volume.
type PopularTrackDTO struct {
	TrackSID     string `json:"track_sid"`
	Title        string `json:"title,omitempty"`
	PlayCount    int64  `json:"play_count"`
	TotalSeconds int64  `json:"total_seconds"`
}

// HourBucketDTO counts sessions started within one hour of day.
type HourBucketDTO struct {
	Hour         int   `json:"hour"`
	SessionCount int64 `json:"session_count"`
}

// CategoryPatternDTO is one category in a user's listening profile.
type CategoryPatternDTO struct {
	CategorySID  string `json:"category_sid,omitempty"`
	Name         string `json:"name,omitempty"`
	TotalSeconds int64  `json:"total_seconds"`
	SessionCount int64  `json:"session_count"`
}

// ListeningPatternsDTO summarizes a user's listening habits.
type ListeningPatternsDTO struct {
	TopCategories     []*CategoryPatternDTO `json:"top_categories"`
	PeakHours         []int                 `json:"peak_hours"`
	AvgSessionMinutes float64               `json:"avg_session_minutes"`
	// CompletionRate is a rounded percentage of ended sessions that were
	// completed, 0-100.
	CompletionRate float64 `json:"completion_rate"`
}

// ToSessionDTO converts a Session. trackSID and programSID are resolved by
// the caller since the aggregate only holds internal IDs.
func ToSessionDTO(s *listening.Session, trackSID, programSID string) *SessionDTO {
	if s == nil {
		return nil
	}
	return &SessionDTO{
		SID:             s.SID(),
		TrackSID:        trackSID,
		ProgramSID:      programSID,
		StartTime:       s.StartTime(),
		EndTime:         s.EndTime(),
		DurationSeconds: s.DurationSeconds(),
		LastPosition:    s.LastPosition(),
		Completed:       s.IsCompleted(),
	}
}

// ToEnrollmentDTO converts an Enrollment. totalTracks comes from the program
// aggregate; pass 0 when the program was not loaded.
func ToEnrollmentDTO(e *listening.Enrollment, programSID string, totalTracks int) *EnrollmentDTO {
	if e == nil {
		return nil
	}
	return &EnrollmentDTO{
		ProgramSID:        programSID,
		Progress:          e.Progress(),
		Completed:         e.IsCompleted(),
		CompletedTrackIDs: len(e.CompletedTrackIDs()),
		TotalTracks:       totalTracks,
		EnrolledAt:        e.EnrolledAt(),
		CompletedAt:       e.CompletedAt(),
		LastAccessedAt:    e.LastAccessedAt(),
	}
}

// ToPeriodStatDTOList converts aggregation buckets.
func ToPeriodStatDTOList(stats []listening.PeriodStat) []*PeriodStatDTO {
	dtos := make([]*PeriodStatDTO, 0, len(stats))
	for _, s := range stats {
		dtos = append(dtos, &PeriodStatDTO{
			Period:         s.Period,
			TotalSeconds:   s.TotalSeconds,
			SessionCount:   s.SessionCount,
			CompletedCount: s.CompletedCount,
			DistinctTracks: s.DistinctTracks,
		})
	}
	return dtos
}
