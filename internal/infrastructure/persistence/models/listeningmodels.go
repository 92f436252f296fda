package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"calmora/internal/shared/constants"
)

// ListeningSessionModel persists playback sessions. idx_open serves the
// abandoned-session sweep (end_time IS NULL AND start_time < cutoff).
type ListeningSessionModel struct {
	ID              uint      `gorm:"primarykey"`
	SID             string    `gorm:"uniqueIndex;not null;size:50"`
	UserID          uint      `gorm:"not null;index:idx_user_sessions"`
	TrackID         uint      `gorm:"not null;index"`
	ProgramID       *uint     `gorm:"index"`
	StartTime       time.Time `gorm:"not null;index:idx_open,priority:2"`
	EndTime         *time.Time `gorm:"index:idx_open,priority:1"`
	DurationSeconds int        `gorm:"not null;default:0"`
	Completed       bool       `gorm:"not null;default:false"`
	LastPosition    int        `gorm:"not null;default:0"`
	DeviceInfo      datatypes.JSON
	Version         int `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (ListeningSessionModel) TableName() string {
	return constants.TableListeningSessions
}

func (s *ListeningSessionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}

// EnrollmentModel persists program enrollments. The composite unique index
// makes concurrent enrolls collapse into one row.
type EnrollmentModel struct {
	ID                uint `gorm:"primarykey"`
	UserID            uint `gorm:"not null;uniqueIndex:idx_user_program,priority:1"`
	ProgramID         uint `gorm:"not null;uniqueIndex:idx_user_program,priority:2"`
	CompletedTrackIDs datatypes.JSON
	Progress          int  `gorm:"not null;default:0"`
	IsCompleted       bool `gorm:"not null;default:false"`
	EnrolledAt        time.Time
	CompletedAt       *time.Time
	LastAccessedAt    time.Time
	Version           int `gorm:"not null;default:1"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (EnrollmentModel) TableName() string {
	return constants.TableEnrollments
}
