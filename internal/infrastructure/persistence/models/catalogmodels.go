package models

import (
	"time"

	"gorm.io/datatypes"

	"calmora/internal/shared/constants"
)

type CategoryModel struct {
	ID           uint   `gorm:"primarykey"`
	SID          string `gorm:"uniqueIndex;not null;size:50"`
	Name         string `gorm:"not null;size:100"`
	Description  string `gorm:"size:1000"`
	ImageKey     string `gorm:"size:255"`
	DisplayOrder int    `gorm:"not null;default:0;index"`
	Active       bool   `gorm:"not null"`
	Version      int    `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (CategoryModel) TableName() string {
	return constants.TableCategories
}

// TrackModel persists tracks. Description holds raw markdown; rendering
// happens at the API boundary.
type TrackModel struct {
	ID              uint   `gorm:"primarykey"`
	SID             string `gorm:"uniqueIndex;not null;size:50"`
	CategoryID      uint   `gorm:"not null;index"`
	Title           string `gorm:"not null;size:200;index"`
	Description     string `gorm:"type:text"`
	AudioKey        string `gorm:"not null;size:255"`
	ImageKey        string `gorm:"size:255"`
	DurationSeconds int    `gorm:"not null"`
	ContentTier     string `gorm:"not null;size:20;index"`
	Active          bool   `gorm:"not null;index"`
	Version         int    `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (TrackModel) TableName() string {
	return constants.TableTracks
}

// ProgramModel persists curated programs. Items is the ordered track list as
// JSON; ordering is normalized in the domain before it reaches persistence.
type ProgramModel struct {
	ID          uint   `gorm:"primarykey"`
	SID         string `gorm:"uniqueIndex;not null;size:50"`
	CategoryID  uint   `gorm:"not null;index"`
	Title       string `gorm:"not null;size:200"`
	Description string `gorm:"type:text"`
	ImageKey    string `gorm:"size:255"`
	ContentTier string `gorm:"not null;size:20"`
	Items       datatypes.JSON
	Active      bool `gorm:"not null;index"`
	Version     int  `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProgramModel) TableName() string {
	return constants.TablePrograms
}

type CustomProgramModel struct {
	ID           uint   `gorm:"primarykey"`
	SID          string `gorm:"uniqueIndex;not null;size:50"`
	UserID       uint   `gorm:"not null;index"`
	Title        string `gorm:"not null;size:200"`
	TrackIDs     datatypes.JSON
	ThumbnailKey string `gorm:"size:255"`
	Version      int    `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (CustomProgramModel) TableName() string {
	return constants.TableCustomPrograms
}

// FavoriteModel relies on the composite unique index as the concurrency
// guard: duplicate adds surface as a duplicate-key error mapped to an
// idempotent success upstream.
type FavoriteModel struct {
	ID        uint `gorm:"primarykey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_track,priority:1"`
	TrackID   uint `gorm:"not null;uniqueIndex:idx_user_track,priority:2"`
	CreatedAt time.Time
}

func (FavoriteModel) TableName() string {
	return constants.TableFavorites
}
