package models

import (
	"time"

	"gorm.io/gorm"

	"calmora/internal/shared/constants"
)

// SubscriptionModel persists subscriptions. The partial-style unique guard
// against double-subscribing lives in the repository (conditional insert);
// idx_user_status serves the active lookup on every entitlement rebuild.
type SubscriptionModel struct {
	ID               uint      `gorm:"primarykey"`
	SID              string    `gorm:"uniqueIndex;not null;size:50"`
	UserID           uint      `gorm:"not null;index:idx_user_status,priority:1"`
	PackageID        uint      `gorm:"not null;index"`
	Status           string    `gorm:"not null;size:20;index:idx_user_status,priority:2"`
	StartDate        time.Time `gorm:"not null"`
	EndDate          time.Time `gorm:"not null;index:idx_end_date"`
	AutoRenew        bool      `gorm:"not null"`
	CancellationDate *time.Time
	Version          int `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
