package models

import (
	"time"

	"calmora/internal/shared/constants"
)

// EntitlementSnapshotModel is the one-row-per-user denormalized entitlement
// consulted on every playback request. It is written in the same transaction
// as the subscription change that produced it.
type EntitlementSnapshotModel struct {
	ID          uint   `gorm:"primarykey"`
	UserID      uint   `gorm:"uniqueIndex;not null"`
	PackageID   uint   `gorm:"not null"`
	PackageType string `gorm:"not null;size:20"`
	Status      string `gorm:"not null;size:20"`
	StartDate   time.Time
	EndDate     time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (EntitlementSnapshotModel) TableName() string {
	return constants.TableEntitlementSnapshots
}
