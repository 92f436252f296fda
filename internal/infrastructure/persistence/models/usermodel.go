package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"calmora/internal/shared/constants"
)

// UserModel is the persistence model for accounts. Email and phone are
// nullable so unique indexes ignore the absent channel.
type UserModel struct {
	ID           uint    `gorm:"primarykey"`
	SID          string  `gorm:"uniqueIndex;not null;size:50"`
	Email        *string `gorm:"uniqueIndex;size:255"`
	Phone        *string `gorm:"uniqueIndex;size:20"`
	Name         string  `gorm:"not null;size:100"`
	PasswordHash *string `gorm:"size:100"`
	GoogleID     *string `gorm:"uniqueIndex;size:64"`
	Role         string  `gorm:"not null;size:20;default:user"`
	Verified     bool    `gorm:"not null;default:false"`
	BannedUntil  *time.Time
	BanReason    *string        `gorm:"size:500"`
	NotifyPrefs  datatypes.JSON `gorm:"comment:notification channel toggles"`
	DeviceTokens datatypes.JSON `gorm:"comment:push registrations"`
	Version      int            `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string {
	return constants.TableUsers
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.Version == 0 {
		u.Version = 1
	}
	return nil
}
