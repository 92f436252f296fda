package models

import (
	"time"

	"gorm.io/datatypes"

	"calmora/internal/shared/constants"
)

// NotificationModel persists in-app notifications, one row per recipient.
type NotificationModel struct {
	ID        uint   `gorm:"primarykey"`
	SID       string `gorm:"uniqueIndex;not null;size:50"`
	UserID    uint   `gorm:"not null;index:idx_user_read,priority:1"`
	Type      string `gorm:"not null;size:30"`
	Title     string `gorm:"not null;size:200"`
	Body      string `gorm:"size:2000"`
	Data      datatypes.JSON
	Read      bool `gorm:"not null;default:false;index:idx_user_read,priority:2"`
	ReadAt    *time.Time
	CreatedAt time.Time `gorm:"index"`
}

func (NotificationModel) TableName() string {
	return constants.TableNotifications
}
