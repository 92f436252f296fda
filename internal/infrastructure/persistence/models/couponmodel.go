package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"calmora/internal/shared/constants"
)

// CouponModel persists coupons. Code is stored normalized (upper case).
// UsedCount is only mutated through the conditional redeem update.
type CouponModel struct {
	ID                 uint   `gorm:"primarykey"`
	SID                string `gorm:"uniqueIndex;not null;size:50"`
	Code               string `gorm:"uniqueIndex;not null;size:50"`
	DiscountType       string `gorm:"not null;size:20"`
	DiscountValue      uint64 `gorm:"not null"`
	ValidFrom          time.Time
	ValidUntil         time.Time `gorm:"index"`
	MaxUses            *int
	UsedCount          int            `gorm:"not null;default:0"`
	ApplicablePackages datatypes.JSON `gorm:"comment:package IDs, empty means all"`
	Active             bool           `gorm:"not null"`
	Version            int            `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (CouponModel) TableName() string {
	return constants.TableCoupons
}

func (c *CouponModel) BeforeCreate(tx *gorm.DB) error {
	if c.Version == 0 {
		c.Version = 1
	}
	return nil
}
