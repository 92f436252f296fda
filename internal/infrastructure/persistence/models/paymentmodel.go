package models

import (
	"time"

	"calmora/internal/shared/constants"
)

type PaymentModel struct {
	ID             uint   `gorm:"primarykey"`
	SID            string `gorm:"uniqueIndex;not null;size:50"`
	UserID         uint   `gorm:"not null;index"`
	SubscriptionID *uint  `gorm:"index"`
	PackageID      uint   `gorm:"not null"`
	Amount         uint64 `gorm:"not null;comment:minor currency units"`
	Discount       uint64 `gorm:"not null;default:0"`
	Currency       string `gorm:"not null;size:3"`
	CouponID       *uint
	Status         string  `gorm:"not null;size:20;index"`
	ProviderRef    *string `gorm:"size:100"`
	FailureReason  *string `gorm:"size:500"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PaymentModel) TableName() string {
	return constants.TablePayments
}
