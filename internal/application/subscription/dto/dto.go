// Package dto defines presentation-layer data structures for subscriptions.
package dto

import "time"

// PackageDTO is the public representation of a subscription package.
type PackageDTO struct {
	SID                string   `json:"sid"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	Price              uint64   `json:"price"`
	Currency           string   `json:"currency"`
	PeriodUnit         string   `json:"period_unit"`
	PeriodCount        int      `json:"period_count"`
	DurationDays       int      `json:"duration_days"`
	DiscountPercentage int      `json:"discount_percentage"`
	Features           []string `json:"features"`
	Active             bool     `json:"active"`
	DisplayOrder       int      `json:"display_order"`
}

// SubscriptionDTO is the public representation of a subscription.
type SubscriptionDTO struct {
	SID              string     `json:"sid"`
	PackageSID       string     `json:"package_sid,omitempty"`
	PackageName      string     `json:"package_name,omitempty"`
	Status           string     `json:"status"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          time.Time  `json:"end_date"`
	AutoRenew        bool       `json:"auto_renew"`
	CancellationDate *time.Time `json:"cancellation_date,omitempty"`
	DaysRemaining    int        `json:"days_remaining"`
}

// CouponDTO is the admin representation of a coupon.
type CouponDTO struct {
	SID           string    `json:"sid"`
	Code          string    `json:"code"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue uint64    `json:"discount_value"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidUntil    time.Time `json:"valid_until"`
	MaxUses       *int      `json:"max_uses,omitempty"`
	UsedCount     int       `json:"used_count"`
	Active        bool      `json:"active"`
}

// CouponQuoteDTO is the outcome of validating a coupon against a package.
type CouponQuoteDTO struct {
	Code           string `json:"code"`
	Valid          bool   `json:"valid"`
	Reason         string `json:"reason,omitempty"`
	OriginalAmount uint64 `json:"original_amount"`
	Discount       uint64 `json:"discount"`
	FinalAmount    uint64 `json:"final_amount"`
}

// PaymentDTO is the public representation of a payment record.
type PaymentDTO struct {
	SID           string    `json:"sid"`
	Amount        uint64    `json:"amount"`
	Discount      uint64    `json:"discount"`
	ChargedAmount uint64    `json:"charged_amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// EntitlementDTO is the playback entitlement exposed to clients.
type EntitlementDTO struct {
	Tier      string     `json:"tier"`
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
