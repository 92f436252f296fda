package subscription

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/shared/id"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records one charge attempt against the payment gateway.
type Payment struct {
	id             uint
	sid            string
	userID         uint
	subscriptionID *uint
	packageID      uint
	amount         uint64
	discount       uint64
	currency       string
	couponID       *uint
	status         PaymentStatus
	providerRef    *string
	failureReason  *string
	createdAt      time.Time
	updatedAt      time.Time
}

// NewPayment opens a pending charge. amount is the gross package price and
// discount the coupon deduction already applied; the gateway is charged
// amount-discount.
func NewPayment(userID, packageID uint, amount, discount uint64, currency string, couponID *uint) (*Payment, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if packageID == 0 {
		return nil, fmt.Errorf("package ID is required")
	}
	if discount > amount {
		return nil, fmt.Errorf("discount cannot exceed amount")
	}
	if !validCurrencies[currency] {
		return nil, fmt.Errorf("unsupported currency: %s", currency)
	}
	now := time.Now().UTC()
	return &Payment{
		sid:       id.MustGenerateWithPrefix(id.PrefixPayment, id.DefaultLength),
		userID:    userID,
		packageID: packageID,
		amount:    amount,
		discount:  discount,
		currency:  currency,
		couponID:  couponID,
		status:    PaymentStatusPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

type PaymentReconstructParams struct {
	ID             uint
	SID            string
	UserID         uint
	SubscriptionID *uint
	PackageID      uint
	Amount         uint64
	Discount       uint64
	Currency       string
	CouponID       *uint
	Status         PaymentStatus
	ProviderRef    *string
	FailureReason  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func ReconstructPayment(p PaymentReconstructParams) (*Payment, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("payment ID cannot be zero")
	}
	return &Payment{
		id:             p.ID,
		sid:            p.SID,
		userID:         p.UserID,
		subscriptionID: p.SubscriptionID,
		packageID:      p.PackageID,
		amount:         p.Amount,
		discount:       p.Discount,
		currency:       p.Currency,
		couponID:       p.CouponID,
		status:         p.Status,
		providerRef:    p.ProviderRef,
		failureReason:  p.FailureReason,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}, nil
}

func (p *Payment) ID() uint               { return p.id }
func (p *Payment) SID() string            { return p.sid }
func (p *Payment) UserID() uint           { return p.userID }
func (p *Payment) SubscriptionID() *uint  { return p.subscriptionID }
func (p *Payment) PackageID() uint        { return p.packageID }
func (p *Payment) Amount() uint64         { return p.amount }
func (p *Payment) Discount() uint64       { return p.discount }
func (p *Payment) Currency() string       { return p.currency }
func (p *Payment) CouponID() *uint        { return p.couponID }
func (p *Payment) Status() PaymentStatus  { return p.status }
func (p *Payment) ProviderRef() *string   { return p.providerRef }
func (p *Payment) FailureReason() *string { return p.failureReason }
func (p *Payment) CreatedAt() time.Time   { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time   { return p.updatedAt }

// ChargedAmount is what the gateway actually collects.
func (p *Payment) ChargedAmount() uint64 {
	return p.amount - p.discount
}

func (p *Payment) SetID(newID uint) error {
	if p.id != 0 {
		return fmt.Errorf("payment ID is already set")
	}
	if newID == 0 {
		return fmt.Errorf("payment ID cannot be zero")
	}
	p.id = newID
	return nil
}

func (p *Payment) AttachSubscription(subscriptionID uint) {
	p.subscriptionID = &subscriptionID
	p.updatedAt = time.Now().UTC()
}

func (p *Payment) MarkSucceeded(providerRef string) error {
	if p.status != PaymentStatusPending {
		return fmt.Errorf("payment is not pending")
	}
	p.status = PaymentStatusSucceeded
	p.providerRef = &providerRef
	p.updatedAt = time.Now().UTC()
	return nil
}

func (p *Payment) MarkFailed(reason string) error {
	if p.status != PaymentStatusPending {
		return fmt.Errorf("payment is not pending")
	}
	p.status = PaymentStatusFailed
	p.failureReason = &reason
	p.updatedAt = time.Now().UTC()
	return nil
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id uint) (*Payment, error)
	GetBySID(ctx context.Context, sid string) (*Payment, error)
	ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*Payment, int64, error)
}
