package subscription

import (
	"fmt"
	"strings"
	"time"

	"calmora/internal/shared/id"
)

// DiscountType selects how a coupon reduces the price.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// Coupon is a redeemable discount code. The used-count increment is performed
// atomically by the repository; the aggregate only expresses validity rules.
type Coupon struct {
	id                 uint
	sid                string
	code               string
	discountType       DiscountType
	discountValue      uint64 // percent (0-100) or minor units
	maxUses            *int   // nil = unlimited
	usedCount          int
	validFrom          time.Time
	validUntil         time.Time
	active             bool
	applicablePackages []uint // empty = all packages
	version            int
	createdAt          time.Time
	updatedAt          time.Time
}

// NormalizeCouponCode upper-cases and trims a coupon code; lookups and storage
// both go through this.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewCoupon creates a coupon. validUntil must be strictly after validFrom.
func NewCoupon(code string, discountType DiscountType, discountValue uint64,
	maxUses *int, validFrom, validUntil time.Time) (*Coupon, error) {

	code = NormalizeCouponCode(code)
	if code == "" {
		return nil, fmt.Errorf("coupon code is required")
	}
	if len(code) > 50 {
		return nil, fmt.Errorf("coupon code too long (max 50 characters)")
	}
	if !discountType.IsValid() {
		return nil, fmt.Errorf("invalid discount type: %s", discountType)
	}
	if discountType == DiscountPercentage && discountValue > 100 {
		return nil, fmt.Errorf("percentage discount cannot exceed 100")
	}
	if !validUntil.After(validFrom) {
		return nil, fmt.Errorf("valid until must be after valid from")
	}
	if maxUses != nil && *maxUses <= 0 {
		return nil, fmt.Errorf("max uses must be greater than 0")
	}

	now := time.Now().UTC()
	return &Coupon{
		sid:                id.MustGenerateWithPrefix(id.PrefixCoupon, id.DefaultLength),
		code:               code,
		discountType:       discountType,
		discountValue:      discountValue,
		maxUses:            maxUses,
		validFrom:          validFrom,
		validUntil:         validUntil,
		active:             true,
		applicablePackages: []uint{},
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// CouponReconstructParams carries persisted state back into the aggregate.
type CouponReconstructParams struct {
	ID                 uint
	SID                string
	Code               string
	DiscountType       DiscountType
	DiscountValue      uint64
	MaxUses            *int
	UsedCount          int
	ValidFrom          time.Time
	ValidUntil         time.Time
	Active             bool
	ApplicablePackages []uint
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReconstructCoupon rebuilds a coupon from persistence.
func ReconstructCoupon(p CouponReconstructParams) (*Coupon, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("coupon ID cannot be zero")
	}
	if !p.DiscountType.IsValid() {
		return nil, fmt.Errorf("invalid discount type: %s", p.DiscountType)
	}

	applicable := p.ApplicablePackages
	if applicable == nil {
		applicable = []uint{}
	}

	return &Coupon{
		id:                 p.ID,
		sid:                p.SID,
		code:               NormalizeCouponCode(p.Code),
		discountType:       p.DiscountType,
		discountValue:      p.DiscountValue,
		maxUses:            p.MaxUses,
		usedCount:          p.UsedCount,
		validFrom:          p.ValidFrom,
		validUntil:         p.ValidUntil,
		active:             p.Active,
		applicablePackages: applicable,
		version:            p.Version,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
	}, nil
}

func (c *Coupon) ID() uint                   { return c.id }
func (c *Coupon) SID() string                { return c.sid }
func (c *Coupon) Code() string               { return c.code }
func (c *Coupon) DiscountType() DiscountType { return c.discountType }
func (c *Coupon) DiscountValue() uint64      { return c.discountValue }
func (c *Coupon) MaxUses() *int              { return c.maxUses }
func (c *Coupon) UsedCount() int             { return c.usedCount }
func (c *Coupon) ValidFrom() time.Time       { return c.validFrom }
func (c *Coupon) ValidUntil() time.Time      { return c.validUntil }
func (c *Coupon) IsActive() bool             { return c.active }
func (c *Coupon) ApplicablePackages() []uint { return c.applicablePackages }
func (c *Coupon) Version() int               { return c.version }
func (c *Coupon) CreatedAt() time.Time       { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time       { return c.updatedAt }

// SetID is reserved for the persistence layer after insert.
func (c *Coupon) SetID(newID uint) error {
	if c.id != 0 {
		return fmt.Errorf("coupon ID is already set")
	}
	if newID == 0 {
		return fmt.Errorf("coupon ID cannot be zero")
	}
	c.id = newID
	return nil
}

// IsValidAt reports whether the coupon can be redeemed at t:
// active, t within [validFrom, validUntil), and usage cap not reached.
func (c *Coupon) IsValidAt(t time.Time) bool {
	if !c.active {
		return false
	}
	if t.Before(c.validFrom) || !t.Before(c.validUntil) {
		return false
	}
	if c.maxUses != nil && c.usedCount >= *c.maxUses {
		return false
	}
	return true
}

// IsApplicableTo reports whether the coupon applies to packageID. An empty
// applicable list means the coupon covers every package.
func (c *Coupon) IsApplicableTo(packageID uint) bool {
	if len(c.applicablePackages) == 0 {
		return true
	}
	for _, pid := range c.applicablePackages {
		if pid == packageID {
			return true
		}
	}
	return false
}

// CalculateDiscount returns the discount for amount at time t. The result is
// always within [0, amount]; an invalid coupon discounts nothing.
func (c *Coupon) CalculateDiscount(amount uint64, t time.Time) uint64 {
	if !c.IsValidAt(t) {
		return 0
	}
	switch c.discountType {
	case DiscountPercentage:
		return amount * c.discountValue / 100
	case DiscountFixed:
		if c.discountValue > amount {
			return amount
		}
		return c.discountValue
	default:
		return 0
	}
}

func (c *Coupon) SetApplicablePackages(packageIDs []uint) {
	if packageIDs == nil {
		packageIDs = []uint{}
	}
	c.applicablePackages = packageIDs
	c.touch()
}

func (c *Coupon) Deactivate() {
	if !c.active {
		return
	}
	c.active = false
	c.touch()
}

func (c *Coupon) touch() {
	c.updatedAt = time.Now().UTC()
	c.version++
}
