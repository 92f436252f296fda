package subscription

import (
	"fmt"
	"time"

	"calmora/internal/shared/id"
)

// PackageType identifies a purchasable plan tier. Types are unique across
// active packages.
type PackageType string

const (
	PackageBasic    PackageType = "basic"
	PackageStandard PackageType = "standard"
	PackagePremium  PackageType = "premium"
)

func (t PackageType) IsValid() bool {
	return t == PackageBasic || t == PackageStandard || t == PackagePremium
}

// PeriodUnit is the unit of a billing period.
type PeriodUnit string

const (
	PeriodDay   PeriodUnit = "day"
	PeriodMonth PeriodUnit = "month"
	PeriodYear  PeriodUnit = "year"
)

func (u PeriodUnit) IsValid() bool {
	return u == PeriodDay || u == PeriodMonth || u == PeriodYear
}

var validCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"TRY": true,
}

// Package is the immutable reference data for a purchasable plan. Packages are
// admin-managed and never deleted, only deactivated.
type Package struct {
	id                 uint
	sid                string
	name               string
	packageType        PackageType
	price              uint64 // minor currency units
	currency           string
	periodUnit         PeriodUnit
	periodCount        int
	durationDays       int
	discountPercentage int
	features           []string
	active             bool
	displayOrder       int
	version            int
	createdAt          time.Time
	updatedAt          time.Time
}

// NewPackage creates a package. durationDays is derived from the period.
func NewPackage(name string, packageType PackageType, price uint64, currency string,
	periodUnit PeriodUnit, periodCount int) (*Package, error) {

	if name == "" {
		return nil, fmt.Errorf("package name is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("package name too long (max 100 characters)")
	}
	if !packageType.IsValid() {
		return nil, fmt.Errorf("invalid package type: %s", packageType)
	}
	if !validCurrencies[currency] {
		return nil, fmt.Errorf("invalid currency code: %s", currency)
	}
	if !periodUnit.IsValid() {
		return nil, fmt.Errorf("invalid period unit: %s", periodUnit)
	}
	if periodCount <= 0 {
		return nil, fmt.Errorf("period count must be greater than 0")
	}

	now := time.Now().UTC()
	return &Package{
		sid:          id.MustGenerateWithPrefix(id.PrefixPackage, id.DefaultLength),
		name:         name,
		packageType:  packageType,
		price:        price,
		currency:     currency,
		periodUnit:   periodUnit,
		periodCount:  periodCount,
		durationDays: durationDays(periodUnit, periodCount),
		features:     []string{},
		active:       true,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func durationDays(unit PeriodUnit, count int) int {
	switch unit {
	case PeriodDay:
		return count
	case PeriodMonth:
		return count * 30
	case PeriodYear:
		return count * 365
	default:
		return count * 30
	}
}

// PackageReconstructParams carries persisted state back into the aggregate.
type PackageReconstructParams struct {
	ID                 uint
	SID                string
	Name               string
	PackageType        PackageType
	Price              uint64
	Currency           string
	PeriodUnit         PeriodUnit
	PeriodCount        int
	DurationDays       int
	DiscountPercentage int
	Features           []string
	Active             bool
	DisplayOrder       int
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReconstructPackage rebuilds a package from persistence.
func ReconstructPackage(p PackageReconstructParams) (*Package, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("package ID cannot be zero")
	}
	if !p.PackageType.IsValid() {
		return nil, fmt.Errorf("invalid package type: %s", p.PackageType)
	}
	if p.PeriodCount <= 0 {
		return nil, fmt.Errorf("period count must be greater than 0")
	}

	features := p.Features
	if features == nil {
		features = []string{}
	}

	return &Package{
		id:                 p.ID,
		sid:                p.SID,
		name:               p.Name,
		packageType:        p.PackageType,
		price:              p.Price,
		currency:           p.Currency,
		periodUnit:         p.PeriodUnit,
		periodCount:        p.PeriodCount,
		durationDays:       p.DurationDays,
		discountPercentage: p.DiscountPercentage,
		features:           features,
		active:             p.Active,
		displayOrder:       p.DisplayOrder,
		version:            p.Version,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
	}, nil
}

func (p *Package) ID() uint                 { return p.id }
func (p *Package) SID() string              { return p.sid }
func (p *Package) Name() string             { return p.name }
func (p *Package) Type() PackageType        { return p.packageType }
func (p *Package) Price() uint64            { return p.price }
func (p *Package) Currency() string         { return p.currency }
func (p *Package) PeriodUnit() PeriodUnit   { return p.periodUnit }
func (p *Package) PeriodCount() int         { return p.periodCount }
func (p *Package) DurationDays() int        { return p.durationDays }
func (p *Package) DiscountPercentage() int  { return p.discountPercentage }
func (p *Package) Features() []string       { return p.features }
func (p *Package) IsActive() bool           { return p.active }
func (p *Package) DisplayOrder() int        { return p.displayOrder }
func (p *Package) Version() int             { return p.version }
func (p *Package) CreatedAt() time.Time     { return p.createdAt }
func (p *Package) UpdatedAt() time.Time     { return p.updatedAt }

// SetID is reserved for the persistence layer after insert.
func (p *Package) SetID(newID uint) error {
	if p.id != 0 {
		return fmt.Errorf("package ID is already set")
	}
	if newID == 0 {
		return fmt.Errorf("package ID cannot be zero")
	}
	p.id = newID
	return nil
}

// PeriodEnd returns start advanced by one billing period.
func (p *Package) PeriodEnd(start time.Time) time.Time {
	return start.Add(time.Duration(p.durationDays) * 24 * time.Hour)
}

// PricePerDay returns the package's daily rate for proration.
func (p *Package) PricePerDay() float64 {
	if p.durationDays == 0 {
		return 0
	}
	return float64(p.price) / float64(p.durationDays)
}

// Tier maps the package type onto the content access tier it satisfies.
// Standard packages grant the basic tier; premium grants everything.
func (p *Package) Tier() ContentTier {
	return tierForPackageType(p.packageType)
}

func (p *Package) UpdateName(name string) error {
	if name == "" {
		return fmt.Errorf("package name is required")
	}
	p.name = name
	p.touch()
	return nil
}

func (p *Package) UpdatePrice(price uint64, currency string) error {
	if !validCurrencies[currency] {
		return fmt.Errorf("invalid currency code: %s", currency)
	}
	p.price = price
	p.currency = currency
	p.touch()
	return nil
}

func (p *Package) UpdateFeatures(features []string) {
	if features == nil {
		features = []string{}
	}
	p.features = features
	p.touch()
}

func (p *Package) SetDiscountPercentage(pct int) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("discount percentage must be between 0 and 100")
	}
	p.discountPercentage = pct
	p.touch()
	return nil
}

func (p *Package) SetDisplayOrder(order int) {
	p.displayOrder = order
	p.touch()
}

func (p *Package) Activate() {
	if p.active {
		return
	}
	p.active = true
	p.touch()
}

func (p *Package) Deactivate() {
	if !p.active {
		return
	}
	p.active = false
	p.touch()
}

func (p *Package) touch() {
	p.updatedAt = time.Now().UTC()
	p.version++
}
