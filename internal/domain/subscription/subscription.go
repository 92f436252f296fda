package subscription

import (
	"fmt"
	"math"
	"time"

	"calmora/internal/shared/id"
)

// Status is the stored subscription state. "expired" is additionally derived
// at read time from endDate; EffectiveStatus is the single source of truth for
// displays and entitlement checks, while a daily sweep promotes the stored
// value for queries that filter on status alone.
type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusExpired || s == StatusCancelled
}

// Subscription owns a user's entitlement period. Cancellation only stops
// future renewal; access continues until natural expiry.
type Subscription struct {
	id               uint
	sid              string
	userID           uint
	packageID        uint
	status           Status
	startDate        time.Time
	endDate          time.Time
	autoRenew        bool
	cancellationDate *time.Time
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

// NewSubscription creates an active subscription starting at startDate.
func NewSubscription(userID, packageID uint, startDate, endDate time.Time, autoRenew bool) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if packageID == 0 {
		return nil, fmt.Errorf("package ID is required")
	}
	if !endDate.After(startDate) {
		return nil, fmt.Errorf("end date must be after start date")
	}

	now := time.Now().UTC()
	return &Subscription{
		sid:       id.MustGenerateWithPrefix(id.PrefixSubscription, id.DefaultLength),
		userID:    userID,
		packageID: packageID,
		status:    StatusActive,
		startDate: startDate,
		endDate:   endDate,
		autoRenew: autoRenew,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// SubscriptionReconstructParams carries persisted state back into the aggregate.
type SubscriptionReconstructParams struct {
	ID               uint
	SID              string
	UserID           uint
	PackageID        uint
	Status           Status
	StartDate        time.Time
	EndDate          time.Time
	AutoRenew        bool
	CancellationDate *time.Time
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if p.PackageID == 0 {
		return nil, fmt.Errorf("package ID is required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}

	return &Subscription{
		id:               p.ID,
		sid:              p.SID,
		userID:           p.UserID,
		packageID:        p.PackageID,
		status:           p.Status,
		startDate:        p.StartDate,
		endDate:          p.EndDate,
		autoRenew:        p.AutoRenew,
		cancellationDate: p.CancellationDate,
		version:          p.Version,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                     { return s.id }
func (s *Subscription) SID() string                  { return s.sid }
func (s *Subscription) UserID() uint                 { return s.userID }
func (s *Subscription) PackageID() uint              { return s.packageID }
func (s *Subscription) Status() Status               { return s.status }
func (s *Subscription) StartDate() time.Time         { return s.startDate }
func (s *Subscription) EndDate() time.Time           { return s.endDate }
func (s *Subscription) AutoRenew() bool              { return s.autoRenew }
func (s *Subscription) CancellationDate() *time.Time { return s.cancellationDate }
func (s *Subscription) Version() int                 { return s.version }
func (s *Subscription) CreatedAt() time.Time         { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time         { return s.updatedAt }

// SetID is reserved for the persistence layer after insert.
func (s *Subscription) SetID(newID uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if newID == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = newID
	return nil
}

// IsActiveAt reports whether the subscription grants access at t.
func (s *Subscription) IsActiveAt(t time.Time) bool {
	return s.status == StatusActive && t.Before(s.endDate)
}

// IsActive reports whether the subscription grants access now.
func (s *Subscription) IsActive() bool {
	return s.IsActiveAt(time.Now().UTC())
}

// EffectiveStatus derives the status at t, treating a stored-active
// subscription past its end date as expired.
func (s *Subscription) EffectiveStatus(t time.Time) Status {
	if s.status == StatusActive && !t.Before(s.endDate) {
		return StatusExpired
	}
	return s.status
}

// DaysRemainingAt returns ceil((endDate-t)/24h) when the subscription is
// active at t, else 0.
func (s *Subscription) DaysRemainingAt(t time.Time) int {
	if !s.IsActiveAt(t) {
		return 0
	}
	remaining := s.endDate.Sub(t)
	return int(math.Ceil(remaining.Hours() / 24))
}

// DaysRemaining returns the days remaining as of now.
func (s *Subscription) DaysRemaining() int {
	return s.DaysRemainingAt(time.Now().UTC())
}

// Cancel turns off auto-renewal and stamps the cancellation date. Status and
// end date are untouched; the subscription stays usable until it expires.
func (s *Subscription) Cancel() error {
	if s.status != StatusActive {
		return fmt.Errorf("cannot cancel subscription with status %s", s.status)
	}
	if s.cancellationDate != nil {
		return nil
	}
	now := time.Now().UTC()
	s.autoRenew = false
	s.cancellationDate = &now
	s.touch()
	return nil
}

// Renew extends the subscription to newEndDate, clears any pending
// cancellation and restores active status.
func (s *Subscription) Renew(newEndDate time.Time) error {
	if !newEndDate.After(s.endDate) {
		return fmt.Errorf("new end date must be after current end date")
	}
	s.endDate = newEndDate
	s.cancellationDate = nil
	s.status = StatusActive
	s.touch()
	return nil
}

// ChangePackage moves the subscription onto a new package with the prorated
// end date computed by the caller.
func (s *Subscription) ChangePackage(newPackageID uint, newEndDate time.Time) error {
	if newPackageID == 0 {
		return fmt.Errorf("new package ID is required")
	}
	if s.status != StatusActive {
		return fmt.Errorf("cannot change package for subscription with status %s", s.status)
	}
	if !newEndDate.After(time.Now().UTC()) {
		return fmt.Errorf("new end date must be in the future")
	}
	s.packageID = newPackageID
	s.endDate = newEndDate
	s.touch()
	return nil
}

// MarkExpired promotes the stored status to expired. Idempotent.
func (s *Subscription) MarkExpired() {
	if s.status == StatusExpired {
		return
	}
	s.status = StatusExpired
	s.touch()
}

// SetAutoRenew updates the auto-renew flag.
func (s *Subscription) SetAutoRenew(v bool) {
	if s.autoRenew == v {
		return
	}
	s.autoRenew = v
	s.touch()
}

func (s *Subscription) touch() {
	s.updatedAt = time.Now().UTC()
	s.version++
}
