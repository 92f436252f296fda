package subscription

import (
	"context"
	"time"
)

// PackageRepository persists packages. Implementations return (nil, nil) when
// a record does not exist.
type PackageRepository interface {
	Create(ctx context.Context, pkg *Package) error
	Update(ctx context.Context, pkg *Package) error
	GetByID(ctx context.Context, id uint) (*Package, error)
	GetBySID(ctx context.Context, sid string) (*Package, error)
	GetByType(ctx context.Context, packageType PackageType) (*Package, error)
	ListActive(ctx context.Context) ([]*Package, error)
	ListAll(ctx context.Context) ([]*Package, error)
}

// CouponRepository persists coupons. RedeemAtomically increments used_count
// only while the coupon is still valid (active, inside its window, below its
// usage cap); it returns false when the conditional update matched no row,
// which callers surface as "coupon is not valid".
type CouponRepository interface {
	Create(ctx context.Context, coupon *Coupon) error
	Update(ctx context.Context, coupon *Coupon) error
	GetByID(ctx context.Context, id uint) (*Coupon, error)
	GetBySID(ctx context.Context, sid string) (*Coupon, error)
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	RedeemAtomically(ctx context.Context, couponID uint, now time.Time) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*Coupon, int64, error)
}

// SubscriptionRepository persists subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetBySID(ctx context.Context, sid string) (*Subscription, error)
	// GetActiveByUserID returns the user's current active subscription, or
	// (nil, nil) when none exists.
	GetActiveByUserID(ctx context.Context, userID uint) (*Subscription, error)
	ListByUserID(ctx context.Context, userID uint) ([]*Subscription, error)
	// ListExpiredActive returns subscriptions stored as active whose end date
	// has passed, for the expiry promotion sweep.
	ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]*Subscription, error)
	// ListDueForRenewal returns active auto-renew subscriptions ending within
	// the lookahead window.
	ListDueForRenewal(ctx context.Context, now time.Time, lookahead time.Duration, limit int) ([]*Subscription, error)
}

// SnapshotRepository stores the denormalized entitlement snapshot consulted on
// every playback request. Callers rewrite the snapshot immediately after any
// subscription change so reads never consult the subscriptions table.
type SnapshotRepository interface {
	Upsert(ctx context.Context, userID uint, snap *Snapshot) error
	GetByUserID(ctx context.Context, userID uint) (*Snapshot, error)
	Delete(ctx context.Context, userID uint) error
}
