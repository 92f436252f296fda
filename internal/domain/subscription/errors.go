package subscription

import "errors"

var (
	ErrSubscriptionNotFound  = errors.New("subscription not found")
	ErrNoActiveSubscription  = errors.New("no active subscription")
	ErrPackageNotFound       = errors.New("package not found")
	ErrPackageInactive       = errors.New("package inactive")
	ErrPackageTypeExists     = errors.New("package type already exists")
	ErrCouponNotFound        = errors.New("coupon not found")
	ErrCouponNotValid        = errors.New("coupon is not valid or expired")
	ErrCouponNotApplicable   = errors.New("coupon not applicable to this package")
)
