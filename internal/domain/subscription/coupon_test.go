package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newPercentageCoupon(t *testing.T, value uint64) *Coupon {
	t.Helper()
	now := time.Now().UTC()
	c, err := NewCoupon("SAVE", DiscountPercentage, value, nil, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	return c
}

func newFixedCoupon(t *testing.T, value uint64) *Coupon {
	t.Helper()
	now := time.Now().UTC()
	c, err := NewCoupon("FLAT", DiscountFixed, value, nil, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	return c
}

func TestNewCoupon_NormalizesCode(t *testing.T) {
	now := time.Now().UTC()
	c, err := NewCoupon("  welcome10 ", DiscountPercentage, 10, nil, now, now.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", c.Code())
}

func TestNewCoupon_RejectsInvertedValidityWindow(t *testing.T) {
	now := time.Now().UTC()
	c, err := NewCoupon("BAD", DiscountPercentage, 10, nil, now, now)

	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestNewCoupon_RejectsPercentageOver100(t *testing.T) {
	now := time.Now().UTC()
	c, err := NewCoupon("BIG", DiscountPercentage, 101, nil, now, now.Add(time.Hour))

	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestCoupon_CalculateDiscount_PercentageWithinBounds(t *testing.T) {
	c := newPercentageCoupon(t, 25)
	now := time.Now().UTC()

	for _, amount := range []uint64{0, 1, 999, 9999, 100000} {
		d := c.CalculateDiscount(amount, now)
		assert.LessOrEqual(t, d, amount)
		assert.Equal(t, amount*25/100, d)
	}
}

func TestCoupon_CalculateDiscount_FixedNeverExceedsAmount(t *testing.T) {
	c := newFixedCoupon(t, 500)
	now := time.Now().UTC()

	assert.Equal(t, uint64(500), c.CalculateDiscount(999, now))
	assert.Equal(t, uint64(300), c.CalculateDiscount(300, now), "fixed discount is capped at the amount")
	assert.Equal(t, uint64(0), c.CalculateDiscount(0, now))
}

func TestCoupon_Expired_InvalidAndZeroDiscount(t *testing.T) {
	now := time.Now().UTC()
	c, err := NewCoupon("OLD", DiscountPercentage, 50, nil, now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)

	assert.False(t, c.IsValidAt(now))
	assert.Equal(t, uint64(0), c.CalculateDiscount(1000, now))
}

func TestCoupon_ValidUntilIsExclusive(t *testing.T) {
	now := time.Now().UTC()
	until := now.Add(time.Hour)
	c, err := NewCoupon("EDGE", DiscountPercentage, 10, nil, now.Add(-time.Hour), until)
	require.NoError(t, err)

	assert.True(t, c.IsValidAt(until.Add(-time.Second)))
	assert.False(t, c.IsValidAt(until), "coupon is invalid at exactly validUntil")
}

func TestCoupon_UsageCapReached_Invalid(t *testing.T) {
	now := time.Now().UTC()
	maxUses := 3
	c, err := ReconstructCoupon(CouponReconstructParams{
		ID:            1,
		SID:           "cpn_test",
		Code:          "CAPPED",
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		MaxUses:       &maxUses,
		UsedCount:     3,
		ValidFrom:     now.Add(-time.Hour),
		ValidUntil:    now.Add(time.Hour),
		Active:        true,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)

	assert.False(t, c.IsValidAt(now))
	assert.Equal(t, uint64(0), c.CalculateDiscount(1000, now))
}

func TestCoupon_NilMaxUses_Unlimited(t *testing.T) {
	now := time.Now().UTC()
	c, err := ReconstructCoupon(CouponReconstructParams{
		ID:            1,
		SID:           "cpn_test",
		Code:          "FOREVER",
		DiscountType:  DiscountFixed,
		DiscountValue: 100,
		UsedCount:     1000000,
		ValidFrom:     now.Add(-time.Hour),
		ValidUntil:    now.Add(time.Hour),
		Active:        true,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)

	assert.True(t, c.IsValidAt(now))
}

func TestCoupon_IsApplicableTo(t *testing.T) {
	c := newPercentageCoupon(t, 10)

	assert.True(t, c.IsApplicableTo(42), "empty applicable list covers every package")

	c.SetApplicablePackages([]uint{1, 2})
	assert.True(t, c.IsApplicableTo(1))
	assert.True(t, c.IsApplicableTo(2))
	assert.False(t, c.IsApplicableTo(3))
}

func TestCoupon_Deactivated_Invalid(t *testing.T) {
	c := newPercentageCoupon(t, 10)
	c.Deactivate()

	assert.False(t, c.IsValidAt(time.Now().UTC()))
}
