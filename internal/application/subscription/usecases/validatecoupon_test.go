package usecases

import (
	"context"
	"testing"
	"time"

	"calmora/internal/domain/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestValidateCouponUseCase_Execute_ValidPercentage(t *testing.T) {
	couponRepo := new(mockCouponRepository)
	pkgRepo := new(mockPackageRepository)
	uc := NewValidateCouponUseCase(couponRepo, pkgRepo, newTestLogger())

	pkg := testPackage(t, 1, "pkg-standard", 1000)
	coupon := testCoupon(t, 5, "SAVE25", subscription.DiscountPercentage, 25, nil)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-standard").Return(pkg, nil)
	couponRepo.On("GetByCode", mock.Anything, "SAVE25").Return(coupon, nil)

	quote, err := uc.Execute(context.Background(), ValidateCouponCommand{
		Code:       " save25 ",
		PackageSID: "pkg-standard",
	})

	require.NoError(t, err)
	assert.True(t, quote.Valid)
	assert.Equal(t, "SAVE25", quote.Code)
	assert.Equal(t, uint64(1000), quote.OriginalAmount)
	assert.Equal(t, uint64(250), quote.Discount)
	assert.Equal(t, uint64(750), quote.FinalAmount)
}

func TestValidateCouponUseCase_Execute_FixedDiscountClampedToPrice(t *testing.T) {
	couponRepo := new(mockCouponRepository)
	pkgRepo := new(mockPackageRepository)
	uc := NewValidateCouponUseCase(couponRepo, pkgRepo, newTestLogger())

	pkg := testPackage(t, 1, "pkg-basic", 500)
	coupon := testCoupon(t, 6, "BIGFIXED", subscription.DiscountFixed, 900, nil)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-basic").Return(pkg, nil)
	couponRepo.On("GetByCode", mock.Anything, "BIGFIXED").Return(coupon, nil)

	quote, err := uc.Execute(context.Background(), ValidateCouponCommand{
		Code:       "BIGFIXED",
		PackageSID: "pkg-basic",
	})

	require.NoError(t, err)
	assert.True(t, quote.Valid)
	assert.Equal(t, uint64(500), quote.Discount)
	assert.Equal(t, uint64(0), quote.FinalAmount)
}

func TestValidateCouponUseCase_Execute_UnknownCode(t *testing.T) {
	couponRepo := new(mockCouponRepository)
	pkgRepo := new(mockPackageRepository)
	uc := NewValidateCouponUseCase(couponRepo, pkgRepo, newTestLogger())

	pkg := testPackage(t, 1, "pkg-standard", 1000)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-standard").Return(pkg, nil)
	couponRepo.On("GetByCode", mock.Anything, "NOPE").Return(nil, nil)

	quote, err := uc.Execute(context.Background(), ValidateCouponCommand{
		Code:       "NOPE",
		PackageSID: "pkg-standard",
	})

	require.NoError(t, err)
	assert.False(t, quote.Valid)
	assert.Equal(t, "coupon not found", quote.Reason)
	assert.Equal(t, uint64(1000), quote.FinalAmount)
}

func TestValidateCouponUseCase_Execute_ExpiredCoupon(t *testing.T) {
	couponRepo := new(mockCouponRepository)
	pkgRepo := new(mockPackageRepository)
	uc := NewValidateCouponUseCase(couponRepo, pkgRepo, newTestLogger())

	now := time.Now().UTC()
	expired, err := subscription.ReconstructCoupon(subscription.CouponReconstructParams{
		ID:            9,
		SID:           "cpn-expired",
		Code:          "OLD",
		DiscountType:  subscription.DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     now.AddDate(0, -2, 0),
		ValidUntil:    now.AddDate(0, -1, 0),
		Active:        true,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)

	pkg := testPackage(t, 1, "pkg-standard", 1000)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-standard").Return(pkg, nil)
	couponRepo.On("GetByCode", mock.Anything, "OLD").Return(expired, nil)

	quote, err := uc.Execute(context.Background(), ValidateCouponCommand{
		Code:       "OLD",
		PackageSID: "pkg-standard",
	})

	require.NoError(t, err)
	assert.False(t, quote.Valid)
	assert.Equal(t, "coupon is not valid or expired", quote.Reason)
}

func TestValidateCouponUseCase_Execute_NotApplicable(t *testing.T) {
	couponRepo := new(mockCouponRepository)
	pkgRepo := new(mockPackageRepository)
	uc := NewValidateCouponUseCase(couponRepo, pkgRepo, newTestLogger())

	pkg := testPackage(t, 1, "pkg-standard", 1000)
	coupon := testCoupon(t, 5, "PREMIUM10", subscription.DiscountPercentage, 10, []uint{99})
	pkgRepo.On("GetBySID", mock.Anything, "pkg-standard").Return(pkg, nil)
	couponRepo.On("GetByCode", mock.Anything, "PREMIUM10").Return(coupon, nil)

	quote, err := uc.Execute(context.Background(), ValidateCouponCommand{
		Code:       "PREMIUM10",
		PackageSID: "pkg-standard",
	})

	require.NoError(t, err)
	assert.False(t, quote.Valid)
	assert.Equal(t, "coupon not applicable to this package", quote.Reason)
}

func TestValidateCouponUseCase_Execute_PackageNotFound(t *testing.T) {
	couponRepo := new(mockCouponRepository)
	pkgRepo := new(mockPackageRepository)
	uc := NewValidateCouponUseCase(couponRepo, pkgRepo, newTestLogger())

	pkgRepo.On("GetBySID", mock.Anything, "pkg-gone").Return(nil, nil)

	quote, err := uc.Execute(context.Background(), ValidateCouponCommand{
		Code:       "SAVE25",
		PackageSID: "pkg-gone",
	})

	assert.ErrorIs(t, err, subscription.ErrPackageNotFound)
	assert.Nil(t, quote)
}
