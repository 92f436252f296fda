package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSubscribeFixture() (*mockSubscriptionRepository, *mockPackageRepository, *mockCouponRepository, *mockPaymentRepository, *mockSnapshotRepository, *mockPaymentGateway, *SubscribeUseCase) {
	subRepo := new(mockSubscriptionRepository)
	pkgRepo := new(mockPackageRepository)
	couponRepo := new(mockCouponRepository)
	payRepo := new(mockPaymentRepository)
	snapRepo := new(mockSnapshotRepository)
	gateway := new(mockPaymentGateway)
	uc := NewSubscribeUseCase(subRepo, pkgRepo, couponRepo, payRepo, snapRepo, gateway, newTestLogger())
	return subRepo, pkgRepo, couponRepo, payRepo, snapRepo, gateway, uc
}

func TestSubscribeUseCase_Execute_Success(t *testing.T) {
	subRepo, pkgRepo, _, payRepo, snapRepo, gateway, uc := newSubscribeFixture()

	pkg := testPackage(t, 1, "pkg-standard", 999)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-standard").Return(pkg, nil)
	subRepo.On("GetActiveByUserID", mock.Anything, uint(7)).Return(nil, nil)
	payRepo.On("Create", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)
	gateway.On("Charge", mock.Anything, mock.MatchedBy(func(req payment.ChargeRequest) bool {
		return req.Amount == 999 && req.Currency == "USD"
	})).Return(&payment.ChargeResult{ProviderRef: "ch_123", Status: payment.StatusSucceeded}, nil)
	subRepo.On("Create", mock.Anything, mock.AnythingOfType("*subscription.Subscription")).Return(nil)
	payRepo.On("Update", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)
	snapRepo.On("Upsert", mock.Anything, uint(7), mock.AnythingOfType("*subscription.Snapshot")).Return(nil)

	result, err := uc.Execute(context.Background(), SubscribeCommand{
		UserID:     7,
		UserSID:    "usr-7",
		PackageSID: "pkg-standard",
		AutoRenew:  true,
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Created)
	assert.NotNil(t, result.Subscription)
	require.NotNil(t, result.Payment)
	assert.Equal(t, uint64(999), result.Payment.ChargedAmount)
	subRepo.AssertExpectations(t)
	payRepo.AssertExpectations(t)
	snapRepo.AssertExpectations(t)
}

func TestSubscribeUseCase_Execute_RepeatSamePackageIsIdempotent(t *testing.T) {
	subRepo, pkgRepo, _, payRepo, _, gateway, uc := newSubscribeFixture()

	pkg := testPackage(t, 3, "pkg-standard", 999)
	existing := testSubscription(t, 11, 7, 3, time.Now().UTC().AddDate(0, 0, 20), true)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-standard").Return(pkg, nil)
	subRepo.On("GetActiveByUserID", mock.Anything, uint(7)).Return(existing, nil)

	result, err := uc.Execute(context.Background(), SubscribeCommand{
		UserID:     7,
		UserSID:    "usr-7",
		PackageSID: "pkg-standard",
		AutoRenew:  true,
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Created)
	assert.Nil(t, result.Payment)
	payRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestSubscribeUseCase_Execute_DifferentPackageAlsoIdempotent(t *testing.T) {
	subRepo, pkgRepo, _, payRepo, _, gateway, uc := newSubscribeFixture()

	requested := testPackage(t, 3, "pkg-standard", 999)
	held := testPackage(t, 9, "pkg-basic", 499)
	existing := testSubscription(t, 11, 7, 9, time.Now().UTC().AddDate(0, 0, 20), true)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-standard").Return(requested, nil)
	pkgRepo.On("GetByID", mock.Anything, uint(9)).Return(held, nil)
	subRepo.On("GetActiveByUserID", mock.Anything, uint(7)).Return(existing, nil)

	result, err := uc.Execute(context.Background(), SubscribeCommand{
		UserID:     7,
		UserSID:    "usr-7",
		PackageSID: "pkg-standard",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Created)
	// the held subscription is returned untouched, not a new one on the
	// requested package
	assert.Equal(t, "pkg-basic", result.Subscription.PackageSID)
	payRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestSubscribeUseCase_Execute_PackageNotFound(t *testing.T) {
	_, pkgRepo, _, _, _, _, uc := newSubscribeFixture()

	pkgRepo.On("GetBySID", mock.Anything, "pkg-missing").Return(nil, nil)

	result, err := uc.Execute(context.Background(), SubscribeCommand{
		UserID:     7,
		PackageSID: "pkg-missing",
	})

	assert.ErrorIs(t, err, subscription.ErrPackageNotFound)
	assert.Nil(t, result)
}

func TestSubscribeUseCase_Execute_CouponDiscountApplied(t *testing.T) {
	subRepo, pkgRepo, couponRepo, payRepo, snapRepo, gateway, uc := newSubscribeFixture()

	pkg := testPackage(t, 1, "pkg-standard", 1000)
	coupon := testCoupon(t, 5, "WELCOME20", subscription.DiscountPercentage, 20, nil)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-standard").Return(pkg, nil)
	subRepo.On("GetActiveByUserID", mock.Anything, uint(7)).Return(nil, nil)
	couponRepo.On("GetByCode", mock.Anything, "WELCOME20").Return(coupon, nil)
	couponRepo.On("RedeemAtomically", mock.Anything, uint(5), mock.AnythingOfType("time.Time")).Return(true, nil)
	payRepo.On("Create", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)
	gateway.On("Charge", mock.Anything, mock.MatchedBy(func(req payment.ChargeRequest) bool {
		return req.Amount == 800
	})).Return(&payment.ChargeResult{ProviderRef: "ch_456", Status: payment.StatusSucceeded}, nil)
	subRepo.On("Create", mock.Anything, mock.AnythingOfType("*subscription.Subscription")).Return(nil)
	payRepo.On("Update", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)
	snapRepo.On("Upsert", mock.Anything, uint(7), mock.AnythingOfType("*subscription.Snapshot")).Return(nil)

	result, err := uc.Execute(context.Background(), SubscribeCommand{
		UserID:     7,
		UserSID:    "usr-7",
		PackageSID: "pkg-standard",
		CouponCode: "welcome20",
		AutoRenew:  true,
	})

	require.NoError(t, err)
	require.NotNil(t, result.Payment)
	assert.Equal(t, uint64(800), result.Payment.ChargedAmount)
	assert.Equal(t, uint64(200), result.Payment.Discount)
	couponRepo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestSubscribeUseCase_Execute_CouponUsageCapReached(t *testing.T) {
	subRepo, pkgRepo, couponRepo, payRepo, _, gateway, uc := newSubscribeFixture()

	pkg := testPackage(t, 1, "pkg-standard", 1000)
	coupon := testCoupon(t, 5, "WELCOME20", subscription.DiscountPercentage, 20, nil)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-standard").Return(pkg, nil)
	subRepo.On("GetActiveByUserID", mock.Anything, uint(7)).Return(nil, nil)
	couponRepo.On("GetByCode", mock.Anything, "WELCOME20").Return(coupon, nil)
	couponRepo.On("RedeemAtomically", mock.Anything, uint(5), mock.AnythingOfType("time.Time")).Return(false, nil)

	result, err := uc.Execute(context.Background(), SubscribeCommand{
		UserID:     7,
		PackageSID: "pkg-standard",
		CouponCode: "WELCOME20",
	})

	assert.ErrorIs(t, err, subscription.ErrCouponNotValid)
	assert.Nil(t, result)
	payRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestSubscribeUseCase_Execute_CouponNotApplicableToPackage(t *testing.T) {
	subRepo, pkgRepo, couponRepo, _, _, _, uc := newSubscribeFixture()

	pkg := testPackage(t, 1, "pkg-standard", 1000)
	coupon := testCoupon(t, 5, "PREMIUMONLY", subscription.DiscountFixed, 300, []uint{42})
	pkgRepo.On("GetBySID", mock.Anything, "pkg-standard").Return(pkg, nil)
	subRepo.On("GetActiveByUserID", mock.Anything, uint(7)).Return(nil, nil)
	couponRepo.On("GetByCode", mock.Anything, "PREMIUMONLY").Return(coupon, nil)

	result, err := uc.Execute(context.Background(), SubscribeCommand{
		UserID:     7,
		PackageSID: "pkg-standard",
		CouponCode: "PREMIUMONLY",
	})

	assert.ErrorIs(t, err, subscription.ErrCouponNotApplicable)
	assert.Nil(t, result)
	couponRepo.AssertNotCalled(t, "RedeemAtomically", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscribeUseCase_Execute_ChargeDeclined(t *testing.T) {
	subRepo, pkgRepo, _, payRepo, snapRepo, gateway, uc := newSubscribeFixture()

	pkg := testPackage(t, 1, "pkg-standard", 999)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-standard").Return(pkg, nil)
	subRepo.On("GetActiveByUserID", mock.Anything, uint(7)).Return(nil, nil)
	payRepo.On("Create", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)
	gateway.On("Charge", mock.Anything, mock.Anything).Return(&payment.ChargeResult{
		Status:  payment.StatusFailed,
		Message: "insufficient funds",
	}, nil)
	payRepo.On("Update", mock.Anything, mock.MatchedBy(func(pay *subscription.Payment) bool {
		return pay.Status() == subscription.PaymentStatusFailed
	})).Return(nil)

	result, err := uc.Execute(context.Background(), SubscribeCommand{
		UserID:     7,
		UserSID:    "usr-7",
		PackageSID: "pkg-standard",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient funds")
	assert.Nil(t, result)
	subRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	snapRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	payRepo.AssertExpectations(t)
}

func TestSubscribeUseCase_Execute_GatewayError(t *testing.T) {
	subRepo, pkgRepo, _, payRepo, _, gateway, uc := newSubscribeFixture()

	pkg := testPackage(t, 1, "pkg-standard", 999)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-standard").Return(pkg, nil)
	subRepo.On("GetActiveByUserID", mock.Anything, uint(7)).Return(nil, nil)
	payRepo.On("Create", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)
	gateway.On("Charge", mock.Anything, mock.Anything).Return(nil, errors.New("gateway timeout"))
	payRepo.On("Update", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)

	result, err := uc.Execute(context.Background(), SubscribeCommand{
		UserID:     7,
		PackageSID: "pkg-standard",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway timeout")
	assert.Nil(t, result)
	subRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
