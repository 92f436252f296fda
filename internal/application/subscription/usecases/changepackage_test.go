package usecases

import (
	"context"
	"testing"
	"time"

	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newChangePackageFixture() (*mockSubscriptionRepository, *mockPackageRepository, *mockPaymentRepository, *mockSnapshotRepository, *mockPaymentGateway, *ChangePackageUseCase) {
	subRepo := new(mockSubscriptionRepository)
	pkgRepo := new(mockPackageRepository)
	payRepo := new(mockPaymentRepository)
	snapRepo := new(mockSnapshotRepository)
	gateway := new(mockPaymentGateway)
	uc := NewChangePackageUseCase(subRepo, pkgRepo, payRepo, snapRepo, gateway, newTestLogger())
	return subRepo, pkgRepo, payRepo, snapRepo, gateway, uc
}

func TestChangePackageUseCase_Execute_CreditsUnusedDays(t *testing.T) {
	subRepo, pkgRepo, payRepo, snapRepo, gateway, uc := newChangePackageFixture()

	now := time.Now().UTC()
	// 15 days left on a 1000/30-day package converts to 7 extra days on a
	// 2000/30-day package: floor(15*33.33 / 66.67).
	sub := testSubscription(t, 1, 10, 3, now.AddDate(0, 0, 15), true)
	oldPkg := testPackage(t, 3, "pkg-standard", 1000)
	newPkg := testPackage(t, 4, "pkg-premium", 2000)

	subRepo.On("GetActiveByUserID", mock.Anything, uint(10)).Return(sub, nil)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-premium").Return(newPkg, nil)
	pkgRepo.On("GetByID", mock.Anything, uint(3)).Return(oldPkg, nil)
	payRepo.On("Create", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)
	gateway.On("Charge", mock.Anything, mock.MatchedBy(func(req payment.ChargeRequest) bool {
		return req.Amount == 2000
	})).Return(&payment.ChargeResult{ProviderRef: "ch_change", Status: payment.StatusSucceeded}, nil)
	payRepo.On("Update", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)
	subRepo.On("Update", mock.Anything, sub).Return(nil)
	snapRepo.On("Upsert", mock.Anything, uint(10), mock.AnythingOfType("*subscription.Snapshot")).Return(nil)

	result, err := uc.Execute(context.Background(), ChangePackageCommand{
		UserID:        10,
		UserSID:       "usr-10",
		NewPackageSID: "pkg-premium",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, uint(4), sub.PackageID())
	wantEnd := now.AddDate(0, 0, 30+7)
	assert.WithinDuration(t, wantEnd, sub.EndDate(), time.Minute)
	snapRepo.AssertExpectations(t)
}

func TestChangePackageUseCase_Execute_SamePackageRejected(t *testing.T) {
	subRepo, pkgRepo, payRepo, _, _, uc := newChangePackageFixture()

	sub := testSubscription(t, 1, 10, 3, time.Now().UTC().AddDate(0, 0, 15), true)
	pkg := testPackage(t, 3, "pkg-standard", 1000)

	subRepo.On("GetActiveByUserID", mock.Anything, uint(10)).Return(sub, nil)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-standard").Return(pkg, nil)

	result, err := uc.Execute(context.Background(), ChangePackageCommand{
		UserID:        10,
		NewPackageSID: "pkg-standard",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	payRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestChangePackageUseCase_Execute_NoActiveSubscription(t *testing.T) {
	subRepo, _, _, _, _, uc := newChangePackageFixture()

	subRepo.On("GetActiveByUserID", mock.Anything, uint(10)).Return(nil, nil)

	result, err := uc.Execute(context.Background(), ChangePackageCommand{
		UserID:        10,
		NewPackageSID: "pkg-premium",
	})

	assert.ErrorIs(t, err, subscription.ErrNoActiveSubscription)
	assert.Nil(t, result)
}

func TestChangePackageUseCase_Execute_DeclinedChargeKeepsSubscription(t *testing.T) {
	subRepo, pkgRepo, payRepo, snapRepo, gateway, uc := newChangePackageFixture()

	now := time.Now().UTC()
	endDate := now.AddDate(0, 0, 15)
	sub := testSubscription(t, 1, 10, 3, endDate, true)
	oldPkg := testPackage(t, 3, "pkg-standard", 1000)
	newPkg := testPackage(t, 4, "pkg-premium", 2000)

	subRepo.On("GetActiveByUserID", mock.Anything, uint(10)).Return(sub, nil)
	pkgRepo.On("GetBySID", mock.Anything, "pkg-premium").Return(newPkg, nil)
	pkgRepo.On("GetByID", mock.Anything, uint(3)).Return(oldPkg, nil)
	payRepo.On("Create", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)
	gateway.On("Charge", mock.Anything, mock.Anything).Return(&payment.ChargeResult{
		Status:  payment.StatusFailed,
		Message: "do not honor",
	}, nil)
	payRepo.On("Update", mock.Anything, mock.MatchedBy(func(pay *subscription.Payment) bool {
		return pay.Status() == subscription.PaymentStatusFailed
	})).Return(nil)

	result, err := uc.Execute(context.Background(), ChangePackageCommand{
		UserID:        10,
		NewPackageSID: "pkg-premium",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, uint(3), sub.PackageID())
	assert.Equal(t, endDate.Unix(), sub.EndDate().Unix())
	subRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	snapRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelSubscriptionUseCase_Execute_DisablesAutoRenewOnly(t *testing.T) {
	subRepo := new(mockSubscriptionRepository)
	pkgRepo := new(mockPackageRepository)
	uc := NewCancelSubscriptionUseCase(subRepo, pkgRepo, newTestLogger())

	endDate := time.Now().UTC().AddDate(0, 0, 20)
	sub := testSubscription(t, 1, 10, 3, endDate, true)
	pkg := testPackage(t, 3, "pkg-standard", 1000)

	subRepo.On("GetActiveByUserID", mock.Anything, uint(10)).Return(sub, nil)
	subRepo.On("Update", mock.Anything, sub).Return(nil)
	pkgRepo.On("GetByID", mock.Anything, uint(3)).Return(pkg, nil)

	result, err := uc.Execute(context.Background(), CancelSubscriptionCommand{UserID: 10})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, sub.AutoRenew())
	assert.NotNil(t, sub.CancellationDate())
	assert.Equal(t, subscription.StatusActive, sub.Status())
	assert.Equal(t, endDate.Unix(), sub.EndDate().Unix())
}

func TestCancelSubscriptionUseCase_Execute_NoActiveSubscription(t *testing.T) {
	subRepo := new(mockSubscriptionRepository)
	pkgRepo := new(mockPackageRepository)
	uc := NewCancelSubscriptionUseCase(subRepo, pkgRepo, newTestLogger())

	subRepo.On("GetActiveByUserID", mock.Anything, uint(10)).Return(nil, nil)

	result, err := uc.Execute(context.Background(), CancelSubscriptionCommand{UserID: 10})

	assert.ErrorIs(t, err, subscription.ErrNoActiveSubscription)
	assert.Nil(t, result)
}
