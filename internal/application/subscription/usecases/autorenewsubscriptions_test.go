package usecases

import (
	"context"
	"testing"
	"time"

	"calmora/internal/domain/notification"
	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAutoRenewFixture(lookahead time.Duration) (*mockSubscriptionRepository, *mockPackageRepository, *mockPaymentRepository, *mockSnapshotRepository, *mockUserSIDResolver, *mockPaymentGateway, *AutoRenewSubscriptionsUseCase) {
	subRepo := new(mockSubscriptionRepository)
	pkgRepo := new(mockPackageRepository)
	payRepo := new(mockPaymentRepository)
	snapRepo := new(mockSnapshotRepository)
	resolver := new(mockUserSIDResolver)
	gateway := new(mockPaymentGateway)
	uc := NewAutoRenewSubscriptionsUseCase(subRepo, pkgRepo, payRepo, snapRepo, resolver, gateway, lookahead, newTestLogger())
	return subRepo, pkgRepo, payRepo, snapRepo, resolver, gateway, uc
}

func TestAutoRenewSubscriptionsUseCase_Execute_RenewsAndExtends(t *testing.T) {
	subRepo, pkgRepo, payRepo, snapRepo, resolver, gateway, uc := newAutoRenewFixture(24 * time.Hour)

	endDate := time.Now().UTC().Add(12 * time.Hour)
	sub := testSubscription(t, 1, 10, 3, endDate, true)
	pkg := testPackage(t, 3, "pkg-standard", 999)

	subRepo.On("ListDueForRenewal", mock.Anything, mock.AnythingOfType("time.Time"), 24*time.Hour, 100).
		Return([]*subscription.Subscription{sub}, nil)
	pkgRepo.On("GetByID", mock.Anything, uint(3)).Return(pkg, nil)
	resolver.On("ResolveUserSID", mock.Anything, uint(10)).Return("usr-10", nil)
	payRepo.On("Create", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)
	gateway.On("Charge", mock.Anything, mock.MatchedBy(func(req payment.ChargeRequest) bool {
		return req.Amount == 999 && req.UserSID == "usr-10"
	})).Return(&payment.ChargeResult{ProviderRef: "ch_renew", Status: payment.StatusSucceeded}, nil)
	payRepo.On("Update", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)
	subRepo.On("Update", mock.Anything, sub).Return(nil)
	snapRepo.On("Upsert", mock.Anything, uint(10), mock.AnythingOfType("*subscription.Snapshot")).Return(nil)

	count, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, sub.EndDate().After(endDate))
	gateway.AssertExpectations(t)
	snapRepo.AssertExpectations(t)
}

func TestAutoRenewSubscriptionsUseCase_Execute_DeclinedChargeDisablesAutoRenew(t *testing.T) {
	subRepo, pkgRepo, payRepo, snapRepo, resolver, gateway, uc := newAutoRenewFixture(24 * time.Hour)

	endDate := time.Now().UTC().Add(12 * time.Hour)
	sub := testSubscription(t, 1, 10, 3, endDate, true)
	pkg := testPackage(t, 3, "pkg-standard", 999)
	notifier := new(mockNotifier)
	uc.SetNotifier(notifier)

	subRepo.On("ListDueForRenewal", mock.Anything, mock.AnythingOfType("time.Time"), 24*time.Hour, 100).
		Return([]*subscription.Subscription{sub}, nil)
	pkgRepo.On("GetByID", mock.Anything, uint(3)).Return(pkg, nil)
	resolver.On("ResolveUserSID", mock.Anything, uint(10)).Return("usr-10", nil)
	payRepo.On("Create", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)
	gateway.On("Charge", mock.Anything, mock.Anything).Return(&payment.ChargeResult{
		Status:  payment.StatusFailed,
		Message: "card expired",
	}, nil)
	payRepo.On("Update", mock.Anything, mock.AnythingOfType("*subscription.Payment")).Return(nil)
	subRepo.On("Update", mock.Anything, mock.MatchedBy(func(s *subscription.Subscription) bool {
		return !s.AutoRenew()
	})).Return(nil)
	notifier.On("Notify", mock.Anything, uint(10), notification.TypeRenewalReminder,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)

	count, err := uc.Execute(context.Background())

	// The failed renewal is logged and skipped, not fatal to the batch.
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.False(t, sub.AutoRenew())
	assert.Equal(t, endDate.Unix(), sub.EndDate().Unix())
	snapRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertExpectations(t)
}

func TestAutoRenewSubscriptionsUseCase_Execute_WithdrawnPackageStopsRenewal(t *testing.T) {
	subRepo, pkgRepo, payRepo, _, _, gateway, uc := newAutoRenewFixture(24 * time.Hour)

	sub := testSubscription(t, 1, 10, 3, time.Now().UTC().Add(12*time.Hour), true)

	subRepo.On("ListDueForRenewal", mock.Anything, mock.AnythingOfType("time.Time"), 24*time.Hour, 100).
		Return([]*subscription.Subscription{sub}, nil)
	pkgRepo.On("GetByID", mock.Anything, uint(3)).Return(nil, nil)
	subRepo.On("Update", mock.Anything, mock.MatchedBy(func(s *subscription.Subscription) bool {
		return !s.AutoRenew()
	})).Return(nil)

	count, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	payRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestRenewalRemindersUseCase_Execute_SkipsImminentRenewals(t *testing.T) {
	subRepo := new(mockSubscriptionRepository)
	pkgRepo := new(mockPackageRepository)
	notifier := new(mockNotifier)
	uc := NewRenewalRemindersUseCase(subRepo, pkgRepo, notifier, 72*time.Hour, newTestLogger())

	now := time.Now().UTC()
	soon := testSubscription(t, 1, 10, 3, now.Add(6*time.Hour), true)
	later := testSubscription(t, 2, 11, 3, now.Add(48*time.Hour), true)
	pkg := testPackage(t, 3, "pkg-standard", 999)

	subRepo.On("ListDueForRenewal", mock.Anything, mock.AnythingOfType("time.Time"), 72*time.Hour, 500).
		Return([]*subscription.Subscription{soon, later}, nil)
	pkgRepo.On("GetByID", mock.Anything, uint(3)).Return(pkg, nil)
	notifier.On("Notify", mock.Anything, uint(11), notification.TypeRenewalReminder,
		"Upcoming renewal", mock.Anything, mock.Anything).Return(nil)

	count, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, uint(10),
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertExpectations(t)
}

func TestAutoRenewSubscriptionsUseCase_DefaultLookahead(t *testing.T) {
	_, _, _, _, _, _, uc := newAutoRenewFixture(0)

	assert.Equal(t, 7*24*time.Hour, uc.lookahead)
}
