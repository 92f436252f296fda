package usecases

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"calmora/internal/domain/notification"
	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/payment"
	"calmora/internal/shared/logger"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type mockSubscriptionRepository struct {
	mock.Mock
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) GetActiveByUserID(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) ListByUserID(ctx context.Context, userID uint) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) ListDueForRenewal(ctx context.Context, now time.Time, lookahead time.Duration, limit int) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, now, lookahead, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

type mockPackageRepository struct {
	mock.Mock
}

func (m *mockPackageRepository) Create(ctx context.Context, pkg *subscription.Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *mockPackageRepository) Update(ctx context.Context, pkg *subscription.Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *mockPackageRepository) GetByID(ctx context.Context, id uint) (*subscription.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Package), args.Error(1)
}

func (m *mockPackageRepository) GetBySID(ctx context.Context, sid string) (*subscription.Package, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Package), args.Error(1)
}

func (m *mockPackageRepository) GetByType(ctx context.Context, packageType subscription.PackageType) (*subscription.Package, error) {
	args := m.Called(ctx, packageType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Package), args.Error(1)
}

func (m *mockPackageRepository) ListActive(ctx context.Context) ([]*subscription.Package, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Package), args.Error(1)
}

func (m *mockPackageRepository) ListAll(ctx context.Context) ([]*subscription.Package, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Package), args.Error(1)
}

type mockCouponRepository struct {
	mock.Mock
}

func (m *mockCouponRepository) Create(ctx context.Context, coupon *subscription.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *mockCouponRepository) Update(ctx context.Context, coupon *subscription.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *mockCouponRepository) GetByID(ctx context.Context, id uint) (*subscription.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Coupon), args.Error(1)
}

func (m *mockCouponRepository) GetBySID(ctx context.Context, sid string) (*subscription.Coupon, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Coupon), args.Error(1)
}

func (m *mockCouponRepository) GetByCode(ctx context.Context, code string) (*subscription.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Coupon), args.Error(1)
}

func (m *mockCouponRepository) RedeemAtomically(ctx context.Context, couponID uint, now time.Time) (bool, error) {
	args := m.Called(ctx, couponID, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockCouponRepository) List(ctx context.Context, offset, limit int) ([]*subscription.Coupon, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*subscription.Coupon), args.Get(1).(int64), args.Error(2)
}

type mockPaymentRepository struct {
	mock.Mock
}

func (m *mockPaymentRepository) Create(ctx context.Context, pay *subscription.Payment) error {
	args := m.Called(ctx, pay)
	return args.Error(0)
}

func (m *mockPaymentRepository) Update(ctx context.Context, pay *subscription.Payment) error {
	args := m.Called(ctx, pay)
	return args.Error(0)
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, id uint) (*subscription.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Payment), args.Error(1)
}

func (m *mockPaymentRepository) GetBySID(ctx context.Context, sid string) (*subscription.Payment, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Payment), args.Error(1)
}

func (m *mockPaymentRepository) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*subscription.Payment, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*subscription.Payment), args.Get(1).(int64), args.Error(2)
}

type mockSnapshotRepository struct {
	mock.Mock
}

func (m *mockSnapshotRepository) Upsert(ctx context.Context, userID uint, snap *subscription.Snapshot) error {
	args := m.Called(ctx, userID, snap)
	return args.Error(0)
}

func (m *mockSnapshotRepository) GetByUserID(ctx context.Context, userID uint) (*subscription.Snapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Snapshot), args.Error(1)
}

func (m *mockSnapshotRepository) Delete(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockPaymentGateway struct {
	mock.Mock
}

func (m *mockPaymentGateway) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.ChargeResult), args.Error(1)
}

type mockUserSIDResolver struct {
	mock.Mock
}

func (m *mockUserSIDResolver) ResolveUserSID(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, userID uint, kind notification.Type, title, body string, data map[string]string) error {
	args := m.Called(ctx, userID, kind, title, body, data)
	return args.Error(0)
}

func testPackage(t *testing.T, id uint, sid string, price uint64) *subscription.Package {
	t.Helper()
	pkg, err := subscription.ReconstructPackage(subscription.PackageReconstructParams{
		ID:           id,
		SID:          sid,
		Name:         "Premium Monthly",
		PackageType:  subscription.PackageStandard,
		Price:        price,
		Currency:     "USD",
		PeriodUnit:   subscription.PeriodMonth,
		PeriodCount:  1,
		DurationDays: 30,
		Active:       true,
		Version:      1,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return pkg
}

func testSubscription(t *testing.T, id, userID, packageID uint, endDate time.Time, autoRenew bool) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:        id,
		SID:       "sub-test",
		UserID:    userID,
		PackageID: packageID,
		Status:    subscription.StatusActive,
		StartDate: endDate.AddDate(0, -1, 0),
		EndDate:   endDate,
		AutoRenew: autoRenew,
		Version:   1,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return sub
}

func testCoupon(t *testing.T, id uint, code string, discountType subscription.DiscountType, value uint64, packageIDs []uint) *subscription.Coupon {
	t.Helper()
	now := time.Now().UTC()
	coupon, err := subscription.ReconstructCoupon(subscription.CouponReconstructParams{
		ID:                 id,
		SID:                "cpn-test",
		Code:               code,
		DiscountType:       discountType,
		DiscountValue:      value,
		ValidFrom:          now.AddDate(0, 0, -1),
		ValidUntil:         now.AddDate(0, 1, 0),
		Active:             true,
		ApplicablePackages: packageIDs,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	require.NoError(t, err)
	return coupon
}
