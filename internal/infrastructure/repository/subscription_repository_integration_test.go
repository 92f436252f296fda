package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/persistence/models"
	"calmora/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.SubscriptionModel{}, &models.CouponModel{})
	require.NoError(t, err)

	return db
}

func newTestLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func createTestSubscription(t *testing.T, userID, packageID uint, endDate time.Time, autoRenew bool) *subscription.Subscription {
	sub, err := subscription.NewSubscription(userID, packageID, endDate.AddDate(0, -1, 0), endDate, autoRenew)
	require.NoError(t, err)
	return sub
}

func createTestCoupon(t *testing.T, code string, maxUses *int, validFrom, validUntil time.Time) *subscription.Coupon {
	c, err := subscription.NewCoupon(code, subscription.DiscountPercentage, 20, maxUses, validFrom, validUntil)
	require.NoError(t, err)
	return c
}

func TestSubscriptionRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, newTestLogger())
	ctx := context.Background()

	t.Run("create assigns ID and round-trips", func(t *testing.T) {
		sub := createTestSubscription(t, 1, 2, time.Now().UTC().AddDate(0, 1, 0), true)

		err := repo.Create(ctx, sub)
		assert.NoError(t, err)
		assert.NotZero(t, sub.ID())

		found, err := repo.GetBySID(ctx, sub.SID())
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, sub.ID(), found.ID())
		assert.Equal(t, uint(1), found.UserID())
		assert.Equal(t, uint(2), found.PackageID())
		assert.Equal(t, subscription.StatusActive, found.Status())
		assert.True(t, found.AutoRenew())
	})

	t.Run("auto renew off survives the insert", func(t *testing.T) {
		sub := createTestSubscription(t, 7, 2, time.Now().UTC().AddDate(0, 1, 0), false)

		err := repo.Create(ctx, sub)
		require.NoError(t, err)

		found, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.False(t, found.AutoRenew())
	})

	t.Run("duplicate sid should fail", func(t *testing.T) {
		sub1 := createTestSubscription(t, 3, 2, time.Now().UTC().AddDate(0, 1, 0), true)
		require.NoError(t, repo.Create(ctx, sub1))

		model := &models.SubscriptionModel{
			SID:       sub1.SID(),
			UserID:    4,
			PackageID: 2,
			Status:    string(subscription.StatusActive),
			StartDate: time.Now().UTC(),
			EndDate:   time.Now().UTC().AddDate(0, 1, 0),
		}
		err := db.Create(model).Error
		assert.Error(t, err)
	})
}

func TestSubscriptionRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, newTestLogger())
	ctx := context.Background()

	t.Run("expired status persists", func(t *testing.T) {
		sub := createTestSubscription(t, 1, 2, time.Now().UTC().AddDate(0, 1, 0), true)
		require.NoError(t, repo.Create(ctx, sub))

		sub.MarkExpired()
		err := repo.Update(ctx, sub)
		assert.NoError(t, err)

		found, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusExpired, found.Status())
	})

	t.Run("cancellation keeps status and end date", func(t *testing.T) {
		endDate := time.Now().UTC().AddDate(0, 1, 0)
		sub := createTestSubscription(t, 2, 2, endDate, true)
		require.NoError(t, repo.Create(ctx, sub))

		require.NoError(t, sub.Cancel())
		require.NoError(t, repo.Update(ctx, sub))

		found, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusActive, found.Status())
		assert.False(t, found.AutoRenew())
		require.NotNil(t, found.CancellationDate())
		assert.WithinDuration(t, endDate, found.EndDate(), time.Second)
	})
}

func TestSubscriptionRepository_GetActiveByUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, newTestLogger())
	ctx := context.Background()

	expired := createTestSubscription(t, 1, 2, time.Now().UTC().AddDate(0, -2, 0), false)
	expired.MarkExpired()
	require.NoError(t, repo.Create(ctx, expired))

	active := createTestSubscription(t, 1, 3, time.Now().UTC().AddDate(0, 1, 0), true)
	require.NoError(t, repo.Create(ctx, active))

	t.Run("returns the active subscription", func(t *testing.T) {
		found, err := repo.GetActiveByUserID(ctx, 1)
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, active.ID(), found.ID())
	})

	t.Run("no subscription for unknown user", func(t *testing.T) {
		found, err := repo.GetActiveByUserID(ctx, 999)
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestSubscriptionRepository_ListExpiredActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, newTestLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	overdue1 := createTestSubscription(t, 1, 2, now.AddDate(0, 0, -3), true)
	overdue2 := createTestSubscription(t, 2, 2, now.AddDate(0, 0, -1), true)
	current := createTestSubscription(t, 3, 2, now.AddDate(0, 1, 0), true)
	require.NoError(t, repo.Create(ctx, overdue1))
	require.NoError(t, repo.Create(ctx, overdue2))
	require.NoError(t, repo.Create(ctx, current))

	t.Run("returns overdue active subscriptions oldest first", func(t *testing.T) {
		subs, err := repo.ListExpiredActive(ctx, now, 10)
		assert.NoError(t, err)
		require.Len(t, subs, 2)
		assert.Equal(t, overdue1.ID(), subs[0].ID())
		assert.Equal(t, overdue2.ID(), subs[1].ID())
	})

	t.Run("already expired rows are not returned", func(t *testing.T) {
		overdue1.MarkExpired()
		require.NoError(t, repo.Update(ctx, overdue1))

		subs, err := repo.ListExpiredActive(ctx, now, 10)
		assert.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, overdue2.ID(), subs[0].ID())
	})

	t.Run("limit caps the batch", func(t *testing.T) {
		subs, err := repo.ListExpiredActive(ctx, now, 1)
		assert.NoError(t, err)
		assert.Len(t, subs, 1)
	})
}

func TestSubscriptionRepository_ListDueForRenewal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, newTestLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	dueSoon := createTestSubscription(t, 1, 2, now.Add(12*time.Hour), true)
	dueLater := createTestSubscription(t, 2, 2, now.Add(90*time.Hour), true)
	noRenew := createTestSubscription(t, 3, 2, now.Add(6*time.Hour), false)
	overdue := createTestSubscription(t, 4, 2, now.Add(-time.Hour), true)
	require.NoError(t, repo.Create(ctx, dueSoon))
	require.NoError(t, repo.Create(ctx, dueLater))
	require.NoError(t, repo.Create(ctx, noRenew))
	require.NoError(t, repo.Create(ctx, overdue))

	subs, err := repo.ListDueForRenewal(ctx, now, 24*time.Hour, 10)
	assert.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, dueSoon.ID(), subs[0].ID())

	subs, err = repo.ListDueForRenewal(ctx, now, 96*time.Hour, 10)
	assert.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestCouponRepository_GetByCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCouponRepository(db, newTestLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	coupon := createTestCoupon(t, "WELCOME20", nil, now.AddDate(0, 0, -1), now.AddDate(0, 1, 0))
	require.NoError(t, repo.Create(ctx, coupon))
	assert.NotZero(t, coupon.ID())

	t.Run("lookup normalizes the code", func(t *testing.T) {
		found, err := repo.GetByCode(ctx, "  welcome20 ")
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "WELCOME20", found.Code())
		assert.Equal(t, subscription.DiscountPercentage, found.DiscountType())
	})

	t.Run("unknown code returns nil without error", func(t *testing.T) {
		found, err := repo.GetByCode(ctx, "NOPE")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestCouponRepository_RedeemAtomically(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCouponRepository(db, newTestLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("last use wins exactly once", func(t *testing.T) {
		maxUses := 1
		coupon := createTestCoupon(t, "ONESHOT", &maxUses, now.AddDate(0, 0, -1), now.AddDate(0, 1, 0))
		require.NoError(t, repo.Create(ctx, coupon))

		ok, err := repo.RedeemAtomically(ctx, coupon.ID(), now)
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.RedeemAtomically(ctx, coupon.ID(), now)
		assert.NoError(t, err)
		assert.False(t, ok)

		found, err := repo.GetByID(ctx, coupon.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, found.UsedCount())
	})

	t.Run("unlimited coupon keeps counting", func(t *testing.T) {
		coupon := createTestCoupon(t, "FOREVER", nil, now.AddDate(0, 0, -1), now.AddDate(0, 1, 0))
		require.NoError(t, repo.Create(ctx, coupon))

		for i := 0; i < 3; i++ {
			ok, err := repo.RedeemAtomically(ctx, coupon.ID(), now)
			require.NoError(t, err)
			assert.True(t, ok)
		}

		found, err := repo.GetByID(ctx, coupon.ID())
		require.NoError(t, err)
		assert.Equal(t, 3, found.UsedCount())
	})

	t.Run("expired window rejects redemption", func(t *testing.T) {
		coupon := createTestCoupon(t, "LASTYEAR", nil, now.AddDate(-1, 0, 0), now.AddDate(0, -6, 0))
		require.NoError(t, repo.Create(ctx, coupon))

		ok, err := repo.RedeemAtomically(ctx, coupon.ID(), now)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("deactivated coupon rejects redemption", func(t *testing.T) {
		coupon := createTestCoupon(t, "RETIRED", nil, now.AddDate(0, 0, -1), now.AddDate(0, 1, 0))
		require.NoError(t, repo.Create(ctx, coupon))

		coupon.Deactivate()
		require.NoError(t, repo.Update(ctx, coupon))

		ok, err := repo.RedeemAtomically(ctx, coupon.ID(), now)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCouponRepository_Update_PreservesUsedCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCouponRepository(db, newTestLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	coupon := createTestCoupon(t, "STALE", nil, now.AddDate(0, 0, -1), now.AddDate(0, 1, 0))
	require.NoError(t, repo.Create(ctx, coupon))

	ok, err := repo.RedeemAtomically(ctx, coupon.ID(), now)
	require.NoError(t, err)
	require.True(t, ok)

	// The in-memory aggregate still carries usedCount 0; a full-row update
	// must not clobber the concurrently incremented counter.
	coupon.SetApplicablePackages([]uint{5})
	require.NoError(t, repo.Update(ctx, coupon))

	found, err := repo.GetByID(ctx, coupon.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, found.UsedCount())
	assert.Equal(t, []uint{5}, found.ApplicablePackages())
}
