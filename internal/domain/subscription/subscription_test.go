package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newActiveSubscription(t *testing.T, daysLeft int) *Subscription {
	t.Helper()
	now := time.Now().UTC()
	sub, err := NewSubscription(1, 1, now.AddDate(0, 0, daysLeft-30), now.AddDate(0, 0, daysLeft), true)
	require.NoError(t, err)
	return sub
}

func reconstructWithStatus(t *testing.T, status Status, endDate time.Time) *Subscription {
	t.Helper()
	start := endDate.AddDate(0, 0, -30)
	sub, err := ReconstructSubscription(SubscriptionReconstructParams{
		ID:        1,
		SID:       "sub_test",
		UserID:    10,
		PackageID: 100,
		Status:    status,
		StartDate: start,
		EndDate:   endDate,
		AutoRenew: true,
		Version:   1,
		CreatedAt: start,
		UpdatedAt: start,
	})
	require.NoError(t, err)
	return sub
}

func TestNewSubscription_StartsActive(t *testing.T) {
	sub := newActiveSubscription(t, 30)

	assert.Equal(t, StatusActive, sub.Status())
	assert.NotEmpty(t, sub.SID())
	assert.True(t, sub.IsActive())
	assert.Nil(t, sub.CancellationDate())
}

func TestSubscription_DaysRemaining_ActiveFuture(t *testing.T) {
	now := time.Now().UTC()
	sub := reconstructWithStatus(t, StatusActive, now.AddDate(0, 0, 15))

	days := sub.DaysRemainingAt(now)
	assert.Greater(t, days, 0)
	assert.LessOrEqual(t, days, 16, "days remaining bounded by ceil(remaining/day)+1")
	assert.True(t, sub.IsActiveAt(now))
}

func TestSubscription_PastEndDate_InactiveRegardlessOfStoredStatus(t *testing.T) {
	now := time.Now().UTC()
	sub := reconstructWithStatus(t, StatusActive, now.Add(-time.Minute))

	assert.False(t, sub.IsActiveAt(now))
	assert.Equal(t, 0, sub.DaysRemainingAt(now))
	assert.Equal(t, StatusExpired, sub.EffectiveStatus(now))
}

func TestSubscription_Cancel_OnlyStopsRenewal(t *testing.T) {
	sub := newActiveSubscription(t, 30)
	endBefore := sub.EndDate()

	require.NoError(t, sub.Cancel())

	assert.Equal(t, StatusActive, sub.Status(), "cancel leaves status active")
	assert.Equal(t, endBefore, sub.EndDate(), "cancel leaves end date untouched")
	assert.False(t, sub.AutoRenew())
	assert.NotNil(t, sub.CancellationDate())
	assert.True(t, sub.IsActive(), "access continues until natural expiry")
}

func TestSubscription_Cancel_Idempotent(t *testing.T) {
	sub := newActiveSubscription(t, 30)
	require.NoError(t, sub.Cancel())
	first := *sub.CancellationDate()

	require.NoError(t, sub.Cancel())
	assert.Equal(t, first, *sub.CancellationDate())
}

func TestSubscription_Cancel_Expired(t *testing.T) {
	now := time.Now().UTC()
	sub := reconstructWithStatus(t, StatusExpired, now.Add(-time.Hour))

	assert.Error(t, sub.Cancel())
}

func TestSubscription_Renew_MovesEndDateForwardAndClearsCancellation(t *testing.T) {
	sub := newActiveSubscription(t, 10)
	require.NoError(t, sub.Cancel())
	oldEnd := sub.EndDate()

	require.NoError(t, sub.Renew(oldEnd.AddDate(0, 1, 0)))

	assert.True(t, sub.EndDate().After(oldEnd))
	assert.Nil(t, sub.CancellationDate())
	assert.Equal(t, StatusActive, sub.Status())
}

func TestSubscription_Renew_RejectsBackwardEndDate(t *testing.T) {
	sub := newActiveSubscription(t, 10)

	assert.Error(t, sub.Renew(sub.EndDate().Add(-time.Hour)))
	assert.Error(t, sub.Renew(sub.EndDate()))
}

func TestSubscription_Renew_ReactivatesExpired(t *testing.T) {
	now := time.Now().UTC()
	sub := reconstructWithStatus(t, StatusExpired, now.Add(-time.Hour))

	require.NoError(t, sub.Renew(now.AddDate(0, 1, 0)))

	assert.Equal(t, StatusActive, sub.Status())
	assert.True(t, sub.IsActiveAt(now))
}

func TestSubscription_ChangePackage(t *testing.T) {
	sub := newActiveSubscription(t, 15)
	newEnd := time.Now().UTC().AddDate(1, 0, 0)

	require.NoError(t, sub.ChangePackage(2, newEnd))

	assert.Equal(t, uint(2), sub.PackageID())
	assert.Equal(t, newEnd, sub.EndDate())
}

func TestSubscription_MarkExpired_Idempotent(t *testing.T) {
	now := time.Now().UTC()
	sub := reconstructWithStatus(t, StatusActive, now.Add(-time.Hour))

	sub.MarkExpired()
	v := sub.Version()
	sub.MarkExpired()

	assert.Equal(t, StatusExpired, sub.Status())
	assert.Equal(t, v, sub.Version())
}
