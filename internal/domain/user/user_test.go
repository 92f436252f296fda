package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calmora/internal/shared/authorization"
)

func strPtr(s string) *string { return &s }

func newVerifiedUser(t *testing.T) *User {
	t.Helper()
	u, err := NewUser(strPtr("jane@example.com"), nil, "Jane")
	require.NoError(t, err)
	u.MarkVerified()
	return u
}

func TestNewUserRequiresIdentity(t *testing.T) {
	_, err := NewUser(nil, nil, "Jane")
	assert.Error(t, err)
}

func TestNewUserNormalizesEmail(t *testing.T) {
	u, err := NewUser(strPtr("  Jane@Example.COM "), nil, "Jane")
	require.NoError(t, err)
	require.NotNil(t, u.Email())
	assert.Equal(t, "jane@example.com", *u.Email())
}

func TestNewUserRejectsBadEmail(t *testing.T) {
	_, err := NewUser(strPtr("not-an-email"), nil, "Jane")
	assert.Error(t, err)
}

func TestNewUserAcceptsE164Phone(t *testing.T) {
	u, err := NewUser(nil, strPtr("+90 555 123-4567"), "Jane")
	require.NoError(t, err)
	require.NotNil(t, u.Phone())
	assert.Equal(t, "+905551234567", *u.Phone())
}

func TestNewUserRejectsBadPhone(t *testing.T) {
	_, err := NewUser(nil, strPtr("5551234"), "Jane")
	assert.Error(t, err)
}

func TestNewUserDefaults(t *testing.T) {
	u := newVerifiedUser(t)
	assert.Equal(t, authorization.RoleUser, u.Role())
	assert.True(t, u.NotifyPrefs().EmailEnabled)
	assert.True(t, u.NotifyPrefs().PushEnabled)
	assert.False(t, u.IsDeleted())
}

func TestBanWithExpiryLiftsAutomatically(t *testing.T) {
	u := newVerifiedUser(t)
	until := time.Now().UTC().Add(time.Hour)
	require.NoError(t, u.Ban(&until, "abuse"))

	assert.True(t, u.IsBannedAt(time.Now().UTC()))
	assert.False(t, u.IsBannedAt(until.Add(time.Minute)), "ban should lift after expiry without a write")
}

func TestPermanentBan(t *testing.T) {
	u := newVerifiedUser(t)
	require.NoError(t, u.Ban(nil, "fraud"))

	assert.True(t, u.IsBannedAt(time.Now().UTC().AddDate(50, 0, 0)))

	u.Unban()
	assert.False(t, u.IsBannedAt(time.Now().UTC()))
	assert.Nil(t, u.BanReason())
}

func TestBanRejectsPastExpiry(t *testing.T) {
	u := newVerifiedUser(t)
	past := time.Now().UTC().Add(-time.Hour)
	assert.Error(t, u.Ban(&past, "abuse"))
}

func TestCanAuthenticateAt(t *testing.T) {
	u, err := NewUser(strPtr("jane@example.com"), nil, "Jane")
	require.NoError(t, err)

	assert.ErrorIs(t, u.CanAuthenticateAt(time.Now().UTC()), ErrUserNotVerified)

	u.MarkVerified()
	assert.NoError(t, u.CanAuthenticateAt(time.Now().UTC()))

	until := time.Now().UTC().Add(time.Hour)
	require.NoError(t, u.Ban(&until, ""))
	assert.ErrorIs(t, u.CanAuthenticateAt(time.Now().UTC()), ErrUserBanned)
	assert.NoError(t, u.CanAuthenticateAt(until.Add(time.Minute)))

	u.Unban()
	require.NoError(t, u.SoftDelete())
	assert.ErrorIs(t, u.CanAuthenticateAt(time.Now().UTC()), ErrUserNotFound)
}

func TestRegisterDeviceTokenRefreshesExisting(t *testing.T) {
	u := newVerifiedUser(t)

	require.NoError(t, u.RegisterDeviceToken("tok-1", "ios"))
	require.NoError(t, u.RegisterDeviceToken("tok-2", "android"))
	require.NoError(t, u.RegisterDeviceToken("tok-1", "web"))

	require.Len(t, u.DeviceTokens(), 2)
	assert.Equal(t, "web", u.DeviceTokens()[0].Platform)
}

func TestRegisterDeviceTokenRejectsUnknownPlatform(t *testing.T) {
	u := newVerifiedUser(t)
	assert.Error(t, u.RegisterDeviceToken("tok-1", "blackberry"))
}

func TestRemoveDeviceToken(t *testing.T) {
	u := newVerifiedUser(t)
	require.NoError(t, u.RegisterDeviceToken("tok-1", "ios"))
	require.NoError(t, u.RegisterDeviceToken("tok-2", "ios"))

	u.RemoveDeviceToken("tok-1")
	require.Len(t, u.DeviceTokens(), 1)
	assert.Equal(t, "tok-2", u.DeviceTokens()[0].Token)
}

func TestSoftDeleteClearsDeviceTokens(t *testing.T) {
	u := newVerifiedUser(t)
	require.NoError(t, u.RegisterDeviceToken("tok-1", "ios"))

	require.NoError(t, u.SoftDelete())
	assert.True(t, u.IsDeleted())
	assert.Empty(t, u.DeviceTokens())
	assert.Error(t, u.SoftDelete())
}

func TestLinkGoogleAccountMarksVerified(t *testing.T) {
	u, err := NewUser(strPtr("jane@example.com"), nil, "Jane")
	require.NoError(t, err)

	require.NoError(t, u.LinkGoogleAccount("google-sub-1"))
	assert.True(t, u.IsVerified())
	require.NotNil(t, u.GoogleID())
	assert.Equal(t, "google-sub-1", *u.GoogleID())
}
