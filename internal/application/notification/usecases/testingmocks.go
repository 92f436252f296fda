package usecases

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"calmora/internal/domain/notification"
	"calmora/internal/domain/user"
	"calmora/internal/infrastructure/push"
	"calmora/internal/shared/authorization"
	"calmora/internal/shared/logger"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *mockNotificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *mockNotificationRepository) GetByID(ctx context.Context, id uint) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *mockNotificationRepository) GetBySID(ctx context.Context, sid string) (*notification.Notification, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *mockNotificationRepository) ListByUserID(ctx context.Context, userID uint, unreadOnly bool, offset, limit int) ([]*notification.Notification, int64, error) {
	args := m.Called(ctx, userID, unreadOnly, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*notification.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) GetBySID(ctx context.Context, sid string) (*user.User, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) GetByPhone(ctx context.Context, phone string) (*user.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) GetByGoogleID(ctx context.Context, googleID string) (*user.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context, offset, limit int) ([]*user.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*user.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPushSender struct {
	mock.Mock
}

func (m *mockPushSender) Send(ctx context.Context, messages []push.Message) []push.Result {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]push.Result)
}

func testNotification(t *testing.T, id, userID uint, sid string, read bool) *notification.Notification {
	t.Helper()
	now := time.Now().UTC()
	var readAt *time.Time
	if read {
		readAt = &now
	}
	n, err := notification.Reconstruct(notification.ReconstructParams{
		ID:        id,
		SID:       sid,
		UserID:    userID,
		Kind:      notification.TypeSystem,
		Title:     "Welcome",
		Body:      "Enjoy your first session.",
		Read:      read,
		ReadAt:    readAt,
		CreatedAt: now,
	})
	require.NoError(t, err)
	return n
}

func testUser(t *testing.T, id uint, pushEnabled bool, tokens ...string) *user.User {
	t.Helper()
	now := time.Now().UTC()
	email := "listener@example.com"
	deviceTokens := make([]user.DeviceToken, 0, len(tokens))
	for _, tok := range tokens {
		deviceTokens = append(deviceTokens, user.DeviceToken{Token: tok, Platform: "ios", RegisteredAt: now})
	}
	u, err := user.Reconstruct(user.ReconstructParams{
		ID:       id,
		SID:      "usr-test",
		Email:    &email,
		Name:     "Listener",
		Role:     authorization.RoleUser,
		Verified: true,
		NotifyPrefs: user.NotificationPreferences{
			EmailEnabled: true,
			PushEnabled:  pushEnabled,
			SMSEnabled:   true,
		},
		DeviceTokens: deviceTokens,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return u
}

// runInline replaces the async push launcher so assertions observe a
// completed delivery.
func runInline(_ logger.Interface, _ string, fn func()) { fn() }
