package usecases

import (
	"context"
	"errors"
	"testing"

	"calmora/internal/domain/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMarkReadUseCase_MarkOne(t *testing.T) {
	repo := new(mockNotificationRepository)
	uc := NewMarkReadUseCase(repo, newTestLogger())

	n := testNotification(t, 1, 7, "ntf-1", false)
	repo.On("GetBySID", mock.Anything, "ntf-1").Return(n, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(got *notification.Notification) bool {
		return got.IsRead()
	})).Return(nil)

	err := uc.MarkOne(context.Background(), 7, "ntf-1")

	require.NoError(t, err)
	assert.True(t, n.IsRead())
	assert.NotNil(t, n.ReadAt())
	repo.AssertExpectations(t)
}

func TestMarkReadUseCase_MarkOne_AlreadyReadIsNoop(t *testing.T) {
	repo := new(mockNotificationRepository)
	uc := NewMarkReadUseCase(repo, newTestLogger())

	n := testNotification(t, 1, 7, "ntf-1", true)
	readAt := n.ReadAt()
	repo.On("GetBySID", mock.Anything, "ntf-1").Return(n, nil)

	err := uc.MarkOne(context.Background(), 7, "ntf-1")

	require.NoError(t, err)
	assert.Equal(t, readAt, n.ReadAt())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMarkReadUseCase_MarkOne_OtherUsersNotificationReadsAsNotFound(t *testing.T) {
	repo := new(mockNotificationRepository)
	uc := NewMarkReadUseCase(repo, newTestLogger())

	n := testNotification(t, 1, 7, "ntf-1", false)
	repo.On("GetBySID", mock.Anything, "ntf-1").Return(n, nil)

	err := uc.MarkOne(context.Background(), 999, "ntf-1")

	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMarkReadUseCase_MarkOne_Missing(t *testing.T) {
	repo := new(mockNotificationRepository)
	uc := NewMarkReadUseCase(repo, newTestLogger())

	repo.On("GetBySID", mock.Anything, "ntf-gone").Return(nil, nil)

	err := uc.MarkOne(context.Background(), 7, "ntf-gone")

	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
}

func TestMarkReadUseCase_MarkAll(t *testing.T) {
	repo := new(mockNotificationRepository)
	uc := NewMarkReadUseCase(repo, newTestLogger())

	repo.On("MarkAllRead", mock.Anything, uint(7)).Return(nil)

	require.NoError(t, uc.MarkAll(context.Background(), 7))
	repo.AssertExpectations(t)
}

func TestMarkReadUseCase_MarkAll_RepoError(t *testing.T) {
	repo := new(mockNotificationRepository)
	uc := NewMarkReadUseCase(repo, newTestLogger())

	repo.On("MarkAllRead", mock.Anything, uint(7)).Return(errors.New("db down"))

	assert.Error(t, uc.MarkAll(context.Background(), 7))
}
