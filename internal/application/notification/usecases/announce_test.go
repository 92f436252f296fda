package usecases

import (
	"context"
	"errors"
	"testing"

	"calmora/internal/domain/notification"
	"calmora/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAnnounceUseCase_Execute_SinglePage(t *testing.T) {
	notificationRepo := new(mockNotificationRepository)
	userRepo := new(mockUserRepository)
	uc := NewAnnounceUseCase(notificationRepo, userRepo, newTestLogger())

	users := []*user.User{testUser(t, 1, true), testUser(t, 2, true), testUser(t, 3, true)}
	userRepo.On("List", mock.Anything, 0, 500).Return(users, int64(3), nil)
	notificationRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(batch []*notification.Notification) bool {
		if len(batch) != 3 {
			return false
		}
		for _, n := range batch {
			if n.Kind() != notification.TypeAnnouncement {
				return false
			}
		}
		return true
	})).Return(nil)

	count, err := uc.Execute(context.Background(), AnnounceCommand{
		Title: "New sleep stories",
		Body:  "Fresh content is live.",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	notificationRepo.AssertExpectations(t)
	userRepo.AssertNumberOfCalls(t, "List", 1)
}

func TestAnnounceUseCase_Execute_PagesThroughUsers(t *testing.T) {
	notificationRepo := new(mockNotificationRepository)
	userRepo := new(mockUserRepository)
	uc := NewAnnounceUseCase(notificationRepo, userRepo, newTestLogger())

	firstPage := make([]*user.User, 0, 500)
	for i := 1; i <= 500; i++ {
		firstPage = append(firstPage, testUser(t, uint(i), true))
	}
	secondPage := []*user.User{testUser(t, 501, true), testUser(t, 502, true)}

	userRepo.On("List", mock.Anything, 0, 500).Return(firstPage, int64(502), nil).Once()
	userRepo.On("List", mock.Anything, 500, 500).Return(secondPage, int64(502), nil).Once()
	notificationRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

	count, err := uc.Execute(context.Background(), AnnounceCommand{
		Title: "Maintenance window",
		Body:  "The app will be briefly unavailable tonight.",
	})

	require.NoError(t, err)
	assert.Equal(t, 502, count)
	userRepo.AssertExpectations(t)
	notificationRepo.AssertNumberOfCalls(t, "CreateBatch", 2)
}

func TestAnnounceUseCase_Execute_NoUsers(t *testing.T) {
	notificationRepo := new(mockNotificationRepository)
	userRepo := new(mockUserRepository)
	uc := NewAnnounceUseCase(notificationRepo, userRepo, newTestLogger())

	userRepo.On("List", mock.Anything, 0, 500).Return([]*user.User{}, int64(0), nil)

	count, err := uc.Execute(context.Background(), AnnounceCommand{
		Title: "Hello",
		Body:  "World",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	notificationRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestAnnounceUseCase_Execute_BatchFailureStops(t *testing.T) {
	notificationRepo := new(mockNotificationRepository)
	userRepo := new(mockUserRepository)
	uc := NewAnnounceUseCase(notificationRepo, userRepo, newTestLogger())

	users := []*user.User{testUser(t, 1, true)}
	userRepo.On("List", mock.Anything, 0, 500).Return(users, int64(1), nil)
	notificationRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	count, err := uc.Execute(context.Background(), AnnounceCommand{
		Title: "Hello",
		Body:  "World",
	})

	assert.Error(t, err)
	assert.Equal(t, 0, count)
}
