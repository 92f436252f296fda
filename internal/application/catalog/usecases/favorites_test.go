package usecases

import (
	"context"
	"testing"

	"calmora/internal/domain/catalog"
	"calmora/internal/domain/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFavoritesUseCase_Add(t *testing.T) {
	favRepo := new(mockFavoriteRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewFavoritesUseCase(favRepo, trackRepo, newTestLogger())
	ctx := context.Background()

	trackRepo.On("GetBySID", ctx, "trk-1").Return(testTrack(t, 4, "trk-1", subscription.TierFree, true), nil)
	favRepo.On("Add", ctx, uint(10), uint(4)).Return(true, nil)

	created, err := uc.Add(ctx, 10, "trk-1")

	require.NoError(t, err)
	assert.True(t, created)
}

func TestFavoritesUseCase_Add_RepeatIsIdempotent(t *testing.T) {
	favRepo := new(mockFavoriteRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewFavoritesUseCase(favRepo, trackRepo, newTestLogger())
	ctx := context.Background()

	trackRepo.On("GetBySID", ctx, "trk-1").Return(testTrack(t, 4, "trk-1", subscription.TierFree, true), nil)
	favRepo.On("Add", ctx, uint(10), uint(4)).Return(false, nil)

	created, err := uc.Add(ctx, 10, "trk-1")

	require.NoError(t, err)
	assert.False(t, created)
}

func TestFavoritesUseCase_Add_InactiveTrack(t *testing.T) {
	favRepo := new(mockFavoriteRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewFavoritesUseCase(favRepo, trackRepo, newTestLogger())
	ctx := context.Background()

	trackRepo.On("GetBySID", ctx, "trk-gone").Return(testTrack(t, 4, "trk-gone", subscription.TierFree, false), nil)

	created, err := uc.Add(ctx, 10, "trk-gone")

	assert.ErrorIs(t, err, catalog.ErrTrackNotFound)
	assert.False(t, created)
	favRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestFavoritesUseCase_Remove_WorksOnDeactivatedTrack(t *testing.T) {
	favRepo := new(mockFavoriteRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewFavoritesUseCase(favRepo, trackRepo, newTestLogger())
	ctx := context.Background()

	// Removing a favorite should still work after the track is retired.
	trackRepo.On("GetBySID", ctx, "trk-old").Return(testTrack(t, 4, "trk-old", subscription.TierFree, false), nil)
	favRepo.On("Remove", ctx, uint(10), uint(4)).Return(nil)

	err := uc.Remove(ctx, 10, "trk-old")

	assert.NoError(t, err)
	favRepo.AssertExpectations(t)
}

func TestFavoritesUseCase_List_FiltersDeactivatedTracks(t *testing.T) {
	favRepo := new(mockFavoriteRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewFavoritesUseCase(favRepo, trackRepo, newTestLogger())
	ctx := context.Background()

	favRepo.On("ListTrackIDs", ctx, uint(10)).Return([]uint{4, 5}, nil)
	trackRepo.On("GetByIDs", ctx, []uint{4, 5}).Return([]*catalog.Track{
		testTrack(t, 4, "trk-1", subscription.TierFree, true),
		testTrack(t, 5, "trk-2", subscription.TierBasic, false),
	}, nil)

	result, err := uc.List(ctx, 10)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "trk-1", result[0].SID)
	assert.True(t, result[0].Favorite)
}

func TestFavoritesUseCase_List_Empty(t *testing.T) {
	favRepo := new(mockFavoriteRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewFavoritesUseCase(favRepo, trackRepo, newTestLogger())
	ctx := context.Background()

	favRepo.On("ListTrackIDs", ctx, uint(10)).Return([]uint{}, nil)

	result, err := uc.List(ctx, 10)

	require.NoError(t, err)
	assert.Empty(t, result)
	trackRepo.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}
