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

func TestCustomProgramsUseCase_Create(t *testing.T) {
	cpRepo := new(mockCustomProgramRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewCustomProgramsUseCase(cpRepo, trackRepo, newTestLogger())
	ctx := context.Background()

	trackRepo.On("GetBySID", ctx, "trk-1").Return(testTrack(t, 4, "trk-1", subscription.TierFree, true), nil)
	trackRepo.On("GetBySID", ctx, "trk-2").Return(testTrack(t, 5, "trk-2", subscription.TierPremium, true), nil)
	cpRepo.On("Create", ctx, mock.MatchedBy(func(cp *catalog.CustomProgram) bool {
		ids := cp.TrackIDs()
		return cp.UserID() == 10 && len(ids) == 2 && ids[0] == 4 && ids[1] == 5
	})).Return(nil)

	result, err := uc.Create(ctx, CreateCustomProgramCommand{
		UserID:    10,
		Title:     "Evening mix",
		TrackSIDs: []string{"trk-1", "trk-2"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"trk-1", "trk-2"}, result.TrackSIDs)
	cpRepo.AssertExpectations(t)
}

func TestCustomProgramsUseCase_Create_InactiveTrackRejected(t *testing.T) {
	cpRepo := new(mockCustomProgramRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewCustomProgramsUseCase(cpRepo, trackRepo, newTestLogger())
	ctx := context.Background()

	trackRepo.On("GetBySID", ctx, "trk-gone").Return(testTrack(t, 4, "trk-gone", subscription.TierFree, false), nil)

	result, err := uc.Create(ctx, CreateCustomProgramCommand{
		UserID:    10,
		Title:     "Evening mix",
		TrackSIDs: []string{"trk-gone"},
	})

	assert.ErrorIs(t, err, catalog.ErrTrackNotFound)
	assert.Nil(t, result)
	cpRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCustomProgramsUseCase_Update_OtherUsersProgramReadsAsNotFound(t *testing.T) {
	cpRepo := new(mockCustomProgramRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewCustomProgramsUseCase(cpRepo, trackRepo, newTestLogger())
	ctx := context.Background()

	cpRepo.On("GetBySIDForUser", ctx, uint(99), "cpr-1").Return(nil, nil)

	title := "Hijacked"
	result, err := uc.Update(ctx, UpdateCustomProgramCommand{
		UserID: 99,
		SID:    "cpr-1",
		Title:  &title,
	})

	assert.ErrorIs(t, err, catalog.ErrCustomProgramNotFound)
	assert.Nil(t, result)
	cpRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCustomProgramsUseCase_Update_RenameKeepsTracks(t *testing.T) {
	cpRepo := new(mockCustomProgramRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewCustomProgramsUseCase(cpRepo, trackRepo, newTestLogger())
	ctx := context.Background()

	cp := testCustomProgram(t, 1, 10, "cpr-1", []uint{4})
	cpRepo.On("GetBySIDForUser", ctx, uint(10), "cpr-1").Return(cp, nil)
	trackRepo.On("GetByIDs", ctx, []uint{4}).Return([]*catalog.Track{testTrack(t, 4, "trk-1", subscription.TierFree, true)}, nil)
	cpRepo.On("Update", ctx, mock.MatchedBy(func(got *catalog.CustomProgram) bool {
		return got.Title() == "Renamed mix"
	})).Return(nil)

	title := "Renamed mix"
	result, err := uc.Update(ctx, UpdateCustomProgramCommand{
		UserID: 10,
		SID:    "cpr-1",
		Title:  &title,
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed mix", result.Title)
	assert.Equal(t, []string{"trk-1"}, result.TrackSIDs)
}

func TestCustomProgramsUseCase_Update_ReplacesTrackList(t *testing.T) {
	cpRepo := new(mockCustomProgramRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewCustomProgramsUseCase(cpRepo, trackRepo, newTestLogger())
	ctx := context.Background()

	cp := testCustomProgram(t, 1, 10, "cpr-1", []uint{4})
	cpRepo.On("GetBySIDForUser", ctx, uint(10), "cpr-1").Return(cp, nil)
	trackRepo.On("GetBySID", ctx, "trk-2").Return(testTrack(t, 5, "trk-2", subscription.TierBasic, true), nil)
	cpRepo.On("Update", ctx, mock.MatchedBy(func(got *catalog.CustomProgram) bool {
		ids := got.TrackIDs()
		return len(ids) == 1 && ids[0] == 5
	})).Return(nil)

	result, err := uc.Update(ctx, UpdateCustomProgramCommand{
		UserID:    10,
		SID:       "cpr-1",
		TrackSIDs: []string{"trk-2"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"trk-2"}, result.TrackSIDs)
	cpRepo.AssertExpectations(t)
}

func TestCustomProgramsUseCase_Delete(t *testing.T) {
	cpRepo := new(mockCustomProgramRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewCustomProgramsUseCase(cpRepo, trackRepo, newTestLogger())
	ctx := context.Background()

	cp := testCustomProgram(t, 3, 10, "cpr-3", []uint{4})
	cpRepo.On("GetBySIDForUser", ctx, uint(10), "cpr-3").Return(cp, nil)
	cpRepo.On("Delete", ctx, uint(10), uint(3)).Return(nil)

	err := uc.Delete(ctx, 10, "cpr-3")

	assert.NoError(t, err)
	cpRepo.AssertExpectations(t)
}

func TestCustomProgramsUseCase_List_ResolvesTrackSIDs(t *testing.T) {
	cpRepo := new(mockCustomProgramRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewCustomProgramsUseCase(cpRepo, trackRepo, newTestLogger())
	ctx := context.Background()

	cps := []*catalog.CustomProgram{
		testCustomProgram(t, 1, 10, "cpr-1", []uint{4, 5}),
		testCustomProgram(t, 2, 10, "cpr-2", []uint{5}),
	}
	cpRepo.On("ListByUserID", ctx, uint(10)).Return(cps, nil)
	trackRepo.On("GetByIDs", ctx, []uint{4, 5, 5}).Return([]*catalog.Track{
		testTrack(t, 4, "trk-1", subscription.TierFree, true),
		testTrack(t, 5, "trk-2", subscription.TierBasic, true),
	}, nil)

	result, err := uc.List(ctx, 10)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, []string{"trk-1", "trk-2"}, result[0].TrackSIDs)
	assert.Equal(t, []string{"trk-2"}, result[1].TrackSIDs)
}
