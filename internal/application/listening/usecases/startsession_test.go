package usecases

import (
	"context"
	"testing"

	"calmora/internal/domain/catalog"
	"calmora/internal/domain/listening"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStartSessionFixture() (*mockSessionRepository, *mockTrackRepository, *mockProgramRepository, *mockSnapshotRepository, *StartSessionUseCase) {
	sessionRepo := new(mockSessionRepository)
	trackRepo := new(mockTrackRepository)
	programRepo := new(mockProgramRepository)
	snapRepo := new(mockSnapshotRepository)
	uc := NewStartSessionUseCase(sessionRepo, trackRepo, programRepo, snapRepo, newTestLogger())
	return sessionRepo, trackRepo, programRepo, snapRepo, uc
}

func TestStartSessionUseCase_Execute_FreeTrackWithoutSubscription(t *testing.T) {
	sessionRepo, trackRepo, _, snapRepo, uc := newStartSessionFixture()

	track := testTrack(t, 1, "trk-free", subscription.TierFree)
	trackRepo.On("GetBySID", mock.Anything, "trk-free").Return(track, nil)
	snapRepo.On("GetByUserID", mock.Anything, uint(7)).Return(nil, nil)
	sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*listening.Session")).Return(nil)

	result, err := uc.Execute(context.Background(), StartSessionCommand{
		UserID:     7,
		TrackSID:   "trk-free",
		DeviceInfo: map[string]string{"platform": "ios"},
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "trk-free", result.TrackSID)
	sessionRepo.AssertExpectations(t)
}

func TestStartSessionUseCase_Execute_PremiumTrackRequiresSubscription(t *testing.T) {
	sessionRepo, trackRepo, _, snapRepo, uc := newStartSessionFixture()

	track := testTrack(t, 1, "trk-premium", subscription.TierPremium)
	trackRepo.On("GetBySID", mock.Anything, "trk-premium").Return(track, nil)
	snapRepo.On("GetByUserID", mock.Anything, uint(7)).Return(nil, nil)

	result, err := uc.Execute(context.Background(), StartSessionCommand{
		UserID:   7,
		TrackSID: "trk-premium",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
	sessionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStartSessionUseCase_Execute_BasicPackageCannotPlayPremium(t *testing.T) {
	_, trackRepo, _, snapRepo, uc := newStartSessionFixture()

	track := testTrack(t, 1, "trk-premium", subscription.TierPremium)
	trackRepo.On("GetBySID", mock.Anything, "trk-premium").Return(track, nil)
	snapRepo.On("GetByUserID", mock.Anything, uint(7)).Return(activeSnapshot(subscription.PackageBasic), nil)

	result, err := uc.Execute(context.Background(), StartSessionCommand{
		UserID:   7,
		TrackSID: "trk-premium",
	})

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestStartSessionUseCase_Execute_PremiumPackagePlaysPremium(t *testing.T) {
	sessionRepo, trackRepo, _, snapRepo, uc := newStartSessionFixture()

	track := testTrack(t, 1, "trk-premium", subscription.TierPremium)
	trackRepo.On("GetBySID", mock.Anything, "trk-premium").Return(track, nil)
	snapRepo.On("GetByUserID", mock.Anything, uint(7)).Return(activeSnapshot(subscription.PackagePremium), nil)
	sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*listening.Session")).Return(nil)

	result, err := uc.Execute(context.Background(), StartSessionCommand{
		UserID:   7,
		TrackSID: "trk-premium",
	})

	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestStartSessionUseCase_Execute_WithinProgram(t *testing.T) {
	sessionRepo, trackRepo, programRepo, snapRepo, uc := newStartSessionFixture()

	track := testTrack(t, 4, "trk-free", subscription.TierFree)
	program := testProgram(t, 9, "prg-sleep", 4, 5, 6)
	trackRepo.On("GetBySID", mock.Anything, "trk-free").Return(track, nil)
	snapRepo.On("GetByUserID", mock.Anything, uint(7)).Return(nil, nil)
	programRepo.On("GetBySID", mock.Anything, "prg-sleep").Return(program, nil)
	sessionRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *listening.Session) bool {
		return s.ProgramID() != nil && *s.ProgramID() == 9
	})).Return(nil)

	result, err := uc.Execute(context.Background(), StartSessionCommand{
		UserID:     7,
		TrackSID:   "trk-free",
		ProgramSID: "prg-sleep",
	})

	require.NoError(t, err)
	assert.Equal(t, "prg-sleep", result.ProgramSID)
	sessionRepo.AssertExpectations(t)
}

func TestStartSessionUseCase_Execute_TrackOutsideProgramRejected(t *testing.T) {
	sessionRepo, trackRepo, programRepo, snapRepo, uc := newStartSessionFixture()

	track := testTrack(t, 4, "trk-free", subscription.TierFree)
	program := testProgram(t, 9, "prg-sleep", 5, 6)
	trackRepo.On("GetBySID", mock.Anything, "trk-free").Return(track, nil)
	snapRepo.On("GetByUserID", mock.Anything, uint(7)).Return(nil, nil)
	programRepo.On("GetBySID", mock.Anything, "prg-sleep").Return(program, nil)

	result, err := uc.Execute(context.Background(), StartSessionCommand{
		UserID:     7,
		TrackSID:   "trk-free",
		ProgramSID: "prg-sleep",
	})

	assert.ErrorIs(t, err, listening.ErrTrackNotInProgram)
	assert.Nil(t, result)
	sessionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStartSessionUseCase_Execute_InactiveTrack(t *testing.T) {
	_, trackRepo, _, _, uc := newStartSessionFixture()

	trackRepo.On("GetBySID", mock.Anything, "trk-gone").Return(nil, nil)

	result, err := uc.Execute(context.Background(), StartSessionCommand{
		UserID:   7,
		TrackSID: "trk-gone",
	})

	assert.ErrorIs(t, err, catalog.ErrTrackNotFound)
	assert.Nil(t, result)
}
