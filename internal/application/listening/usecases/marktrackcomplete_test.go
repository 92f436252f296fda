package usecases

import (
	"context"
	"testing"
	"time"

	"calmora/internal/domain/listening"
	"calmora/internal/domain/notification"
	"calmora/internal/domain/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMarkCompleteFixture() (*mockEnrollmentRepository, *mockProgramRepository, *mockTrackRepository, *mockNotifier, *MarkTrackCompleteUseCase) {
	enrollmentRepo := new(mockEnrollmentRepository)
	programRepo := new(mockProgramRepository)
	trackRepo := new(mockTrackRepository)
	notifier := new(mockNotifier)
	uc := NewMarkTrackCompleteUseCase(enrollmentRepo, programRepo, trackRepo, newTestLogger())
	uc.SetNotifier(notifier)
	return enrollmentRepo, programRepo, trackRepo, notifier, uc
}

func TestMarkTrackCompleteUseCase_Execute_UpdatesProgress(t *testing.T) {
	enrollmentRepo, programRepo, trackRepo, notifier, uc := newMarkCompleteFixture()

	program := testProgram(t, 9, "prg-sleep", 4, 5, 6)
	track := testTrack(t, 4, "trk-1", subscription.TierFree)
	enrollment := testEnrollment(t, 1, 7, 9)

	programRepo.On("GetBySID", mock.Anything, "prg-sleep").Return(program, nil)
	trackRepo.On("GetBySID", mock.Anything, "trk-1").Return(track, nil)
	enrollmentRepo.On("GetByUserAndProgram", mock.Anything, uint(7), uint(9)).Return(enrollment, nil)
	enrollmentRepo.On("Update", mock.Anything, enrollment).Return(nil)

	result, err := uc.Execute(context.Background(), MarkTrackCompleteCommand{
		UserID:     7,
		ProgramSID: "prg-sleep",
		TrackSID:   "trk-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 33, result.Progress)
	assert.False(t, result.Completed)
	notifier.AssertNotCalled(t, "Notify",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkTrackCompleteUseCase_Execute_LastTrackFiresAchievement(t *testing.T) {
	enrollmentRepo, programRepo, trackRepo, notifier, uc := newMarkCompleteFixture()

	program := testProgram(t, 9, "prg-sleep", 4, 5, 6)
	track := testTrack(t, 6, "trk-3", subscription.TierFree)
	enrollment := testEnrollment(t, 1, 7, 9, 4, 5)

	programRepo.On("GetBySID", mock.Anything, "prg-sleep").Return(program, nil)
	trackRepo.On("GetBySID", mock.Anything, "trk-3").Return(track, nil)
	enrollmentRepo.On("GetByUserAndProgram", mock.Anything, uint(7), uint(9)).Return(enrollment, nil)
	enrollmentRepo.On("Update", mock.Anything, enrollment).Return(nil)
	notifier.On("Notify", mock.Anything, uint(7), notification.TypeAchievement,
		"Program completed", mock.Anything, mock.Anything).Return(nil)

	result, err := uc.Execute(context.Background(), MarkTrackCompleteCommand{
		UserID:     7,
		ProgramSID: "prg-sleep",
		TrackSID:   "trk-3",
	})

	require.NoError(t, err)
	assert.Equal(t, 100, result.Progress)
	assert.True(t, result.Completed)
	notifier.AssertExpectations(t)
}

func TestMarkTrackCompleteUseCase_Execute_RepeatCompletionDoesNotRenotify(t *testing.T) {
	enrollmentRepo, programRepo, trackRepo, notifier, uc := newMarkCompleteFixture()

	program := testProgram(t, 9, "prg-sleep", 4, 5)
	track := testTrack(t, 5, "trk-2", subscription.TierFree)
	now := time.Now().UTC()
	enrollment, err := listening.ReconstructEnrollment(listening.EnrollmentReconstructParams{
		ID:                1,
		UserID:            7,
		ProgramID:         9,
		CompletedTrackIDs: []uint{4, 5},
		Progress:          100,
		IsCompleted:       true,
		EnrolledAt:        now.AddDate(0, 0, -7),
		LastAccessedAt:    now,
		Version:           3,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	require.NoError(t, err)

	programRepo.On("GetBySID", mock.Anything, "prg-sleep").Return(program, nil)
	trackRepo.On("GetBySID", mock.Anything, "trk-2").Return(track, nil)
	enrollmentRepo.On("GetByUserAndProgram", mock.Anything, uint(7), uint(9)).Return(enrollment, nil)
	enrollmentRepo.On("Update", mock.Anything, enrollment).Return(nil)

	result, err := uc.Execute(context.Background(), MarkTrackCompleteCommand{
		UserID:     7,
		ProgramSID: "prg-sleep",
		TrackSID:   "trk-2",
	})

	require.NoError(t, err)
	assert.True(t, result.Completed)
	notifier.AssertNotCalled(t, "Notify",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkTrackCompleteUseCase_Execute_NotEnrolled(t *testing.T) {
	enrollmentRepo, programRepo, trackRepo, _, uc := newMarkCompleteFixture()

	program := testProgram(t, 9, "prg-sleep", 4)
	track := testTrack(t, 4, "trk-1", subscription.TierFree)

	programRepo.On("GetBySID", mock.Anything, "prg-sleep").Return(program, nil)
	trackRepo.On("GetBySID", mock.Anything, "trk-1").Return(track, nil)
	enrollmentRepo.On("GetByUserAndProgram", mock.Anything, uint(7), uint(9)).Return(nil, nil)

	result, err := uc.Execute(context.Background(), MarkTrackCompleteCommand{
		UserID:     7,
		ProgramSID: "prg-sleep",
		TrackSID:   "trk-1",
	})

	assert.ErrorIs(t, err, listening.ErrNotEnrolled)
	assert.Nil(t, result)
}

func TestMarkTrackCompleteUseCase_Execute_TrackNotInProgram(t *testing.T) {
	enrollmentRepo, programRepo, trackRepo, _, uc := newMarkCompleteFixture()

	program := testProgram(t, 9, "prg-sleep", 4, 5)
	track := testTrack(t, 99, "trk-other", subscription.TierFree)

	programRepo.On("GetBySID", mock.Anything, "prg-sleep").Return(program, nil)
	trackRepo.On("GetBySID", mock.Anything, "trk-other").Return(track, nil)

	result, err := uc.Execute(context.Background(), MarkTrackCompleteCommand{
		UserID:     7,
		ProgramSID: "prg-sleep",
		TrackSID:   "trk-other",
	})

	assert.ErrorIs(t, err, listening.ErrTrackNotInProgram)
	assert.Nil(t, result)
	enrollmentRepo.AssertNotCalled(t, "GetByUserAndProgram", mock.Anything, mock.Anything, mock.Anything)
}
