package usecases

import (
	"context"
	"testing"
	"time"

	"calmora/internal/domain/catalog"
	"calmora/internal/domain/listening"
	"calmora/internal/domain/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateSessionUseCase_UpdatePosition(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	uc := NewUpdateSessionUseCase(sessionRepo, newTestLogger())

	session := openSession(t, 1, "ses-1", 7, time.Now().UTC().Add(-5*time.Minute))
	sessionRepo.On("GetBySID", mock.Anything, "ses-1").Return(session, nil)
	sessionRepo.On("Update", mock.Anything, session).Return(nil)

	result, err := uc.UpdatePosition(context.Background(), UpdatePositionCommand{
		UserID:          7,
		SessionSID:      "ses-1",
		PositionSeconds: 120,
	})

	require.NoError(t, err)
	assert.Equal(t, 120, result.LastPosition)
}

func TestUpdateSessionUseCase_UpdatePosition_OtherUsersSessionReadsAsNotFound(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	uc := NewUpdateSessionUseCase(sessionRepo, newTestLogger())

	session := openSession(t, 1, "ses-1", 7, time.Now().UTC())
	sessionRepo.On("GetBySID", mock.Anything, "ses-1").Return(session, nil)

	result, err := uc.UpdatePosition(context.Background(), UpdatePositionCommand{
		UserID:          999,
		SessionSID:      "ses-1",
		PositionSeconds: 60,
	})

	assert.ErrorIs(t, err, listening.ErrSessionNotFound)
	assert.Nil(t, result)
	sessionRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateSessionUseCase_End(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	uc := NewUpdateSessionUseCase(sessionRepo, newTestLogger())

	session := openSession(t, 1, "ses-1", 7, time.Now().UTC().Add(-10*time.Minute))
	sessionRepo.On("GetBySID", mock.Anything, "ses-1").Return(session, nil)
	sessionRepo.On("Update", mock.Anything, session).Return(nil)

	result, err := uc.End(context.Background(), EndSessionCommand{
		UserID:     7,
		SessionSID: "ses-1",
		Completed:  true,
	})

	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.NotNil(t, result.EndTime)
	assert.False(t, session.IsOpen())
}

func TestUpdateSessionUseCase_End_AlreadyEnded(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	uc := NewUpdateSessionUseCase(sessionRepo, newTestLogger())

	session := openSession(t, 1, "ses-1", 7, time.Now().UTC().Add(-10*time.Minute))
	require.NoError(t, session.End(false))
	sessionRepo.On("GetBySID", mock.Anything, "ses-1").Return(session, nil)

	result, err := uc.End(context.Background(), EndSessionCommand{
		UserID:     7,
		SessionSID: "ses-1",
	})

	assert.ErrorIs(t, err, listening.ErrSessionEnded)
	assert.Nil(t, result)
}

func TestEnrollUseCase_Execute(t *testing.T) {
	enrollmentRepo := new(mockEnrollmentRepository)
	programRepo := new(mockProgramRepository)
	uc := NewEnrollUseCase(enrollmentRepo, programRepo, newTestLogger())

	program := testProgram(t, 9, "prg-sleep", 4, 5, 6)
	programRepo.On("GetBySID", mock.Anything, "prg-sleep").Return(program, nil)
	enrollmentRepo.On("GetByUserAndProgram", mock.Anything, uint(7), uint(9)).Return(nil, nil)
	enrollmentRepo.On("Create", mock.Anything, mock.AnythingOfType("*listening.Enrollment")).Return(nil)

	result, err := uc.Execute(context.Background(), EnrollCommand{UserID: 7, ProgramSID: "prg-sleep"})

	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "prg-sleep", result.Enrollment.ProgramSID)
	assert.Equal(t, 0, result.Enrollment.Progress)
	assert.Equal(t, 3, result.Enrollment.TotalTracks)
}

func TestEnrollUseCase_Execute_AlreadyEnrolled(t *testing.T) {
	enrollmentRepo := new(mockEnrollmentRepository)
	programRepo := new(mockProgramRepository)
	uc := NewEnrollUseCase(enrollmentRepo, programRepo, newTestLogger())

	program := testProgram(t, 9, "prg-sleep", 4)
	existing := testEnrollment(t, 1, 7, 9)
	programRepo.On("GetBySID", mock.Anything, "prg-sleep").Return(program, nil)
	enrollmentRepo.On("GetByUserAndProgram", mock.Anything, uint(7), uint(9)).Return(existing, nil)

	result, err := uc.Execute(context.Background(), EnrollCommand{UserID: 7, ProgramSID: "prg-sleep"})

	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, "prg-sleep", result.Enrollment.ProgramSID)
	enrollmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnrollUseCase_Execute_ConcurrentDuplicateReturnsWinner(t *testing.T) {
	enrollmentRepo := new(mockEnrollmentRepository)
	programRepo := new(mockProgramRepository)
	uc := NewEnrollUseCase(enrollmentRepo, programRepo, newTestLogger())

	program := testProgram(t, 9, "prg-sleep", 4)
	winner := testEnrollment(t, 1, 7, 9)
	programRepo.On("GetBySID", mock.Anything, "prg-sleep").Return(program, nil)
	// the pre-insert check saw nothing, the unique index caught the race
	enrollmentRepo.On("GetByUserAndProgram", mock.Anything, uint(7), uint(9)).
		Return(nil, nil).Once()
	enrollmentRepo.On("Create", mock.Anything, mock.AnythingOfType("*listening.Enrollment")).
		Return(listening.ErrAlreadyEnrolled)
	enrollmentRepo.On("GetByUserAndProgram", mock.Anything, uint(7), uint(9)).
		Return(winner, nil)

	result, err := uc.Execute(context.Background(), EnrollCommand{UserID: 7, ProgramSID: "prg-sleep"})

	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, "prg-sleep", result.Enrollment.ProgramSID)
}

func TestStatsUseCase_UserStats_RejectsUnknownGranularity(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewStatsUseCase(sessionRepo, trackRepo, new(mockCategoryRepository), newTestLogger())

	now := time.Now().UTC()
	result, err := uc.UserStats(context.Background(), StatsQuery{
		UserID:      7,
		Granularity: "decade",
		From:        now.AddDate(0, 0, -30),
		To:          now,
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	sessionRepo.AssertNotCalled(t, "StatsByPeriod",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStatsUseCase_UserStats_DefaultsToDaily(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewStatsUseCase(sessionRepo, trackRepo, new(mockCategoryRepository), newTestLogger())

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -7)
	sessionRepo.On("TotalListeningSeconds", mock.Anything, uint(7), &from, &now).Return(int64(5400), nil)
	sessionRepo.On("StatsByPeriod", mock.Anything, uint(7), "day", from, now).
		Return([]listening.PeriodStat{{Period: "2026-08-30", TotalSeconds: 5400, SessionCount: 3}}, nil)
	sessionRepo.On("SessionsByHour", mock.Anything, uint(7), from, now).
		Return([]listening.HourBucket{{Hour: 22, SessionCount: 3}}, nil)

	result, err := uc.UserStats(context.Background(), StatsQuery{
		UserID: 7,
		From:   from,
		To:     now,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5400), result.TotalSeconds)
	assert.Equal(t, int64(90), result.TotalMinutes)
	require.Len(t, result.Periods, 1)
	assert.Equal(t, int64(3), result.Periods[0].SessionCount)
	require.Len(t, result.ByHour, 1)
	assert.Equal(t, 22, result.ByHour[0].Hour)
}

func TestStatsUseCase_PopularTracks_ResolvesTitles(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	trackRepo := new(mockTrackRepository)
	uc := NewStatsUseCase(sessionRepo, trackRepo, new(mockCategoryRepository), newTestLogger())

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	sessionRepo.On("PopularTracks", mock.Anything, from, now, 20).
		Return([]listening.TrackPlayCount{
			{TrackID: 4, PlayCount: 120, TotalSeconds: 48000},
			{TrackID: 99, PlayCount: 80, TotalSeconds: 16000},
		}, nil)
	// track 99 was since deleted; its row still appears but without a title
	track := testTrack(t, 4, "trk-1", subscription.TierFree)
	trackRepo.On("GetByIDs", mock.Anything, []uint{4, 99}).
		Return([]*catalog.Track{track}, nil)

	result, err := uc.PopularTracks(context.Background(), from, now, 0)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "trk-1", result[0].TrackSID)
	assert.Equal(t, int64(120), result[0].PlayCount)
}

func testCategory(t *testing.T, id uint, sid, name string) *catalog.Category {
	t.Helper()
	category, err := catalog.ReconstructCategory(catalog.CategoryReconstructParams{
		ID:        id,
		SID:       sid,
		Name:      name,
		Active:    true,
		Version:   1,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return category
}

func TestStatsUseCase_Patterns_ProfilesHabits(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	categoryRepo := new(mockCategoryRepository)
	uc := NewStatsUseCase(sessionRepo, new(mockTrackRepository), categoryRepo, newTestLogger())

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -90)
	sessionRepo.On("Aggregate", mock.Anything, uint(7), from, now).
		Return(listening.SessionAggregate{SessionCount: 10, CompletedCount: 6, TotalSeconds: 6000}, nil)
	sessionRepo.On("CategoryStats", mock.Anything, uint(7), from, now).
		Return([]listening.CategoryListenStat{
			{CategoryID: 1, TotalSeconds: 4200, SessionCount: 7},
			{CategoryID: 2, TotalSeconds: 1800, SessionCount: 3},
		}, nil)
	sessionRepo.On("SessionsByHour", mock.Anything, uint(7), from, now).
		Return([]listening.HourBucket{
			{Hour: 7, SessionCount: 2},
			{Hour: 22, SessionCount: 6},
			{Hour: 13, SessionCount: 2},
		}, nil)
	categoryRepo.On("GetByID", mock.Anything, uint(1)).
		Return(testCategory(t, 1, "cat-sleep", "Sleep"), nil)
	// category 2 was since deleted; its totals still count but carry no name
	categoryRepo.On("GetByID", mock.Anything, uint(2)).Return(nil, nil)

	result, err := uc.Patterns(context.Background(), 7, from, now)

	require.NoError(t, err)
	require.Len(t, result.TopCategories, 2)
	assert.Equal(t, "cat-sleep", result.TopCategories[0].CategorySID)
	assert.Equal(t, "Sleep", result.TopCategories[0].Name)
	assert.Equal(t, int64(4200), result.TopCategories[0].TotalSeconds)
	assert.Empty(t, result.TopCategories[1].Name)
	assert.Equal(t, int64(1800), result.TopCategories[1].TotalSeconds)
	// busiest hour first, ties broken by earlier hour
	assert.Equal(t, []int{22, 7, 13}, result.PeakHours)
	assert.InDelta(t, 10.0, result.AvgSessionMinutes, 0.001)
	// 6 of 10 sessions completed, reported as a whole percentage
	assert.InDelta(t, 60.0, result.CompletionRate, 0.001)
}

func TestStatsUseCase_Patterns_TruncatesTopLists(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	categoryRepo := new(mockCategoryRepository)
	uc := NewStatsUseCase(sessionRepo, new(mockTrackRepository), categoryRepo, newTestLogger())

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -90)
	catStats := make([]listening.CategoryListenStat, 0, 6)
	for i := uint(1); i <= 6; i++ {
		catStats = append(catStats, listening.CategoryListenStat{
			CategoryID:   i,
			TotalSeconds: int64(700 - 100*int(i)),
			SessionCount: 1,
		})
	}
	sessionRepo.On("Aggregate", mock.Anything, uint(7), from, now).
		Return(listening.SessionAggregate{SessionCount: 6, CompletedCount: 6, TotalSeconds: 2100}, nil)
	sessionRepo.On("CategoryStats", mock.Anything, uint(7), from, now).Return(catStats, nil)
	sessionRepo.On("SessionsByHour", mock.Anything, uint(7), from, now).
		Return([]listening.HourBucket{
			{Hour: 6, SessionCount: 1},
			{Hour: 12, SessionCount: 1},
			{Hour: 18, SessionCount: 1},
			{Hour: 21, SessionCount: 2},
			{Hour: 23, SessionCount: 1},
		}, nil)
	categoryRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil)

	result, err := uc.Patterns(context.Background(), 7, from, now)

	require.NoError(t, err)
	assert.Len(t, result.TopCategories, 5)
	assert.Equal(t, []int{21, 6, 12}, result.PeakHours)
	categoryRepo.AssertNumberOfCalls(t, "GetByID", 5)
}

func TestStatsUseCase_Patterns_NoSessions(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	uc := NewStatsUseCase(sessionRepo, new(mockTrackRepository), new(mockCategoryRepository), newTestLogger())

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -90)
	sessionRepo.On("Aggregate", mock.Anything, uint(7), from, now).
		Return(listening.SessionAggregate{}, nil)
	sessionRepo.On("CategoryStats", mock.Anything, uint(7), from, now).
		Return([]listening.CategoryListenStat{}, nil)
	sessionRepo.On("SessionsByHour", mock.Anything, uint(7), from, now).
		Return([]listening.HourBucket{}, nil)

	result, err := uc.Patterns(context.Background(), 7, from, now)

	require.NoError(t, err)
	assert.Empty(t, result.TopCategories)
	assert.Empty(t, result.PeakHours)
	assert.Zero(t, result.AvgSessionMinutes)
	assert.Zero(t, result.CompletionRate)
}

func TestStatsUseCase_Patterns_RejectsInvertedRange(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	uc := NewStatsUseCase(sessionRepo, new(mockTrackRepository), new(mockCategoryRepository), newTestLogger())

	now := time.Now().UTC()
	result, err := uc.Patterns(context.Background(), 7, now, now.AddDate(0, 0, -1))

	assert.Error(t, err)
	assert.Nil(t, result)
	sessionRepo.AssertNotCalled(t, "Aggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
