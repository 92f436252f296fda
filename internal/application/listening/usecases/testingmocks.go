package usecases

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"calmora/internal/domain/catalog"
	"calmora/internal/domain/listening"
	"calmora/internal/domain/notification"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Create(ctx context.Context, session *listening.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepository) Update(ctx context.Context, session *listening.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepository) GetByID(ctx context.Context, id uint) (*listening.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listening.Session), args.Error(1)
}

func (m *mockSessionRepository) GetBySID(ctx context.Context, sid string) (*listening.Session, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listening.Session), args.Error(1)
}

func (m *mockSessionRepository) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*listening.Session, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*listening.Session), args.Get(1).(int64), args.Error(2)
}

func (m *mockSessionRepository) ListAbandoned(ctx context.Context, cutoff time.Time, limit int) ([]*listening.Session, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listening.Session), args.Error(1)
}

func (m *mockSessionRepository) TotalListeningSeconds(ctx context.Context, userID uint, from, to *time.Time) (int64, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepository) StatsByPeriod(ctx context.Context, userID uint, granularity string, from, to time.Time) ([]listening.PeriodStat, error) {
	args := m.Called(ctx, userID, granularity, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listening.PeriodStat), args.Error(1)
}

func (m *mockSessionRepository) PopularTracks(ctx context.Context, from, to time.Time, limit int) ([]listening.TrackPlayCount, error) {
	args := m.Called(ctx, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listening.TrackPlayCount), args.Error(1)
}

func (m *mockSessionRepository) SessionsByHour(ctx context.Context, userID uint, from, to time.Time) ([]listening.HourBucket, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listening.HourBucket), args.Error(1)
}

func (m *mockSessionRepository) CategoryStats(ctx context.Context, userID uint, from, to time.Time) ([]listening.CategoryListenStat, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listening.CategoryListenStat), args.Error(1)
}

func (m *mockSessionRepository) Aggregate(ctx context.Context, userID uint, from, to time.Time) (listening.SessionAggregate, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(listening.SessionAggregate), args.Error(1)
}

type mockCategoryRepository struct {
	mock.Mock
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id uint) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *mockCategoryRepository) GetBySID(ctx context.Context, sid string) (*catalog.Category, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *mockCategoryRepository) ListActive(ctx context.Context) ([]*catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Category), args.Error(1)
}

type mockEnrollmentRepository struct {
	mock.Mock
}

func (m *mockEnrollmentRepository) Create(ctx context.Context, enrollment *listening.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *mockEnrollmentRepository) Update(ctx context.Context, enrollment *listening.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *mockEnrollmentRepository) GetByUserAndProgram(ctx context.Context, userID, programID uint) (*listening.Enrollment, error) {
	args := m.Called(ctx, userID, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listening.Enrollment), args.Error(1)
}

func (m *mockEnrollmentRepository) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*listening.Enrollment, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*listening.Enrollment), args.Get(1).(int64), args.Error(2)
}

type mockTrackRepository struct {
	mock.Mock
}

func (m *mockTrackRepository) Create(ctx context.Context, track *catalog.Track) error {
	args := m.Called(ctx, track)
	return args.Error(0)
}

func (m *mockTrackRepository) Update(ctx context.Context, track *catalog.Track) error {
	args := m.Called(ctx, track)
	return args.Error(0)
}

func (m *mockTrackRepository) GetByID(ctx context.Context, id uint) (*catalog.Track, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Track), args.Error(1)
}

func (m *mockTrackRepository) GetBySID(ctx context.Context, sid string) (*catalog.Track, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Track), args.Error(1)
}

func (m *mockTrackRepository) GetByIDs(ctx context.Context, ids []uint) ([]*catalog.Track, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Track), args.Error(1)
}

func (m *mockTrackRepository) ListActive(ctx context.Context, categoryID uint, offset, limit int) ([]*catalog.Track, int64, error) {
	args := m.Called(ctx, categoryID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*catalog.Track), args.Get(1).(int64), args.Error(2)
}

func (m *mockTrackRepository) Search(ctx context.Context, query string, offset, limit int) ([]*catalog.Track, int64, error) {
	args := m.Called(ctx, query, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*catalog.Track), args.Get(1).(int64), args.Error(2)
}

type mockProgramRepository struct {
	mock.Mock
}

func (m *mockProgramRepository) Create(ctx context.Context, program *catalog.Program) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *mockProgramRepository) Update(ctx context.Context, program *catalog.Program) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *mockProgramRepository) GetByID(ctx context.Context, id uint) (*catalog.Program, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Program), args.Error(1)
}

func (m *mockProgramRepository) GetBySID(ctx context.Context, sid string) (*catalog.Program, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Program), args.Error(1)
}

func (m *mockProgramRepository) ListActive(ctx context.Context, categoryID uint, offset, limit int) ([]*catalog.Program, int64, error) {
	args := m.Called(ctx, categoryID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*catalog.Program), args.Get(1).(int64), args.Error(2)
}

type mockSnapshotRepository struct {
	mock.Mock
}

func (m *mockSnapshotRepository) Upsert(ctx context.Context, userID uint, snap *subscription.Snapshot) error {
	args := m.Called(ctx, userID, snap)
	return args.Error(0)
}

func (m *mockSnapshotRepository) GetByUserID(ctx context.Context, userID uint) (*subscription.Snapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Snapshot), args.Error(1)
}

func (m *mockSnapshotRepository) Delete(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, userID uint, kind notification.Type, title, body string, data map[string]string) error {
	args := m.Called(ctx, userID, kind, title, body, data)
	return args.Error(0)
}

func testTrack(t *testing.T, id uint, sid string, tier subscription.ContentTier) *catalog.Track {
	t.Helper()
	now := time.Now().UTC()
	track, err := catalog.ReconstructTrack(catalog.TrackReconstructParams{
		ID:              id,
		SID:             sid,
		CategoryID:      1,
		Title:           "Evening Calm",
		AudioKey:        "audio/evening-calm.mp3",
		DurationSeconds: 600,
		ContentTier:     tier,
		Active:          true,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)
	return track
}

func testProgram(t *testing.T, id uint, sid string, trackIDs ...uint) *catalog.Program {
	t.Helper()
	now := time.Now().UTC()
	items := make([]catalog.ProgramItem, 0, len(trackIDs))
	for i, tid := range trackIDs {
		items = append(items, catalog.ProgramItem{TrackID: tid, Order: i + 1})
	}
	program, err := catalog.ReconstructProgram(catalog.ProgramReconstructParams{
		ID:          id,
		SID:         sid,
		CategoryID:  1,
		Title:       "7 Days of Sleep",
		ContentTier: subscription.TierFree,
		Items:       items,
		Active:      true,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	return program
}

func activeSnapshot(packageType subscription.PackageType) *subscription.Snapshot {
	now := time.Now().UTC()
	return &subscription.Snapshot{
		PackageID:   1,
		PackageType: packageType,
		Status:      subscription.StatusActive,
		StartDate:   now.AddDate(0, -1, 0),
		EndDate:     now.AddDate(0, 1, 0),
	}
}

func openSession(t *testing.T, id uint, sid string, userID uint, startedAt time.Time) *listening.Session {
	t.Helper()
	session, err := listening.ReconstructSession(listening.SessionReconstructParams{
		ID:        id,
		SID:       sid,
		UserID:    userID,
		TrackID:   1,
		StartTime: startedAt,
		Version:   1,
		CreatedAt: startedAt,
		UpdatedAt: startedAt,
	})
	require.NoError(t, err)
	return session
}

func testEnrollment(t *testing.T, id, userID, programID uint, completed ...uint) *listening.Enrollment {
	t.Helper()
	now := time.Now().UTC()
	enrollment, err := listening.ReconstructEnrollment(listening.EnrollmentReconstructParams{
		ID:                id,
		UserID:            userID,
		ProgramID:         programID,
		CompletedTrackIDs: completed,
		EnrolledAt:        now.AddDate(0, 0, -3),
		LastAccessedAt:    now,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	require.NoError(t, err)
	return enrollment
}
