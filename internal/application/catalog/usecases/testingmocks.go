package usecases

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"calmora/internal/domain/catalog"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
)

func newTestLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
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

type mockCustomProgramRepository struct {
	mock.Mock
}

func (m *mockCustomProgramRepository) Create(ctx context.Context, cp *catalog.CustomProgram) error {
	args := m.Called(ctx, cp)
	return args.Error(0)
}

func (m *mockCustomProgramRepository) Update(ctx context.Context, cp *catalog.CustomProgram) error {
	args := m.Called(ctx, cp)
	return args.Error(0)
}

func (m *mockCustomProgramRepository) Delete(ctx context.Context, userID, id uint) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *mockCustomProgramRepository) GetBySIDForUser(ctx context.Context, userID uint, sid string) (*catalog.CustomProgram, error) {
	args := m.Called(ctx, userID, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CustomProgram), args.Error(1)
}

func (m *mockCustomProgramRepository) ListByUserID(ctx context.Context, userID uint) ([]*catalog.CustomProgram, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.CustomProgram), args.Error(1)
}

type mockFavoriteRepository struct {
	mock.Mock
}

func (m *mockFavoriteRepository) Add(ctx context.Context, userID, trackID uint) (bool, error) {
	args := m.Called(ctx, userID, trackID)
	return args.Bool(0), args.Error(1)
}

func (m *mockFavoriteRepository) Remove(ctx context.Context, userID, trackID uint) error {
	args := m.Called(ctx, userID, trackID)
	return args.Error(0)
}

func (m *mockFavoriteRepository) ListTrackIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *mockFavoriteRepository) Exists(ctx context.Context, userID, trackID uint) (bool, error) {
	args := m.Called(ctx, userID, trackID)
	return args.Bool(0), args.Error(1)
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

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, key string, contentType string, r io.Reader) error {
	args := m.Called(ctx, key, contentType, r)
	return args.Error(0)
}

func (m *mockStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type mockMediaSigner struct {
	mock.Mock
}

func (m *mockMediaSigner) Sign(key string, now time.Time) string {
	args := m.Called(key, now)
	return args.String(0)
}

func (m *mockMediaSigner) ExpiresIn() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

func testTrack(t *testing.T, id uint, sid string, tier subscription.ContentTier, active bool) *catalog.Track {
	t.Helper()
	now := time.Now().UTC()
	track, err := catalog.ReconstructTrack(catalog.TrackReconstructParams{
		ID:              id,
		SID:             sid,
		CategoryID:      1,
		Title:           "Morning Breath",
		AudioKey:        "audio/med_abc123.mp3",
		DurationSeconds: 480,
		ContentTier:     tier,
		Active:          active,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)
	return track
}

func testCustomProgram(t *testing.T, id, userID uint, sid string, trackIDs []uint) *catalog.CustomProgram {
	t.Helper()
	now := time.Now().UTC()
	cp, err := catalog.ReconstructCustomProgram(catalog.CustomProgramReconstructParams{
		ID:        id,
		SID:       sid,
		UserID:    userID,
		Title:     "My wind-down mix",
		TrackIDs:  trackIDs,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return cp
}
