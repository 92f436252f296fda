package usecases

import (
	"context"
	"strings"
	"testing"
	"time"

	"calmora/internal/domain/catalog"
	"calmora/internal/domain/subscription"
	apperrors "calmora/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploadMediaUseCase_Execute(t *testing.T) {
	store := new(mockStore)
	signer := new(mockMediaSigner)
	uc := NewUploadMediaUseCase(store, signer, newTestLogger())
	ctx := context.Background()

	body := strings.NewReader("mp3 bytes")
	store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "audio/med_") && strings.HasSuffix(key, ".mp3")
	}), "audio/mpeg", body).Return(nil)
	signer.On("Sign", mock.Anything, mock.Anything).
		Return("http://localhost:8080/media/signed")

	result, err := uc.Execute(ctx, UploadMediaCommand{
		Kind:        "Audio",
		ContentType: "audio/mpeg",
		Body:        body,
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Key, "audio/"))
	assert.Equal(t, "http://localhost:8080/media/signed", result.URL)
	store.AssertExpectations(t)
}

func TestUploadMediaUseCase_Execute_UnsupportedContentType(t *testing.T) {
	store := new(mockStore)
	uc := NewUploadMediaUseCase(store, new(mockMediaSigner), newTestLogger())

	result, err := uc.Execute(context.Background(), UploadMediaCommand{
		Kind:        "audio",
		ContentType: "video/mp4",
		Body:        strings.NewReader("nope"),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadMediaUseCase_Execute_UnknownKind(t *testing.T) {
	store := new(mockStore)
	uc := NewUploadMediaUseCase(store, new(mockMediaSigner), newTestLogger())

	result, err := uc.Execute(context.Background(), UploadMediaCommand{
		Kind:        "video",
		ContentType: "video/mp4",
		Body:        strings.NewReader("nope"),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestUploadMediaUseCase_Delete_MissingKeyIsNoop(t *testing.T) {
	store := new(mockStore)
	uc := NewUploadMediaUseCase(store, new(mockMediaSigner), newTestLogger())
	ctx := context.Background()

	store.On("Exists", ctx, "audio/med_gone.mp3").Return(false, nil)

	err := uc.Delete(ctx, "audio/med_gone.mp3")

	assert.NoError(t, err)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUploadMediaUseCase_Delete(t *testing.T) {
	store := new(mockStore)
	uc := NewUploadMediaUseCase(store, new(mockMediaSigner), newTestLogger())
	ctx := context.Background()

	store.On("Exists", ctx, "image/med_x.png").Return(true, nil)
	store.On("Delete", ctx, "image/med_x.png").Return(nil)

	err := uc.Delete(ctx, "image/med_x.png")

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestStreamURLUseCase_Execute_FreeTrackWithoutLogin(t *testing.T) {
	trackRepo := new(mockTrackRepository)
	snapRepo := new(mockSnapshotRepository)
	signer := new(mockMediaSigner)
	uc := NewStreamURLUseCase(trackRepo, snapRepo, signer, newTestLogger())
	ctx := context.Background()

	trackRepo.On("GetBySID", ctx, "trk-1").Return(testTrack(t, 4, "trk-1", subscription.TierFree, true), nil)
	signer.On("Sign", "audio/med_abc123.mp3", mock.AnythingOfType("time.Time")).Return("https://media.example.com/audio/med_abc123.mp3?sig=x")
	signer.On("ExpiresIn").Return(int64(900))

	result, err := uc.Execute(ctx, 0, "trk-1")

	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/audio/med_abc123.mp3?sig=x", result.URL)
	assert.Equal(t, int64(900), result.ExpiresIn)
	snapRepo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}

func TestStreamURLUseCase_Execute_PremiumTrackNeedsEntitlement(t *testing.T) {
	trackRepo := new(mockTrackRepository)
	snapRepo := new(mockSnapshotRepository)
	signer := new(mockMediaSigner)
	uc := NewStreamURLUseCase(trackRepo, snapRepo, signer, newTestLogger())
	ctx := context.Background()

	trackRepo.On("GetBySID", ctx, "trk-2").Return(testTrack(t, 5, "trk-2", subscription.TierPremium, true), nil)
	snapRepo.On("GetByUserID", ctx, uint(10)).Return(nil, nil)

	result, err := uc.Execute(ctx, 10, "trk-2")

	require.Error(t, err)
	assert.Nil(t, result)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeForbidden, appErr.Type)
	signer.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything)
}

func TestStreamURLUseCase_Execute_LapsedSnapshotDeniesAccess(t *testing.T) {
	trackRepo := new(mockTrackRepository)
	snapRepo := new(mockSnapshotRepository)
	signer := new(mockMediaSigner)
	uc := NewStreamURLUseCase(trackRepo, snapRepo, signer, newTestLogger())
	ctx := context.Background()

	trackRepo.On("GetBySID", ctx, "trk-2").Return(testTrack(t, 5, "trk-2", subscription.TierPremium, true), nil)
	snapRepo.On("GetByUserID", ctx, uint(10)).Return(&subscription.Snapshot{
		PackageID:   2,
		PackageType: subscription.PackagePremium,
		Status:      subscription.StatusActive,
		StartDate:   time.Now().UTC().AddDate(0, -2, 0),
		EndDate:     time.Now().UTC().AddDate(0, -1, 0),
	}, nil)

	result, err := uc.Execute(ctx, 10, "trk-2")

	require.Error(t, err)
	assert.Nil(t, result)
	signer.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything)
}

func TestStreamURLUseCase_Execute_InactiveTrack(t *testing.T) {
	trackRepo := new(mockTrackRepository)
	snapRepo := new(mockSnapshotRepository)
	signer := new(mockMediaSigner)
	uc := NewStreamURLUseCase(trackRepo, snapRepo, signer, newTestLogger())
	ctx := context.Background()

	trackRepo.On("GetBySID", ctx, "trk-9").Return(testTrack(t, 9, "trk-9", subscription.TierFree, false), nil)

	result, err := uc.Execute(ctx, 10, "trk-9")

	assert.ErrorIs(t, err, catalog.ErrTrackNotFound)
	assert.Nil(t, result)
}
