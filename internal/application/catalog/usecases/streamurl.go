package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/application/catalog/dto"
	"calmora/internal/domain/catalog"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/errors"
	"calmora/internal/shared/logger"
)

// MediaSigner mints expiring signed URLs for stored media keys.
type MediaSigner interface {
	Sign(key string, now time.Time) string
	ExpiresIn() int64
}

// StreamURLUseCase gates media access. The entitlement snapshot is consulted
// on every call; a snapshot that expired since it was written simply fails
// the time check, so no sweep is needed for playback correctness.
type StreamURLUseCase struct {
	trackRepo    catalog.TrackRepository
	snapshotRepo subscription.SnapshotRepository
	signer       MediaSigner
	logger       logger.Interface
}

func NewStreamURLUseCase(
	trackRepo catalog.TrackRepository,
	snapshotRepo subscription.SnapshotRepository,
	signer MediaSigner,
	logger logger.Interface,
) *StreamURLUseCase {
	return &StreamURLUseCase{
		trackRepo:    trackRepo,
		snapshotRepo: snapshotRepo,
		signer:       signer,
		logger:       logger,
	}
}

func (uc *StreamURLUseCase) Execute(ctx context.Context, userID uint, trackSID string) (*dto.StreamURLDTO, error) {
	track, err := uc.trackRepo.GetBySID(ctx, trackSID)
	if err != nil {
		uc.logger.Errorw("failed to get track", "error", err, "track_sid", trackSID)
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	if track == nil || !track.IsActive() {
		return nil, catalog.ErrTrackNotFound
	}

	var snap *subscription.Snapshot
	if userID != 0 {
		snap, err = uc.snapshotRepo.GetByUserID(ctx, userID)
		if err != nil {
			uc.logger.Errorw("failed to get entitlement snapshot", "error", err, "user_id", userID)
			return nil, fmt.Errorf("failed to get entitlement snapshot: %w", err)
		}
	}

	now := time.Now().UTC()
	if !subscription.HasAccess(snap, track.ContentTier(), now) {
		return nil, errors.NewForbiddenError("subscription required for this track")
	}

	return &dto.StreamURLDTO{
		URL:       uc.signer.Sign(track.AudioKey(), now),
		ExpiresIn: uc.signer.ExpiresIn(),
	}, nil
}
