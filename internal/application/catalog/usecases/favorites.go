package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/catalog/dto"
	"calmora/internal/domain/catalog"
	"calmora/internal/shared/logger"
)

// FavoritesUseCase maintains a user's favorite tracks. Adding twice is an
// idempotent success; the unique (user, track) index settles races.
type FavoritesUseCase struct {
	favoriteRepo catalog.FavoriteRepository
	trackRepo    catalog.TrackRepository
	logger       logger.Interface
}

func NewFavoritesUseCase(
	favoriteRepo catalog.FavoriteRepository,
	trackRepo catalog.TrackRepository,
	logger logger.Interface,
) *FavoritesUseCase {
	return &FavoritesUseCase{
		favoriteRepo: favoriteRepo,
		trackRepo:    trackRepo,
		logger:       logger,
	}
}

// Add favorites a track. The returned flag reports whether a new favorite was
// created, for the handler's status code.
func (uc *FavoritesUseCase) Add(ctx context.Context, userID uint, trackSID string) (bool, error) {
	track, err := uc.trackRepo.GetBySID(ctx, trackSID)
	if err != nil {
		uc.logger.Errorw("failed to get track", "error", err, "track_sid", trackSID)
		return false, fmt.Errorf("failed to get track: %w", err)
	}
	if track == nil || !track.IsActive() {
		return false, catalog.ErrTrackNotFound
	}

	created, err := uc.favoriteRepo.Add(ctx, userID, track.ID())
	if err != nil {
		uc.logger.Errorw("failed to add favorite", "error", err, "user_id", userID, "track_sid", trackSID)
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	return created, nil
}

func (uc *FavoritesUseCase) Remove(ctx context.Context, userID uint, trackSID string) error {
	track, err := uc.trackRepo.GetBySID(ctx, trackSID)
	if err != nil {
		uc.logger.Errorw("failed to get track", "error", err, "track_sid", trackSID)
		return fmt.Errorf("failed to get track: %w", err)
	}
	if track == nil {
		return catalog.ErrTrackNotFound
	}

	if err := uc.favoriteRepo.Remove(ctx, userID, track.ID()); err != nil {
		uc.logger.Errorw("failed to remove favorite", "error", err, "user_id", userID, "track_sid", trackSID)
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// List returns the user's favorite tracks. Tracks deactivated since they were
// favorited are filtered out.
func (uc *FavoritesUseCase) List(ctx context.Context, userID uint) ([]*dto.TrackDTO, error) {
	trackIDs, err := uc.favoriteRepo.ListTrackIDs(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to list favorites", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	if len(trackIDs) == 0 {
		return []*dto.TrackDTO{}, nil
	}

	tracks, err := uc.trackRepo.GetByIDs(ctx, trackIDs)
	if err != nil {
		uc.logger.Errorw("failed to load favorite tracks", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to load favorite tracks: %w", err)
	}

	dtos := make([]*dto.TrackDTO, 0, len(tracks))
	for _, t := range tracks {
		if t == nil || !t.IsActive() {
			continue
		}
		d := dto.ToTrackDTO(t, false)
		d.Favorite = true
		dtos = append(dtos, d)
	}
	return dtos, nil
}
