package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/application/catalog/dto"
	"calmora/internal/domain/catalog"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
	"calmora/internal/shared/services/markdown"
)

// BrowseCatalogUseCase serves the public catalog reads: categories, track
// listings, track detail and search. Every track carries a Locked flag
// computed against the caller's entitlement snapshot so clients can render
// paywalls without a second request.
type BrowseCatalogUseCase struct {
	categoryRepo catalog.CategoryRepository
	trackRepo    catalog.TrackRepository
	favoriteRepo catalog.FavoriteRepository
	snapshotRepo subscription.SnapshotRepository
	markdown     markdown.Service
	logger       logger.Interface
}

func NewBrowseCatalogUseCase(
	categoryRepo catalog.CategoryRepository,
	trackRepo catalog.TrackRepository,
	favoriteRepo catalog.FavoriteRepository,
	snapshotRepo subscription.SnapshotRepository,
	markdownSvc markdown.Service,
	logger logger.Interface,
) *BrowseCatalogUseCase {
	return &BrowseCatalogUseCase{
		categoryRepo: categoryRepo,
		trackRepo:    trackRepo,
		favoriteRepo: favoriteRepo,
		snapshotRepo: snapshotRepo,
		markdown:     markdownSvc,
		logger:       logger,
	}
}

func (uc *BrowseCatalogUseCase) ListCategories(ctx context.Context) ([]*dto.CategoryDTO, error) {
	categories, err := uc.categoryRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list categories", "error", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return dto.ToCategoryDTOList(categories), nil
}

// ListTracks returns active tracks, optionally filtered by category SID.
// userID 0 means anonymous (free entitlement).
func (uc *BrowseCatalogUseCase) ListTracks(ctx context.Context, userID uint, categorySID string, offset, limit int) ([]*dto.TrackDTO, int64, error) {
	var categoryID uint
	if categorySID != "" {
		category, err := uc.categoryRepo.GetBySID(ctx, categorySID)
		if err != nil {
			uc.logger.Errorw("failed to get category", "error", err, "category_sid", categorySID)
			return nil, 0, fmt.Errorf("failed to get category: %w", err)
		}
		if category == nil {
			return nil, 0, catalog.ErrCategoryNotFound
		}
		categoryID = category.ID()
	}

	tracks, total, err := uc.trackRepo.ListActive(ctx, categoryID, offset, limit)
	if err != nil {
		uc.logger.Errorw("failed to list tracks", "error", err)
		return nil, 0, fmt.Errorf("failed to list tracks: %w", err)
	}

	return uc.toTrackDTOs(ctx, userID, tracks), total, nil
}

// Search matches the query against track titles and descriptions.
func (uc *BrowseCatalogUseCase) Search(ctx context.Context, userID uint, query string, offset, limit int) ([]*dto.TrackDTO, int64, error) {
	tracks, total, err := uc.trackRepo.Search(ctx, query, offset, limit)
	if err != nil {
		uc.logger.Errorw("failed to search tracks", "error", err, "query", query)
		return nil, 0, fmt.Errorf("failed to search tracks: %w", err)
	}
	return uc.toTrackDTOs(ctx, userID, tracks), total, nil
}

// GetTrack returns the track detail with the description rendered to
// sanitized HTML and the caller's favorite state.
func (uc *BrowseCatalogUseCase) GetTrack(ctx context.Context, userID uint, trackSID string) (*dto.TrackDTO, error) {
	track, err := uc.trackRepo.GetBySID(ctx, trackSID)
	if err != nil {
		uc.logger.Errorw("failed to get track", "error", err, "track_sid", trackSID)
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	if track == nil || !track.IsActive() {
		return nil, catalog.ErrTrackNotFound
	}

	snap := uc.loadSnapshot(ctx, userID)
	d := dto.ToTrackDTO(track, !subscription.HasAccess(snap, track.ContentTier(), time.Now().UTC()))
	d.Description = track.Description()

	if track.Description() != "" {
		html, err := uc.markdown.ToHTMLSanitized(track.Description())
		if err != nil {
			uc.logger.Warnw("failed to render track description", "error", err, "track_sid", trackSID)
		} else {
			d.DescriptionHTML = html
		}
	}

	if userID != 0 {
		favorite, err := uc.favoriteRepo.Exists(ctx, userID, track.ID())
		if err != nil {
			uc.logger.Warnw("failed to check favorite", "error", err, "track_sid", trackSID)
		} else {
			d.Favorite = favorite
		}
	}
	return d, nil
}

func (uc *BrowseCatalogUseCase) toTrackDTOs(ctx context.Context, userID uint, tracks []*catalog.Track) []*dto.TrackDTO {
	snap := uc.loadSnapshot(ctx, userID)
	now := time.Now().UTC()
	dtos := make([]*dto.TrackDTO, 0, len(tracks))
	for _, t := range tracks {
		if t == nil {
			continue
		}
		dtos = append(dtos, dto.ToTrackDTO(t, !subscription.HasAccess(snap, t.ContentTier(), now)))
	}
	return dtos
}

func (uc *BrowseCatalogUseCase) loadSnapshot(ctx context.Context, userID uint) *subscription.Snapshot {
	if userID == 0 {
		return nil
	}
	snap, err := uc.snapshotRepo.GetByUserID(ctx, userID)
	if err != nil {
		uc.logger.Warnw("failed to load entitlement snapshot", "error", err, "user_id", userID)
		return nil
	}
	return snap
}
