package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/catalog/dto"
	"calmora/internal/domain/catalog"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
)

type CreateTrackCommand struct {
	CategorySID     string
	Title           string
	Description     string
	AudioKey        string
	ImageKey        string
	DurationSeconds int
	ContentTier     string
}

type UpdateTrackCommand struct {
	SID             string
	CategorySID     *string
	Title           *string
	Description     *string
	AudioKey        *string
	ImageKey        *string
	DurationSeconds *int
	ContentTier     *string
	Active          *bool
}

// ManageTracksUseCase covers the admin side of track maintenance. Deactivated
// tracks disappear from browsing but keep their listening history intact.
type ManageTracksUseCase struct {
	trackRepo    catalog.TrackRepository
	categoryRepo catalog.CategoryRepository
	logger       logger.Interface
}

func NewManageTracksUseCase(
	trackRepo catalog.TrackRepository,
	categoryRepo catalog.CategoryRepository,
	logger logger.Interface,
) *ManageTracksUseCase {
	return &ManageTracksUseCase{
		trackRepo:    trackRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

func (uc *ManageTracksUseCase) Create(ctx context.Context, cmd CreateTrackCommand) (*dto.TrackDTO, error) {
	category, err := uc.resolveCategory(ctx, cmd.CategorySID)
	if err != nil {
		return nil, err
	}

	tier := subscription.ContentTier(cmd.ContentTier)
	track, err := catalog.NewTrack(category.ID(), cmd.Title, cmd.AudioKey, cmd.DurationSeconds, tier)
	if err != nil {
		return nil, fmt.Errorf("invalid track: %w", err)
	}
	if cmd.Description != "" || cmd.ImageKey != "" {
		if err := track.Update(cmd.Title, cmd.Description, category.ID()); err != nil {
			return nil, fmt.Errorf("invalid track: %w", err)
		}
		if cmd.ImageKey != "" {
			if err := track.SetMedia(cmd.AudioKey, cmd.ImageKey, cmd.DurationSeconds); err != nil {
				return nil, fmt.Errorf("invalid media: %w", err)
			}
		}
	}

	if err := uc.trackRepo.Create(ctx, track); err != nil {
		uc.logger.Errorw("failed to create track", "error", err, "title", cmd.Title)
		return nil, fmt.Errorf("failed to create track: %w", err)
	}

	uc.logger.Infow("track created", "sid", track.SID(), "title", track.Title())
	out := dto.ToTrackDTO(track, false)
	out.CategorySID = category.SID()
	out.Description = track.Description()
	return out, nil
}

func (uc *ManageTracksUseCase) Update(ctx context.Context, cmd UpdateTrackCommand) (*dto.TrackDTO, error) {
	track, err := uc.trackRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get track", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	if track == nil {
		return nil, catalog.ErrTrackNotFound
	}

	categoryID := track.CategoryID()
	if cmd.CategorySID != nil {
		category, err := uc.resolveCategory(ctx, *cmd.CategorySID)
		if err != nil {
			return nil, err
		}
		categoryID = category.ID()
	}

	title := track.Title()
	description := track.Description()
	if cmd.Title != nil {
		title = *cmd.Title
	}
	if cmd.Description != nil {
		description = *cmd.Description
	}
	if err := track.Update(title, description, categoryID); err != nil {
		return nil, fmt.Errorf("invalid track: %w", err)
	}

	if cmd.AudioKey != nil || cmd.ImageKey != nil || cmd.DurationSeconds != nil {
		audioKey := track.AudioKey()
		imageKey := track.ImageKey()
		duration := track.DurationSeconds()
		if cmd.AudioKey != nil {
			audioKey = *cmd.AudioKey
		}
		if cmd.ImageKey != nil {
			imageKey = *cmd.ImageKey
		}
		if cmd.DurationSeconds != nil {
			duration = *cmd.DurationSeconds
		}
		if err := track.SetMedia(audioKey, imageKey, duration); err != nil {
			return nil, fmt.Errorf("invalid media: %w", err)
		}
	}
	if cmd.ContentTier != nil {
		if err := track.SetContentTier(subscription.ContentTier(*cmd.ContentTier)); err != nil {
			return nil, fmt.Errorf("invalid content tier: %w", err)
		}
	}
	if cmd.Active != nil && !*cmd.Active {
		track.Deactivate()
	}

	if err := uc.trackRepo.Update(ctx, track); err != nil {
		uc.logger.Errorw("failed to update track", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to update track: %w", err)
	}

	out := dto.ToTrackDTO(track, false)
	out.Description = track.Description()
	return out, nil
}

func (uc *ManageTracksUseCase) resolveCategory(ctx context.Context, sid string) (*catalog.Category, error) {
	category, err := uc.categoryRepo.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to get category", "error", err, "sid", sid)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, catalog.ErrCategoryNotFound
	}
	return category, nil
}
