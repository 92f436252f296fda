package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/catalog/dto"
	"calmora/internal/domain/catalog"
	"calmora/internal/shared/logger"
)

type CreateCustomProgramCommand struct {
	UserID    uint
	Title     string
	TrackSIDs []string
}

type UpdateCustomProgramCommand struct {
	UserID    uint
	SID       string
	Title     *string
	TrackSIDs []string
}

// CustomProgramsUseCase maintains user-curated playlists. All reads and
// writes are owner-scoped; another user's SID behaves as not-found.
type CustomProgramsUseCase struct {
	customProgramRepo catalog.CustomProgramRepository
	trackRepo         catalog.TrackRepository
	logger            logger.Interface
}

func NewCustomProgramsUseCase(
	customProgramRepo catalog.CustomProgramRepository,
	trackRepo catalog.TrackRepository,
	logger logger.Interface,
) *CustomProgramsUseCase {
	return &CustomProgramsUseCase{
		customProgramRepo: customProgramRepo,
		trackRepo:         trackRepo,
		logger:            logger,
	}
}

func (uc *CustomProgramsUseCase) Create(ctx context.Context, cmd CreateCustomProgramCommand) (*dto.CustomProgramDTO, error) {
	trackIDs, sidByID, err := uc.resolveTracks(ctx, cmd.TrackSIDs)
	if err != nil {
		return nil, err
	}

	cp, err := catalog.NewCustomProgram(cmd.UserID, cmd.Title, trackIDs)
	if err != nil {
		return nil, fmt.Errorf("invalid custom program: %w", err)
	}
	if err := uc.customProgramRepo.Create(ctx, cp); err != nil {
		uc.logger.Errorw("failed to create custom program", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to create custom program: %w", err)
	}

	uc.logger.Infow("custom program created", "sid", cp.SID(), "user_id", cmd.UserID)
	return dto.ToCustomProgramDTO(cp, sidByID), nil
}

func (uc *CustomProgramsUseCase) Update(ctx context.Context, cmd UpdateCustomProgramCommand) (*dto.CustomProgramDTO, error) {
	cp, err := uc.customProgramRepo.GetBySIDForUser(ctx, cmd.UserID, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get custom program", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to get custom program: %w", err)
	}
	if cp == nil {
		return nil, catalog.ErrCustomProgramNotFound
	}

	if cmd.Title != nil {
		if err := cp.Rename(*cmd.Title); err != nil {
			return nil, fmt.Errorf("invalid title: %w", err)
		}
	}

	sidByID := map[uint]string{}
	if cmd.TrackSIDs != nil {
		trackIDs, resolved, err := uc.resolveTracks(ctx, cmd.TrackSIDs)
		if err != nil {
			return nil, err
		}
		sidByID = resolved
		if err := cp.ReplaceTracks(trackIDs); err != nil {
			return nil, fmt.Errorf("invalid track list: %w", err)
		}
	} else {
		_, sidByID, err = uc.lookupSIDs(ctx, cp.TrackIDs())
		if err != nil {
			return nil, err
		}
	}

	if err := uc.customProgramRepo.Update(ctx, cp); err != nil {
		uc.logger.Errorw("failed to update custom program", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to update custom program: %w", err)
	}
	return dto.ToCustomProgramDTO(cp, sidByID), nil
}

func (uc *CustomProgramsUseCase) Delete(ctx context.Context, userID uint, sid string) error {
	cp, err := uc.customProgramRepo.GetBySIDForUser(ctx, userID, sid)
	if err != nil {
		uc.logger.Errorw("failed to get custom program", "error", err, "sid", sid)
		return fmt.Errorf("failed to get custom program: %w", err)
	}
	if cp == nil {
		return catalog.ErrCustomProgramNotFound
	}
	if err := uc.customProgramRepo.Delete(ctx, userID, cp.ID()); err != nil {
		uc.logger.Errorw("failed to delete custom program", "error", err, "sid", sid)
		return fmt.Errorf("failed to delete custom program: %w", err)
	}
	return nil
}

func (uc *CustomProgramsUseCase) List(ctx context.Context, userID uint) ([]*dto.CustomProgramDTO, error) {
	cps, err := uc.customProgramRepo.ListByUserID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to list custom programs", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list custom programs: %w", err)
	}

	allIDs := make([]uint, 0)
	for _, cp := range cps {
		allIDs = append(allIDs, cp.TrackIDs()...)
	}
	_, sidByID, err := uc.lookupSIDs(ctx, allIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]*dto.CustomProgramDTO, 0, len(cps))
	for _, cp := range cps {
		dtos = append(dtos, dto.ToCustomProgramDTO(cp, sidByID))
	}
	return dtos, nil
}

// resolveTracks maps track SIDs to internal IDs, rejecting unknown or
// inactive tracks.
func (uc *CustomProgramsUseCase) resolveTracks(ctx context.Context, trackSIDs []string) ([]uint, map[uint]string, error) {
	trackIDs := make([]uint, 0, len(trackSIDs))
	sidByID := make(map[uint]string, len(trackSIDs))
	for _, sid := range trackSIDs {
		track, err := uc.trackRepo.GetBySID(ctx, sid)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get track %s: %w", sid, err)
		}
		if track == nil || !track.IsActive() {
			return nil, nil, catalog.ErrTrackNotFound
		}
		trackIDs = append(trackIDs, track.ID())
		sidByID[track.ID()] = track.SID()
	}
	return trackIDs, sidByID, nil
}

func (uc *CustomProgramsUseCase) lookupSIDs(ctx context.Context, trackIDs []uint) ([]uint, map[uint]string, error) {
	if len(trackIDs) == 0 {
		return nil, map[uint]string{}, nil
	}
	tracks, err := uc.trackRepo.GetByIDs(ctx, trackIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	sidByID := make(map[uint]string, len(tracks))
	for _, t := range tracks {
		sidByID[t.ID()] = t.SID()
	}
	return trackIDs, sidByID, nil
}
