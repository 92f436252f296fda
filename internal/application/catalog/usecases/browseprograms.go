package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/application/catalog/dto"
	"calmora/internal/domain/catalog"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
)

// BrowseProgramsUseCase serves the public curated-program reads.
type BrowseProgramsUseCase struct {
	programRepo  catalog.ProgramRepository
	trackRepo    catalog.TrackRepository
	categoryRepo catalog.CategoryRepository
	snapshotRepo subscription.SnapshotRepository
	logger       logger.Interface
}

func NewBrowseProgramsUseCase(
	programRepo catalog.ProgramRepository,
	trackRepo catalog.TrackRepository,
	categoryRepo catalog.CategoryRepository,
	snapshotRepo subscription.SnapshotRepository,
	logger logger.Interface,
) *BrowseProgramsUseCase {
	return &BrowseProgramsUseCase{
		programRepo:  programRepo,
		trackRepo:    trackRepo,
		categoryRepo: categoryRepo,
		snapshotRepo: snapshotRepo,
		logger:       logger,
	}
}

func (uc *BrowseProgramsUseCase) List(ctx context.Context, userID uint, categorySID string, offset, limit int) ([]*dto.ProgramDTO, int64, error) {
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

	programs, total, err := uc.programRepo.ListActive(ctx, categoryID, offset, limit)
	if err != nil {
		uc.logger.Errorw("failed to list programs", "error", err)
		return nil, 0, fmt.Errorf("failed to list programs: %w", err)
	}

	snap := uc.loadSnapshot(ctx, userID)
	now := time.Now().UTC()
	dtos := make([]*dto.ProgramDTO, 0, len(programs))
	for _, p := range programs {
		if p == nil {
			continue
		}
		dtos = append(dtos, uc.toProgramDTO(p, snap, now, false, nil))
	}
	return dtos, total, nil
}

// Get returns the program detail with its ordered track list.
func (uc *BrowseProgramsUseCase) Get(ctx context.Context, userID uint, programSID string) (*dto.ProgramDTO, error) {
	program, err := uc.programRepo.GetBySID(ctx, programSID)
	if err != nil {
		uc.logger.Errorw("failed to get program", "error", err, "program_sid", programSID)
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	if program == nil || !program.IsActive() {
		return nil, catalog.ErrProgramNotFound
	}

	tracks, err := uc.trackRepo.GetByIDs(ctx, program.TrackIDs())
	if err != nil {
		uc.logger.Errorw("failed to load program tracks", "error", err, "program_sid", programSID)
		return nil, fmt.Errorf("failed to load program tracks: %w", err)
	}
	trackByID := make(map[uint]*catalog.Track, len(tracks))
	for _, t := range tracks {
		trackByID[t.ID()] = t
	}

	snap := uc.loadSnapshot(ctx, userID)
	return uc.toProgramDTO(program, snap, time.Now().UTC(), true, trackByID), nil
}

func (uc *BrowseProgramsUseCase) toProgramDTO(
	p *catalog.Program,
	snap *subscription.Snapshot,
	now time.Time,
	withItems bool,
	trackByID map[uint]*catalog.Track,
) *dto.ProgramDTO {
	d := &dto.ProgramDTO{
		SID:         p.SID(),
		Title:       p.Title(),
		Description: p.Description(),
		ImageKey:    p.ImageKey(),
		ContentTier: string(p.ContentTier()),
		Locked:      !subscription.HasAccess(snap, p.ContentTier(), now),
		TotalTracks: p.TotalTracks(),
	}
	if !withItems {
		return d
	}
	d.Items = make([]*dto.ProgramItemDTO, 0, len(p.Items()))
	for _, item := range p.Items() {
		itemDTO := &dto.ProgramItemDTO{Position: item.Order}
		if t, ok := trackByID[item.TrackID]; ok {
			itemDTO.Track = dto.ToTrackDTO(t, !subscription.HasAccess(snap, t.ContentTier(), now))
			itemDTO.TrackSID = t.SID()
		}
		d.Items = append(d.Items, itemDTO)
	}
	return d
}

func (uc *BrowseProgramsUseCase) loadSnapshot(ctx context.Context, userID uint) *subscription.Snapshot {
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
