package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/catalog/dto"
	"calmora/internal/domain/catalog"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
)

// ProgramItemInput is one track reference in an admin program payload.
type ProgramItemInput struct {
	TrackSID string
	Order    int
}

type CreateProgramCommand struct {
	CategorySID string
	Title       string
	Description string
	ImageKey    string
	ContentTier string
	Items       []ProgramItemInput
}

type UpdateProgramCommand struct {
	SID         string
	CategorySID *string
	Title       *string
	Description *string
	ImageKey    *string
	ContentTier *string
	Items       []ProgramItemInput
	Active      *bool
}

// ManageProgramsUseCase covers the admin side of curated programs.
type ManageProgramsUseCase struct {
	programRepo  catalog.ProgramRepository
	categoryRepo catalog.CategoryRepository
	trackRepo    catalog.TrackRepository
	logger       logger.Interface
}

func NewManageProgramsUseCase(
	programRepo catalog.ProgramRepository,
	categoryRepo catalog.CategoryRepository,
	trackRepo catalog.TrackRepository,
	logger logger.Interface,
) *ManageProgramsUseCase {
	return &ManageProgramsUseCase{
		programRepo:  programRepo,
		categoryRepo: categoryRepo,
		trackRepo:    trackRepo,
		logger:       logger,
	}
}

func (uc *ManageProgramsUseCase) Create(ctx context.Context, cmd CreateProgramCommand) (*dto.ProgramDTO, error) {
	category, err := uc.categoryRepo.GetBySID(ctx, cmd.CategorySID)
	if err != nil {
		uc.logger.Errorw("failed to get category", "error", err, "sid", cmd.CategorySID)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, catalog.ErrCategoryNotFound
	}

	items, err := uc.resolveItems(ctx, cmd.Items)
	if err != nil {
		return nil, err
	}

	tier := subscription.ContentTier(cmd.ContentTier)
	program, err := catalog.NewProgram(category.ID(), cmd.Title, tier, items)
	if err != nil {
		return nil, fmt.Errorf("invalid program: %w", err)
	}
	if cmd.Description != "" {
		if err := program.Update(cmd.Title, cmd.Description, category.ID()); err != nil {
			return nil, fmt.Errorf("invalid program: %w", err)
		}
	}
	if cmd.ImageKey != "" {
		program.SetImageKey(cmd.ImageKey)
	}

	if err := uc.programRepo.Create(ctx, program); err != nil {
		uc.logger.Errorw("failed to create program", "error", err, "title", cmd.Title)
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	uc.logger.Infow("program created", "sid", program.SID(), "title", program.Title())
	return uc.toDTO(ctx, program, category.SID())
}

func (uc *ManageProgramsUseCase) Update(ctx context.Context, cmd UpdateProgramCommand) (*dto.ProgramDTO, error) {
	program, err := uc.programRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get program", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	if program == nil {
		return nil, catalog.ErrProgramNotFound
	}

	categoryID := program.CategoryID()
	categorySID := ""
	if cmd.CategorySID != nil {
		category, err := uc.categoryRepo.GetBySID(ctx, *cmd.CategorySID)
		if err != nil {
			return nil, fmt.Errorf("failed to get category: %w", err)
		}
		if category == nil {
			return nil, catalog.ErrCategoryNotFound
		}
		categoryID = category.ID()
		categorySID = category.SID()
	}

	title := program.Title()
	description := program.Description()
	if cmd.Title != nil {
		title = *cmd.Title
	}
	if cmd.Description != nil {
		description = *cmd.Description
	}
	if err := program.Update(title, description, categoryID); err != nil {
		return nil, fmt.Errorf("invalid program: %w", err)
	}

	if cmd.Items != nil {
		items, err := uc.resolveItems(ctx, cmd.Items)
		if err != nil {
			return nil, err
		}
		if err := program.ReplaceItems(items); err != nil {
			return nil, fmt.Errorf("invalid track list: %w", err)
		}
	}
	if cmd.ContentTier != nil {
		if err := program.SetContentTier(subscription.ContentTier(*cmd.ContentTier)); err != nil {
			return nil, fmt.Errorf("invalid content tier: %w", err)
		}
	}
	if cmd.ImageKey != nil {
		program.SetImageKey(*cmd.ImageKey)
	}
	if cmd.Active != nil && !*cmd.Active {
		program.Deactivate()
	}

	if err := uc.programRepo.Update(ctx, program); err != nil {
		uc.logger.Errorw("failed to update program", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to update program: %w", err)
	}
	return uc.toDTO(ctx, program, categorySID)
}

// resolveItems maps item track SIDs to internal IDs. Unknown or inactive
// tracks are rejected so a program can never reference dead content.
func (uc *ManageProgramsUseCase) resolveItems(ctx context.Context, inputs []ProgramItemInput) ([]catalog.ProgramItem, error) {
	items := make([]catalog.ProgramItem, 0, len(inputs))
	for _, in := range inputs {
		track, err := uc.trackRepo.GetBySID(ctx, in.TrackSID)
		if err != nil {
			return nil, fmt.Errorf("failed to get track %s: %w", in.TrackSID, err)
		}
		if track == nil || !track.IsActive() {
			return nil, catalog.ErrTrackNotFound
		}
		items = append(items, catalog.ProgramItem{TrackID: track.ID(), Order: in.Order})
	}
	return items, nil
}

func (uc *ManageProgramsUseCase) toDTO(ctx context.Context, program *catalog.Program, categorySID string) (*dto.ProgramDTO, error) {
	out := &dto.ProgramDTO{
		SID:         program.SID(),
		CategorySID: categorySID,
		Title:       program.Title(),
		Description: program.Description(),
		ImageKey:    program.ImageKey(),
		ContentTier: string(program.ContentTier()),
		TotalTracks: program.TotalTracks(),
	}

	if program.TotalTracks() > 0 {
		tracks, err := uc.trackRepo.GetByIDs(ctx, program.TrackIDs())
		if err != nil {
			return nil, fmt.Errorf("failed to load program tracks: %w", err)
		}
		sidByID := make(map[uint]string, len(tracks))
		for _, t := range tracks {
			sidByID[t.ID()] = t.SID()
		}
		for _, item := range program.Items() {
			out.Items = append(out.Items, &dto.ProgramItemDTO{
				Position: item.Order,
				TrackSID: sidByID[item.TrackID],
			})
		}
	}
	return out, nil
}
