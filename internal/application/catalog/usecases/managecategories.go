package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/catalog/dto"
	"calmora/internal/domain/catalog"
	"calmora/internal/shared/logger"
)

type CreateCategoryCommand struct {
	Name         string
	Description  string
	ImageKey     string
	DisplayOrder int
}

type UpdateCategoryCommand struct {
	SID          string
	Name         *string
	Description  *string
	ImageKey     *string
	DisplayOrder *int
	Active       *bool
}

// ManageCategoriesUseCase covers the admin side of category maintenance.
type ManageCategoriesUseCase struct {
	categoryRepo catalog.CategoryRepository
	logger       logger.Interface
}

func NewManageCategoriesUseCase(categoryRepo catalog.CategoryRepository, logger logger.Interface) *ManageCategoriesUseCase {
	return &ManageCategoriesUseCase{categoryRepo: categoryRepo, logger: logger}
}

func (uc *ManageCategoriesUseCase) Create(ctx context.Context, cmd CreateCategoryCommand) (*dto.CategoryDTO, error) {
	category, err := catalog.NewCategory(cmd.Name, cmd.Description)
	if err != nil {
		return nil, fmt.Errorf("invalid category: %w", err)
	}
	if cmd.ImageKey != "" {
		category.SetImageKey(cmd.ImageKey)
	}
	if cmd.DisplayOrder != 0 {
		category.SetDisplayOrder(cmd.DisplayOrder)
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		uc.logger.Errorw("failed to create category", "error", err, "name", cmd.Name)
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	uc.logger.Infow("category created", "sid", category.SID(), "name", category.Name())
	return dto.ToCategoryDTO(category), nil
}

func (uc *ManageCategoriesUseCase) Update(ctx context.Context, cmd UpdateCategoryCommand) (*dto.CategoryDTO, error) {
	category, err := uc.categoryRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get category", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, catalog.ErrCategoryNotFound
	}

	name := category.Name()
	description := category.Description()
	if cmd.Name != nil {
		name = *cmd.Name
	}
	if cmd.Description != nil {
		description = *cmd.Description
	}
	if err := category.Update(name, description); err != nil {
		return nil, fmt.Errorf("invalid category: %w", err)
	}
	if cmd.ImageKey != nil {
		category.SetImageKey(*cmd.ImageKey)
	}
	if cmd.DisplayOrder != nil {
		category.SetDisplayOrder(*cmd.DisplayOrder)
	}
	if cmd.Active != nil && !*cmd.Active {
		category.Deactivate()
	}

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		uc.logger.Errorw("failed to update category", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return dto.ToCategoryDTO(category), nil
}
