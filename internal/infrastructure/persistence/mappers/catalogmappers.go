package mappers

import (
	"encoding/json"
	"fmt"

	"calmora/internal/domain/catalog"
	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/persistence/models"
)

type CategoryMapper struct{}

func NewCategoryMapper() *CategoryMapper { return &CategoryMapper{} }

func (m *CategoryMapper) ToEntity(model *models.CategoryModel) (*catalog.Category, error) {
	if model == nil {
		return nil, nil
	}
	return catalog.ReconstructCategory(catalog.CategoryReconstructParams{
		ID:           model.ID,
		SID:          model.SID,
		Name:         model.Name,
		Description:  model.Description,
		ImageKey:     model.ImageKey,
		DisplayOrder: model.DisplayOrder,
		Active:       model.Active,
		Version:      model.Version,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	})
}

func (m *CategoryMapper) ToModel(entity *catalog.Category) (*models.CategoryModel, error) {
	if entity == nil {
		return nil, nil
	}
	return &models.CategoryModel{
		ID:           entity.ID(),
		SID:          entity.SID(),
		Name:         entity.Name(),
		Description:  entity.Description(),
		ImageKey:     entity.ImageKey(),
		DisplayOrder: entity.DisplayOrder(),
		Active:       entity.IsActive(),
		Version:      entity.Version(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}, nil
}

func (m *CategoryMapper) ToEntities(ms []*models.CategoryModel) ([]*catalog.Category, error) {
	out := make([]*catalog.Category, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

type TrackMapper struct{}

func NewTrackMapper() *TrackMapper { return &TrackMapper{} }

func (m *TrackMapper) ToEntity(model *models.TrackModel) (*catalog.Track, error) {
	if model == nil {
		return nil, nil
	}
	return catalog.ReconstructTrack(catalog.TrackReconstructParams{
		ID:              model.ID,
		SID:             model.SID,
		CategoryID:      model.CategoryID,
		Title:           model.Title,
		Description:     model.Description,
		AudioKey:        model.AudioKey,
		ImageKey:        model.ImageKey,
		DurationSeconds: model.DurationSeconds,
		ContentTier:     subscription.ContentTier(model.ContentTier),
		Active:          model.Active,
		Version:         model.Version,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	})
}

func (m *TrackMapper) ToModel(entity *catalog.Track) (*models.TrackModel, error) {
	if entity == nil {
		return nil, nil
	}
	return &models.TrackModel{
		ID:              entity.ID(),
		SID:             entity.SID(),
		CategoryID:      entity.CategoryID(),
		Title:           entity.Title(),
		Description:     entity.Description(),
		AudioKey:        entity.AudioKey(),
		ImageKey:        entity.ImageKey(),
		DurationSeconds: entity.DurationSeconds(),
		ContentTier:     string(entity.ContentTier()),
		Active:          entity.IsActive(),
		Version:         entity.Version(),
		CreatedAt:       entity.CreatedAt(),
		UpdatedAt:       entity.UpdatedAt(),
	}, nil
}

func (m *TrackMapper) ToEntities(ms []*models.TrackModel) ([]*catalog.Track, error) {
	out := make([]*catalog.Track, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

type ProgramMapper struct{}

func NewProgramMapper() *ProgramMapper { return &ProgramMapper{} }

func (m *ProgramMapper) ToEntity(model *models.ProgramModel) (*catalog.Program, error) {
	if model == nil {
		return nil, nil
	}
	var items []catalog.ProgramItem
	if model.Items != nil {
		if err := json.Unmarshal(model.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal program items: %w", err)
		}
	}
	return catalog.ReconstructProgram(catalog.ProgramReconstructParams{
		ID:          model.ID,
		SID:         model.SID,
		CategoryID:  model.CategoryID,
		Title:       model.Title,
		Description: model.Description,
		ImageKey:    model.ImageKey,
		ContentTier: subscription.ContentTier(model.ContentTier),
		Items:       items,
		Active:      model.Active,
		Version:     model.Version,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	})
}

func (m *ProgramMapper) ToModel(entity *catalog.Program) (*models.ProgramModel, error) {
	if entity == nil {
		return nil, nil
	}
	items, err := json.Marshal(entity.Items())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal program items: %w", err)
	}
	return &models.ProgramModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		CategoryID:  entity.CategoryID(),
		Title:       entity.Title(),
		Description: entity.Description(),
		ImageKey:    entity.ImageKey(),
		ContentTier: string(entity.ContentTier()),
		Items:       items,
		Active:      entity.IsActive(),
		Version:     entity.Version(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}, nil
}

func (m *ProgramMapper) ToEntities(ms []*models.ProgramModel) ([]*catalog.Program, error) {
	out := make([]*catalog.Program, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

type CustomProgramMapper struct{}

func NewCustomProgramMapper() *CustomProgramMapper { return &CustomProgramMapper{} }

func (m *CustomProgramMapper) ToEntity(model *models.CustomProgramModel) (*catalog.CustomProgram, error) {
	if model == nil {
		return nil, nil
	}
	var trackIDs []uint
	if model.TrackIDs != nil {
		if err := json.Unmarshal(model.TrackIDs, &trackIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal track IDs: %w", err)
		}
	}
	return catalog.ReconstructCustomProgram(catalog.CustomProgramReconstructParams{
		ID:           model.ID,
		SID:          model.SID,
		UserID:       model.UserID,
		Title:        model.Title,
		TrackIDs:     trackIDs,
		ThumbnailKey: model.ThumbnailKey,
		Version:      model.Version,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	})
}

func (m *CustomProgramMapper) ToModel(entity *catalog.CustomProgram) (*models.CustomProgramModel, error) {
	if entity == nil {
		return nil, nil
	}
	trackIDs, err := json.Marshal(entity.TrackIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal track IDs: %w", err)
	}
	return &models.CustomProgramModel{
		ID:           entity.ID(),
		SID:          entity.SID(),
		UserID:       entity.UserID(),
		Title:        entity.Title(),
		TrackIDs:     trackIDs,
		ThumbnailKey: entity.ThumbnailKey(),
		Version:      entity.Version(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}, nil
}

func (m *CustomProgramMapper) ToEntities(ms []*models.CustomProgramModel) ([]*catalog.CustomProgram, error) {
	out := make([]*catalog.CustomProgram, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
