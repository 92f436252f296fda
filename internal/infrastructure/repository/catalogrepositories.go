package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"calmora/internal/domain/catalog"
	"calmora/internal/infrastructure/persistence/mappers"
	"calmora/internal/infrastructure/persistence/models"
	appErrors "calmora/internal/shared/errors"
	"calmora/internal/shared/logger"
)

type CategoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mappers.CategoryMapper
	logger logger.Interface
}

func NewCategoryRepository(db *gorm.DB, log logger.Interface) catalog.CategoryRepository {
	return &CategoryRepositoryImpl{
		db:     db,
		mapper: mappers.NewCategoryMapper(),
		logger: log,
	}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *catalog.Category) error {
	model, err := r.mapper.ToModel(category)
	if err != nil {
		return fmt.Errorf("failed to convert category to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create category", "error", err, "name", category.Name())
		return fmt.Errorf("failed to create category: %w", err)
	}

	if category.ID() == 0 && model.ID > 0 {
		if err := category.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *catalog.Category) error {
	model, err := r.mapper.ToModel(category)
	if err != nil {
		return fmt.Errorf("failed to convert category to model: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update category", "error", result.Error, "category_id", model.ID)
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	return nil
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, id uint) (*catalog.Category, error) {
	var model models.CategoryModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *CategoryRepositoryImpl) GetBySID(ctx context.Context, sid string) (*catalog.Category, error) {
	var model models.CategoryModel
	err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category by SID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *CategoryRepositoryImpl) ListActive(ctx context.Context) ([]*catalog.Category, error) {
	var ms []*models.CategoryModel
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("display_order ASC, id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return r.mapper.ToEntities(ms)
}

type TrackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mappers.TrackMapper
	logger logger.Interface
}

func NewTrackRepository(db *gorm.DB, log logger.Interface) catalog.TrackRepository {
	return &TrackRepositoryImpl{
		db:     db,
		mapper: mappers.NewTrackMapper(),
		logger: log,
	}
}

func (r *TrackRepositoryImpl) Create(ctx context.Context, track *catalog.Track) error {
	model, err := r.mapper.ToModel(track)
	if err != nil {
		return fmt.Errorf("failed to convert track to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create track", "error", err, "title", track.Title())
		return fmt.Errorf("failed to create track: %w", err)
	}

	if track.ID() == 0 && model.ID > 0 {
		if err := track.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *TrackRepositoryImpl) Update(ctx context.Context, track *catalog.Track) error {
	model, err := r.mapper.ToModel(track)
	if err != nil {
		return fmt.Errorf("failed to convert track to model: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.TrackModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update track", "error", result.Error, "track_id", model.ID)
		return fmt.Errorf("failed to update track: %w", result.Error)
	}
	return nil
}

func (r *TrackRepositoryImpl) GetByID(ctx context.Context, id uint) (*catalog.Track, error) {
	var model models.TrackModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get track by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *TrackRepositoryImpl) GetBySID(ctx context.Context, sid string) (*catalog.Track, error) {
	var model models.TrackModel
	err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get track by SID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *TrackRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*catalog.Track, error) {
	if len(ids) == 0 {
		return []*catalog.Track{}, nil
	}
	var ms []*models.TrackModel
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get tracks by IDs: %w", err)
	}
	return r.mapper.ToEntities(ms)
}

func (r *TrackRepositoryImpl) ListActive(ctx context.Context, categoryID uint, offset, limit int) ([]*catalog.Track, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TrackModel{}).Where("active = ?", true)
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tracks: %w", err)
	}

	var ms []*models.TrackModel
	err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&ms).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tracks: %w", err)
	}

	entities, err := r.mapper.ToEntities(ms)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

// Search matches the query against titles and descriptions. The query is
// case-folded so lookups like "STRASSE" still match "straße" regardless of
// the database collation.
func (r *TrackRepositoryImpl) Search(ctx context.Context, query string, offset, limit int) ([]*catalog.Track, int64, error) {
	folded := cases.Fold().String(strings.TrimSpace(query))
	pattern := "%" + folded + "%"
	base := r.db.WithContext(ctx).Model(&models.TrackModel{}).
		Where("active = ?", true).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	var ms []*models.TrackModel
	err := base.Order("title ASC").Offset(offset).Limit(limit).Find(&ms).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search tracks: %w", err)
	}

	entities, err := r.mapper.ToEntities(ms)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

type ProgramRepositoryImpl struct {
	db     *gorm.DB
	mapper *mappers.ProgramMapper
	logger logger.Interface
}

func NewProgramRepository(db *gorm.DB, log logger.Interface) catalog.ProgramRepository {
	return &ProgramRepositoryImpl{
		db:     db,
		mapper: mappers.NewProgramMapper(),
		logger: log,
	}
}

func (r *ProgramRepositoryImpl) Create(ctx context.Context, program *catalog.Program) error {
	model, err := r.mapper.ToModel(program)
	if err != nil {
		return fmt.Errorf("failed to convert program to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create program", "error", err, "title", program.Title())
		return fmt.Errorf("failed to create program: %w", err)
	}

	if program.ID() == 0 && model.ID > 0 {
		if err := program.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProgramRepositoryImpl) Update(ctx context.Context, program *catalog.Program) error {
	model, err := r.mapper.ToModel(program)
	if err != nil {
		return fmt.Errorf("failed to convert program to model: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.ProgramModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update program", "error", result.Error, "program_id", model.ID)
		return fmt.Errorf("failed to update program: %w", result.Error)
	}
	return nil
}

func (r *ProgramRepositoryImpl) GetByID(ctx context.Context, id uint) (*catalog.Program, error) {
	var model models.ProgramModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get program by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ProgramRepositoryImpl) GetBySID(ctx context.Context, sid string) (*catalog.Program, error) {
	var model models.ProgramModel
	err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get program by SID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ProgramRepositoryImpl) ListActive(ctx context.Context, categoryID uint, offset, limit int) ([]*catalog.Program, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProgramModel{}).Where("active = ?", true)
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count programs: %w", err)
	}

	var ms []*models.ProgramModel
	err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&ms).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list programs: %w", err)
	}

	entities, err := r.mapper.ToEntities(ms)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

type CustomProgramRepositoryImpl struct {
	db     *gorm.DB
	mapper *mappers.CustomProgramMapper
	logger logger.Interface
}

func NewCustomProgramRepository(db *gorm.DB, log logger.Interface) catalog.CustomProgramRepository {
	return &CustomProgramRepositoryImpl{
		db:     db,
		mapper: mappers.NewCustomProgramMapper(),
		logger: log,
	}
}

func (r *CustomProgramRepositoryImpl) Create(ctx context.Context, cp *catalog.CustomProgram) error {
	model, err := r.mapper.ToModel(cp)
	if err != nil {
		return fmt.Errorf("failed to convert custom program to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create custom program", "error", err, "user_id", cp.UserID())
		return fmt.Errorf("failed to create custom program: %w", err)
	}

	if cp.ID() == 0 && model.ID > 0 {
		if err := cp.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *CustomProgramRepositoryImpl) Update(ctx context.Context, cp *catalog.CustomProgram) error {
	model, err := r.mapper.ToModel(cp)
	if err != nil {
		return fmt.Errorf("failed to convert custom program to model: %w", err)
	}

	// user_id in the WHERE keeps the write owner-scoped.
	result := r.db.WithContext(ctx).Model(&models.CustomProgramModel{}).
		Where("id = ? AND user_id = ?", model.ID, model.UserID).
		Select("*").Omit("id", "user_id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update custom program", "error", result.Error, "custom_program_id", model.ID)
		return fmt.Errorf("failed to update custom program: %w", result.Error)
	}
	return nil
}

func (r *CustomProgramRepositoryImpl) Delete(ctx context.Context, userID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CustomProgramModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete custom program: %w", result.Error)
	}
	return nil
}

func (r *CustomProgramRepositoryImpl) GetBySIDForUser(ctx context.Context, userID uint, sid string) (*catalog.CustomProgram, error) {
	var model models.CustomProgramModel
	err := r.db.WithContext(ctx).
		Where("sid = ? AND user_id = ?", sid, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get custom program: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *CustomProgramRepositoryImpl) ListByUserID(ctx context.Context, userID uint) ([]*catalog.CustomProgram, error) {
	var ms []*models.CustomProgramModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list custom programs: %w", err)
	}
	return r.mapper.ToEntities(ms)
}

type FavoriteRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewFavoriteRepository(db *gorm.DB, log logger.Interface) catalog.FavoriteRepository {
	return &FavoriteRepositoryImpl{db: db, logger: log}
}

// Add inserts the favorite row. A duplicate-key violation from the
// (user_id, track_id) unique index means the favorite already exists; that is
// reported as created=false so callers treat it as idempotent success.
func (r *FavoriteRepositoryImpl) Add(ctx context.Context, userID, trackID uint) (bool, error) {
	model := &models.FavoriteModel{UserID: userID, TrackID: trackID}
	err := r.db.WithContext(ctx).Create(model).Error
	if err != nil {
		if appErrors.IsDuplicateError(err) {
			return false, nil
		}
		r.logger.Errorw("failed to add favorite", "error", err, "user_id", userID, "track_id", trackID)
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	return true, nil
}

func (r *FavoriteRepositoryImpl) Remove(ctx context.Context, userID, trackID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Delete(&models.FavoriteModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepositoryImpl) ListTrackIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.FavoriteModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("track_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return ids, nil
}

func (r *FavoriteRepositoryImpl) Exists(ctx context.Context, userID, trackID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FavoriteModel{}).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}
