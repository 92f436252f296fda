package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/persistence/mappers"
	"calmora/internal/infrastructure/persistence/models"
	"calmora/internal/shared/logger"
)

type PackageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mappers.PackageMapper
	logger logger.Interface
}

func NewPackageRepository(db *gorm.DB, log logger.Interface) subscription.PackageRepository {
	return &PackageRepositoryImpl{
		db:     db,
		mapper: mappers.NewPackageMapper(),
		logger: log,
	}
}

func (r *PackageRepositoryImpl) Create(ctx context.Context, pkg *subscription.Package) error {
	model, err := r.mapper.ToModel(pkg)
	if err != nil {
		return fmt.Errorf("failed to convert package to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create package", "error", err, "package_type", pkg.Type())
		return fmt.Errorf("failed to create package: %w", err)
	}

	if pkg.ID() == 0 && model.ID > 0 {
		if err := pkg.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *PackageRepositoryImpl) Update(ctx context.Context, pkg *subscription.Package) error {
	model, err := r.mapper.ToModel(pkg)
	if err != nil {
		return fmt.Errorf("failed to convert package to model: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.PackageModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update package", "error", result.Error, "package_id", model.ID)
		return fmt.Errorf("failed to update package: %w", result.Error)
	}
	return nil
}

func (r *PackageRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Package, error) {
	var model models.PackageModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get package by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PackageRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Package, error) {
	var model models.PackageModel
	err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get package by SID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PackageRepositoryImpl) GetByType(ctx context.Context, packageType subscription.PackageType) (*subscription.Package, error) {
	var model models.PackageModel
	err := r.db.WithContext(ctx).Where("package_type = ?", string(packageType)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get package by type: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PackageRepositoryImpl) ListActive(ctx context.Context) ([]*subscription.Package, error) {
	var ms []*models.PackageModel
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("display_order ASC, price ASC").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active packages: %w", err)
	}
	return r.mapper.ToEntities(ms)
}

func (r *PackageRepositoryImpl) ListAll(ctx context.Context) ([]*subscription.Package, error) {
	var ms []*models.PackageModel
	err := r.db.WithContext(ctx).
		Order("display_order ASC, price ASC").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return r.mapper.ToEntities(ms)
}
