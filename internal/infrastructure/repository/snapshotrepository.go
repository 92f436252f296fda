package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/persistence/models"
	"calmora/internal/shared/logger"
)

type SnapshotRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSnapshotRepository(db *gorm.DB, log logger.Interface) subscription.SnapshotRepository {
	return &SnapshotRepositoryImpl{db: db, logger: log}
}

func (r *SnapshotRepositoryImpl) Upsert(ctx context.Context, userID uint, snap *subscription.Snapshot) error {
	if snap == nil {
		return r.Delete(ctx, userID)
	}

	model := &models.EntitlementSnapshotModel{
		UserID:      userID,
		PackageID:   snap.PackageID,
		PackageType: string(snap.PackageType),
		Status:      string(snap.Status),
		StartDate:   snap.StartDate,
		EndDate:     snap.EndDate,
		UpdatedAt:   time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"package_id", "package_type", "status", "start_date", "end_date", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert entitlement snapshot", "error", err, "user_id", userID)
		return fmt.Errorf("failed to upsert entitlement snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepositoryImpl) GetByUserID(ctx context.Context, userID uint) (*subscription.Snapshot, error) {
	var model models.EntitlementSnapshotModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get entitlement snapshot: %w", err)
	}
	return &subscription.Snapshot{
		PackageID:   model.PackageID,
		PackageType: subscription.PackageType(model.PackageType),
		Status:      subscription.Status(model.Status),
		StartDate:   model.StartDate,
		EndDate:     model.EndDate,
	}, nil
}

func (r *SnapshotRepositoryImpl) Delete(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.EntitlementSnapshotModel{}).Error
	if err != nil {
		r.logger.Errorw("failed to delete entitlement snapshot", "error", err, "user_id", userID)
		return fmt.Errorf("failed to delete entitlement snapshot: %w", err)
	}
	return nil
}
