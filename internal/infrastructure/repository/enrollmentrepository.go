package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"calmora/internal/domain/listening"
	"calmora/internal/infrastructure/persistence/mappers"
	"calmora/internal/infrastructure/persistence/models"
	appErrors "calmora/internal/shared/errors"
	"calmora/internal/shared/logger"
)

type EnrollmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mappers.EnrollmentMapper
	logger logger.Interface
}

func NewEnrollmentRepository(db *gorm.DB, log logger.Interface) listening.EnrollmentRepository {
	return &EnrollmentRepositoryImpl{
		db:     db,
		mapper: mappers.NewEnrollmentMapper(),
		logger: log,
	}
}

// Create relies on the (user_id, program_id) unique index: a concurrent
// duplicate enroll surfaces as ErrAlreadyEnrolled.
func (r *EnrollmentRepositoryImpl) Create(ctx context.Context, enrollment *listening.Enrollment) error {
	model, err := r.mapper.ToModel(enrollment)
	if err != nil {
		return fmt.Errorf("failed to convert enrollment to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if appErrors.IsDuplicateError(err) {
			return listening.ErrAlreadyEnrolled
		}
		r.logger.Errorw("failed to create enrollment", "error", err,
			"user_id", enrollment.UserID(), "program_id", enrollment.ProgramID())
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	if enrollment.ID() == 0 && model.ID > 0 {
		if err := enrollment.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *EnrollmentRepositoryImpl) Update(ctx context.Context, enrollment *listening.Enrollment) error {
	model, err := r.mapper.ToModel(enrollment)
	if err != nil {
		return fmt.Errorf("failed to convert enrollment to model: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.EnrollmentModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update enrollment", "error", result.Error, "enrollment_id", model.ID)
		return fmt.Errorf("failed to update enrollment: %w", result.Error)
	}
	return nil
}

func (r *EnrollmentRepositoryImpl) GetByUserAndProgram(ctx context.Context, userID, programID uint) (*listening.Enrollment, error) {
	var model models.EnrollmentModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND program_id = ?", userID, programID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *EnrollmentRepositoryImpl) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*listening.Enrollment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.EnrollmentModel{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	var ms []*models.EnrollmentModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_accessed_at DESC").
		Offset(offset).Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}

	entities, err := r.mapper.ToEntities(ms)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}
