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

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mappers.PaymentMapper
	logger logger.Interface
}

func NewPaymentRepository(db *gorm.DB, log logger.Interface) subscription.PaymentRepository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mappers.NewPaymentMapper(),
		logger: log,
	}
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, payment *subscription.Payment) error {
	model, err := r.mapper.ToModel(payment)
	if err != nil {
		return fmt.Errorf("failed to convert payment to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create payment", "error", err, "user_id", payment.UserID())
		return fmt.Errorf("failed to create payment: %w", err)
	}

	if payment.ID() == 0 && model.ID > 0 {
		if err := payment.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *PaymentRepositoryImpl) Update(ctx context.Context, payment *subscription.Payment) error {
	model, err := r.mapper.ToModel(payment)
	if err != nil {
		return fmt.Errorf("failed to convert payment to model: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update payment", "error", result.Error, "payment_id", model.ID)
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	return nil
}

func (r *PaymentRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Payment, error) {
	var model models.PaymentModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PaymentRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Payment, error) {
	var model models.PaymentModel
	err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment by SID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PaymentRepositoryImpl) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*subscription.Payment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	var ms []*models.PaymentModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}

	entities, err := r.mapper.ToEntities(ms)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}
