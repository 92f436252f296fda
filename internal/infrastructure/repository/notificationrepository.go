package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"calmora/internal/domain/notification"
	"calmora/internal/infrastructure/persistence/mappers"
	"calmora/internal/infrastructure/persistence/models"
	"calmora/internal/shared/logger"
)

type NotificationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mappers.NotificationMapper
	logger logger.Interface
}

func NewNotificationRepository(db *gorm.DB, log logger.Interface) notification.Repository {
	return &NotificationRepositoryImpl{
		db:     db,
		mapper: mappers.NewNotificationMapper(),
		logger: log,
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, entity *notification.Notification) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to convert notification to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create notification", "error", err, "user_id", entity.UserID())
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if entity.ID() == 0 && model.ID > 0 {
		if err := entity.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

// CreateBatch inserts announcement fan-outs in chunks.
func (r *NotificationRepositoryImpl) CreateBatch(ctx context.Context, entities []*notification.Notification) error {
	if len(entities) == 0 {
		return nil
	}
	ms := make([]*models.NotificationModel, 0, len(entities))
	for _, entity := range entities {
		model, err := r.mapper.ToModel(entity)
		if err != nil {
			return fmt.Errorf("failed to convert notification to model: %w", err)
		}
		ms = append(ms, model)
	}

	if err := r.db.WithContext(ctx).CreateInBatches(ms, 500).Error; err != nil {
		r.logger.Errorw("failed to create notifications batch", "error", err, "count", len(ms))
		return fmt.Errorf("failed to create notifications batch: %w", err)
	}
	return nil
}

func (r *NotificationRepositoryImpl) GetByID(ctx context.Context, id uint) (*notification.Notification, error) {
	var model models.NotificationModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *NotificationRepositoryImpl) GetBySID(ctx context.Context, sid string) (*notification.Notification, error) {
	var model models.NotificationModel
	err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification by SID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *NotificationRepositoryImpl) ListByUserID(ctx context.Context, userID uint, unreadOnly bool, offset, limit int) ([]*notification.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.NotificationModel{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("`read` = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var ms []*models.NotificationModel
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&ms).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	entities, err := r.mapper.ToEntities(ms)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *NotificationRepositoryImpl) Update(ctx context.Context, entity *notification.Notification) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to convert notification to model: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update notification", "error", result.Error, "notification_id", model.ID)
		return fmt.Errorf("failed to update notification: %w", result.Error)
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, userID uint) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Updates(map[string]interface{}{"read": true, "read_at": now}).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
