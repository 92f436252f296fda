package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/persistence/mappers"
	"calmora/internal/infrastructure/persistence/models"
	"calmora/internal/shared/logger"
)

type CouponRepositoryImpl struct {
	db     *gorm.DB
	mapper *mappers.CouponMapper
	logger logger.Interface
}

func NewCouponRepository(db *gorm.DB, log logger.Interface) subscription.CouponRepository {
	return &CouponRepositoryImpl{
		db:     db,
		mapper: mappers.NewCouponMapper(),
		logger: log,
	}
}

func (r *CouponRepositoryImpl) Create(ctx context.Context, coupon *subscription.Coupon) error {
	model, err := r.mapper.ToModel(coupon)
	if err != nil {
		return fmt.Errorf("failed to convert coupon to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create coupon", "error", err, "code", coupon.Code())
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	if coupon.ID() == 0 && model.ID > 0 {
		if err := coupon.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *CouponRepositoryImpl) Update(ctx context.Context, coupon *subscription.Coupon) error {
	model, err := r.mapper.ToModel(coupon)
	if err != nil {
		return fmt.Errorf("failed to convert coupon to model: %w", err)
	}

	// used_count is excluded: it only moves through RedeemAtomically.
	result := r.db.WithContext(ctx).Model(&models.CouponModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at", "used_count").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update coupon", "error", result.Error, "coupon_id", model.ID)
		return fmt.Errorf("failed to update coupon: %w", result.Error)
	}
	return nil
}

func (r *CouponRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Coupon, error) {
	var model models.CouponModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coupon by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *CouponRepositoryImpl) GetByCode(ctx context.Context, code string) (*subscription.Coupon, error) {
	var model models.CouponModel
	err := r.db.WithContext(ctx).
		Where("code = ?", subscription.NormalizeCouponCode(code)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coupon by code: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *CouponRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Coupon, error) {
	var model models.CouponModel
	err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coupon by SID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// RedeemAtomically increments used_count with a single conditional UPDATE so
// two concurrent redemptions of a one-use-left coupon cannot both succeed.
func (r *CouponRepositoryImpl) RedeemAtomically(ctx context.Context, couponID uint, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.CouponModel{}).
		Where("id = ? AND active = ? AND valid_from <= ? AND valid_until > ?", couponID, true, now, now).
		Where("max_uses IS NULL OR used_count < max_uses").
		Updates(map[string]interface{}{
			"used_count": gorm.Expr("used_count + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to redeem coupon", "error", result.Error, "coupon_id", couponID)
		return false, fmt.Errorf("failed to redeem coupon: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *CouponRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*subscription.Coupon, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.CouponModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count coupons: %w", err)
	}

	var ms []*models.CouponModel
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list coupons: %w", err)
	}

	entities, err := r.mapper.ToEntities(ms)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}
