package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/application/subscription/dto"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
)

type CreateCouponCommand struct {
	Code          string
	DiscountType  string
	DiscountValue uint64
	MaxUses       *int
	ValidFrom     time.Time
	ValidUntil    time.Time
	PackageSIDs   []string
}

// ManageCouponsUseCase covers the admin coupon operations.
type ManageCouponsUseCase struct {
	couponRepo  subscription.CouponRepository
	packageRepo subscription.PackageRepository
	logger      logger.Interface
}

func NewManageCouponsUseCase(
	couponRepo subscription.CouponRepository,
	packageRepo subscription.PackageRepository,
	logger logger.Interface,
) *ManageCouponsUseCase {
	return &ManageCouponsUseCase{
		couponRepo:  couponRepo,
		packageRepo: packageRepo,
		logger:      logger,
	}
}

func (uc *ManageCouponsUseCase) Create(ctx context.Context, cmd CreateCouponCommand) (*dto.CouponDTO, error) {
	code := subscription.NormalizeCouponCode(cmd.Code)
	existing, err := uc.couponRepo.GetByCode(ctx, code)
	if err != nil {
		uc.logger.Errorw("failed to check coupon code", "error", err, "code", code)
		return nil, fmt.Errorf("failed to check coupon code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("coupon code %s already exists", code)
	}

	coupon, err := subscription.NewCoupon(code, subscription.DiscountType(cmd.DiscountType),
		cmd.DiscountValue, cmd.MaxUses, cmd.ValidFrom, cmd.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("invalid coupon: %w", err)
	}

	if len(cmd.PackageSIDs) > 0 {
		packageIDs := make([]uint, 0, len(cmd.PackageSIDs))
		for _, sid := range cmd.PackageSIDs {
			pkg, err := uc.packageRepo.GetBySID(ctx, sid)
			if err != nil {
				return nil, fmt.Errorf("failed to get package %s: %w", sid, err)
			}
			if pkg == nil {
				return nil, subscription.ErrPackageNotFound
			}
			packageIDs = append(packageIDs, pkg.ID())
		}
		coupon.SetApplicablePackages(packageIDs)
	}

	if err := uc.couponRepo.Create(ctx, coupon); err != nil {
		uc.logger.Errorw("failed to create coupon", "error", err, "code", code)
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	uc.logger.Infow("coupon created", "sid", coupon.SID(), "code", coupon.Code())
	return dto.ToCouponDTO(coupon), nil
}

func (uc *ManageCouponsUseCase) List(ctx context.Context, offset, limit int) ([]*dto.CouponDTO, int64, error) {
	coupons, total, err := uc.couponRepo.List(ctx, offset, limit)
	if err != nil {
		uc.logger.Errorw("failed to list coupons", "error", err)
		return nil, 0, fmt.Errorf("failed to list coupons: %w", err)
	}
	return dto.ToCouponDTOList(coupons), total, nil
}

func (uc *ManageCouponsUseCase) Deactivate(ctx context.Context, sid string) error {
	coupon, err := uc.couponRepo.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to get coupon", "error", err, "sid", sid)
		return fmt.Errorf("failed to get coupon: %w", err)
	}
	if coupon == nil {
		return subscription.ErrCouponNotFound
	}

	coupon.Deactivate()
	if err := uc.couponRepo.Update(ctx, coupon); err != nil {
		uc.logger.Errorw("failed to update coupon", "error", err, "sid", sid)
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	uc.logger.Infow("coupon deactivated", "sid", sid)
	return nil
}
