package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/application/subscription/dto"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
)

type ValidateCouponCommand struct {
	Code       string
	PackageSID string
}

// ValidateCouponUseCase quotes a coupon against a package without consuming a
// use. The quote is advisory: the authoritative check happens atomically at
// redemption time.
type ValidateCouponUseCase struct {
	couponRepo  subscription.CouponRepository
	packageRepo subscription.PackageRepository
	logger      logger.Interface
}

func NewValidateCouponUseCase(
	couponRepo subscription.CouponRepository,
	packageRepo subscription.PackageRepository,
	logger logger.Interface,
) *ValidateCouponUseCase {
	return &ValidateCouponUseCase{
		couponRepo:  couponRepo,
		packageRepo: packageRepo,
		logger:      logger,
	}
}

func (uc *ValidateCouponUseCase) Execute(ctx context.Context, cmd ValidateCouponCommand) (*dto.CouponQuoteDTO, error) {
	pkg, err := uc.packageRepo.GetBySID(ctx, cmd.PackageSID)
	if err != nil {
		uc.logger.Errorw("failed to get package", "error", err, "package_sid", cmd.PackageSID)
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	if pkg == nil {
		return nil, subscription.ErrPackageNotFound
	}

	code := subscription.NormalizeCouponCode(cmd.Code)
	quote := &dto.CouponQuoteDTO{
		Code:           code,
		OriginalAmount: pkg.Price(),
		FinalAmount:    pkg.Price(),
	}

	coupon, err := uc.couponRepo.GetByCode(ctx, code)
	if err != nil {
		uc.logger.Errorw("failed to get coupon", "error", err, "code", code)
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	now := time.Now().UTC()
	switch {
	case coupon == nil:
		quote.Reason = "coupon not found"
	case !coupon.IsValidAt(now):
		quote.Reason = "coupon is not valid or expired"
	case !coupon.IsApplicableTo(pkg.ID()):
		quote.Reason = "coupon not applicable to this package"
	default:
		quote.Valid = true
		quote.Discount = coupon.CalculateDiscount(pkg.Price(), now)
		quote.FinalAmount = pkg.Price() - quote.Discount
	}

	return quote, nil
}
