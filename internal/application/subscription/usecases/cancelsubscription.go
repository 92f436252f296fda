package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/subscription/dto"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	UserID uint
}

// CancelSubscriptionUseCase turns off auto-renewal for the user's active
// subscription. Access continues until the paid period ends.
type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	packageRepo      subscription.PackageRepository
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	packageRepo subscription.PackageRepository,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		packageRepo:      packageRepo,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subscriptionRepo.GetActiveByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get active subscription", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	if sub == nil {
		return nil, subscription.ErrNoActiveSubscription
	}

	if err := sub.Cancel(); err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_sid", sub.SID())
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.logger.Infow("subscription cancelled",
		"user_id", cmd.UserID,
		"subscription_sid", sub.SID(),
		"access_until", sub.EndDate(),
	)

	pkg, err := uc.packageRepo.GetByID(ctx, sub.PackageID())
	if err != nil {
		uc.logger.Warnw("failed to get package for response", "error", err, "package_id", sub.PackageID())
	}
	return dto.ToSubscriptionDTO(sub, pkg), nil
}
