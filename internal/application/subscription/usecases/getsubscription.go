package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/subscription/dto"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
)

// GetSubscriptionUseCase returns the user's current subscription and
// entitlement. A user who never subscribed gets a nil subscription and the
// free-tier entitlement.
type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	packageRepo      subscription.PackageRepository
	snapshotRepo     subscription.SnapshotRepository
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	packageRepo subscription.PackageRepository,
	snapshotRepo subscription.SnapshotRepository,
	logger logger.Interface,
) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		packageRepo:      packageRepo,
		snapshotRepo:     snapshotRepo,
		logger:           logger,
	}
}

type SubscriptionStatusResult struct {
	Subscription *dto.SubscriptionDTO `json:"subscription"`
	Entitlement  *dto.EntitlementDTO  `json:"entitlement"`
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, userID uint) (*SubscriptionStatusResult, error) {
	sub, err := uc.subscriptionRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get active subscription", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}

	snap, err := uc.snapshotRepo.GetByUserID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get entitlement snapshot", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get entitlement snapshot: %w", err)
	}

	result := &SubscriptionStatusResult{Entitlement: dto.ToEntitlementDTO(snap)}
	if sub != nil {
		pkg, err := uc.packageRepo.GetByID(ctx, sub.PackageID())
		if err != nil {
			uc.logger.Warnw("failed to get package for response", "error", err, "package_id", sub.PackageID())
		}
		result.Subscription = dto.ToSubscriptionDTO(sub, pkg)
	}
	return result, nil
}
