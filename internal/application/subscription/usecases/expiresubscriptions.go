package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/domain/notification"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
)

const expireBatchSize = 200

// ExpireSubscriptionsUseCase promotes stored-active subscriptions past their
// end date to expired and rewrites the affected entitlement snapshots. Reads
// use EffectiveStatus so this sweep is for data consistency, not correctness.
type ExpireSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	packageRepo      subscription.PackageRepository
	snapshotRepo     subscription.SnapshotRepository
	notifier         Notifier
	logger           logger.Interface
}

func NewExpireSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	packageRepo subscription.PackageRepository,
	snapshotRepo subscription.SnapshotRepository,
	logger logger.Interface,
) *ExpireSubscriptionsUseCase {
	return &ExpireSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		packageRepo:      packageRepo,
		snapshotRepo:     snapshotRepo,
		logger:           logger,
	}
}

// SetNotifier sets the lifecycle notifier (optional).
func (uc *ExpireSubscriptionsUseCase) SetNotifier(n Notifier) {
	uc.notifier = n
}

func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	subs, err := uc.subscriptionRepo.ListExpiredActive(ctx, now, expireBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired subscriptions: %w", err)
	}

	expired := 0
	for _, sub := range subs {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}

		sub.MarkExpired()
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			uc.logger.Errorw("failed to mark subscription expired",
				"error", err, "subscription_sid", sub.SID())
			continue
		}

		pkg, err := uc.packageRepo.GetByID(ctx, sub.PackageID())
		if err != nil {
			uc.logger.Errorw("failed to get package for snapshot",
				"error", err, "package_id", sub.PackageID())
		}
		if err := uc.snapshotRepo.Upsert(ctx, sub.UserID(), subscription.SnapshotFrom(sub, pkg)); err != nil {
			uc.logger.Errorw("failed to rewrite entitlement snapshot",
				"error", err, "user_id", sub.UserID())
		}

		if uc.notifier != nil {
			if err := uc.notifier.Notify(ctx, sub.UserID(), notification.TypeSubscriptionExpiry,
				"Subscription expired",
				"Your subscription has ended. Resubscribe to keep full access.",
				map[string]string{"subscription_sid": sub.SID()},
			); err != nil {
				uc.logger.Warnw("failed to send expiry notification",
					"error", err, "user_id", sub.UserID())
			}
		}

		expired++
	}
	return expired, nil
}
