package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/domain/notification"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
)

const reminderBatchSize = 500

// RenewalRemindersUseCase notifies users whose auto-renewing subscriptions
// will be charged within the reminder window. It runs once a day; the
// notification data carries the end date so clients can render a countdown.
type RenewalRemindersUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	packageRepo      subscription.PackageRepository
	notifier         Notifier
	window           time.Duration
	logger           logger.Interface
}

func NewRenewalRemindersUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	packageRepo subscription.PackageRepository,
	notifier Notifier,
	window time.Duration,
	logger logger.Interface,
) *RenewalRemindersUseCase {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	return &RenewalRemindersUseCase{
		subscriptionRepo: subscriptionRepo,
		packageRepo:      packageRepo,
		notifier:         notifier,
		window:           window,
		logger:           logger,
	}
}

func (uc *RenewalRemindersUseCase) Execute(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	subs, err := uc.subscriptionRepo.ListDueForRenewal(ctx, now, uc.window, reminderBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list subscriptions for reminders: %w", err)
	}

	sent := 0
	for _, sub := range subs {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		// Reminders only make sense while renewal is more than a day out;
		// anything closer is handled by the renewal job itself.
		if sub.EndDate().Sub(now) < 24*time.Hour {
			continue
		}

		pkgName := "subscription"
		if pkg, err := uc.packageRepo.GetByID(ctx, sub.PackageID()); err == nil && pkg != nil {
			pkgName = pkg.Name()
		}

		err := uc.notifier.Notify(ctx, sub.UserID(), notification.TypeRenewalReminder,
			"Upcoming renewal",
			fmt.Sprintf("Your %s renews on %s.", pkgName, sub.EndDate().Format("2006-01-02")),
			map[string]string{
				"subscription_sid": sub.SID(),
				"end_date":         sub.EndDate().Format(time.RFC3339),
			},
		)
		if err != nil {
			uc.logger.Warnw("failed to send renewal reminder",
				"error", err, "user_id", sub.UserID())
			continue
		}
		sent++
	}
	return sent, nil
}
