package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/domain/notification"
	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/payment"
	"calmora/internal/shared/logger"
)

const renewBatchSize = 100

// AutoRenewSubscriptionsUseCase charges and extends active auto-renew
// subscriptions that end within the lookahead window. A declined charge turns
// auto-renew off and notifies the user; the expiry sweep then handles the
// subscription normally.
type AutoRenewSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	packageRepo      subscription.PackageRepository
	paymentRepo      subscription.PaymentRepository
	snapshotRepo     subscription.SnapshotRepository
	userSIDResolver  UserSIDResolver
	gateway          PaymentGateway
	notifier         Notifier
	lookahead        time.Duration
	logger           logger.Interface
}

// UserSIDResolver maps internal user IDs to their public SIDs for the
// payment gateway.
type UserSIDResolver interface {
	ResolveUserSID(ctx context.Context, userID uint) (string, error)
}

func NewAutoRenewSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	packageRepo subscription.PackageRepository,
	paymentRepo subscription.PaymentRepository,
	snapshotRepo subscription.SnapshotRepository,
	userSIDResolver UserSIDResolver,
	gateway PaymentGateway,
	lookahead time.Duration,
	logger logger.Interface,
) *AutoRenewSubscriptionsUseCase {
	if lookahead <= 0 {
		lookahead = 7 * 24 * time.Hour
	}
	return &AutoRenewSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		packageRepo:      packageRepo,
		paymentRepo:      paymentRepo,
		snapshotRepo:     snapshotRepo,
		userSIDResolver:  userSIDResolver,
		gateway:          gateway,
		lookahead:        lookahead,
		logger:           logger,
	}
}

// SetNotifier sets the lifecycle notifier (optional).
func (uc *AutoRenewSubscriptionsUseCase) SetNotifier(n Notifier) {
	uc.notifier = n
}

func (uc *AutoRenewSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	subs, err := uc.subscriptionRepo.ListDueForRenewal(ctx, now, uc.lookahead, renewBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list subscriptions due for renewal: %w", err)
	}

	renewed := 0
	for _, sub := range subs {
		if ctx.Err() != nil {
			return renewed, ctx.Err()
		}
		if err := uc.renewOne(ctx, sub); err != nil {
			uc.logger.Errorw("failed to renew subscription",
				"error", err, "subscription_sid", sub.SID())
			continue
		}
		renewed++
	}
	return renewed, nil
}

func (uc *AutoRenewSubscriptionsUseCase) renewOne(ctx context.Context, sub *subscription.Subscription) error {
	pkg, err := uc.packageRepo.GetByID(ctx, sub.PackageID())
	if err != nil {
		return fmt.Errorf("failed to get package: %w", err)
	}
	if pkg == nil || !pkg.IsActive() {
		// Package withdrawn; let the subscription run out.
		sub.SetAutoRenew(false)
		return uc.subscriptionRepo.Update(ctx, sub)
	}

	userSID, err := uc.userSIDResolver.ResolveUserSID(ctx, sub.UserID())
	if err != nil {
		return fmt.Errorf("failed to resolve user SID: %w", err)
	}

	pay, err := subscription.NewPayment(sub.UserID(), pkg.ID(), pkg.Price(), 0, pkg.Currency(), nil)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	pay.AttachSubscription(sub.ID())
	if err := uc.paymentRepo.Create(ctx, pay); err != nil {
		return fmt.Errorf("failed to persist payment: %w", err)
	}

	chargeResult, err := uc.gateway.Charge(ctx, payment.ChargeRequest{
		Reference: pay.SID(),
		Amount:    pay.ChargedAmount(),
		Currency:  pay.Currency(),
		UserSID:   userSID,
	})
	if err != nil || chargeResult.Status != payment.StatusSucceeded {
		reason := "charge declined"
		if err != nil {
			reason = err.Error()
		} else if chargeResult.Message != "" {
			reason = chargeResult.Message
		}
		return uc.handleFailedRenewal(ctx, sub, pay, reason)
	}

	if err := pay.MarkSucceeded(chargeResult.ProviderRef); err != nil {
		return err
	}
	if err := uc.paymentRepo.Update(ctx, pay); err != nil {
		uc.logger.Errorw("failed to update payment", "error", err, "payment_sid", pay.SID())
	}

	if err := sub.Renew(pkg.PeriodEnd(sub.EndDate())); err != nil {
		return fmt.Errorf("failed to extend subscription: %w", err)
	}
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if err := uc.snapshotRepo.Upsert(ctx, sub.UserID(), subscription.SnapshotFrom(sub, pkg)); err != nil {
		uc.logger.Errorw("failed to rewrite entitlement snapshot",
			"error", err, "user_id", sub.UserID())
	}

	uc.logger.Infow("subscription auto-renewed",
		"subscription_sid", sub.SID(),
		"new_end_date", sub.EndDate(),
		"charged", pay.ChargedAmount(),
	)
	return nil
}

func (uc *AutoRenewSubscriptionsUseCase) handleFailedRenewal(
	ctx context.Context,
	sub *subscription.Subscription,
	pay *subscription.Payment,
	reason string,
) error {
	if err := pay.MarkFailed(reason); err == nil {
		if updErr := uc.paymentRepo.Update(ctx, pay); updErr != nil {
			uc.logger.Errorw("failed to update failed payment", "error", updErr, "payment_sid", pay.SID())
		}
	}

	sub.SetAutoRenew(false)
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to disable auto-renew: %w", err)
	}

	if uc.notifier != nil {
		if err := uc.notifier.Notify(ctx, sub.UserID(), notification.TypeRenewalReminder,
			"Renewal payment failed",
			"We could not charge your payment method. Renew manually to keep your subscription.",
			map[string]string{"subscription_sid": sub.SID()},
		); err != nil {
			uc.logger.Warnw("failed to send renewal failure notification",
				"error", err, "user_id", sub.UserID())
		}
	}

	return fmt.Errorf("renewal charge failed: %s", reason)
}
