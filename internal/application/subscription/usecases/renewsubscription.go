package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/subscription/dto"
	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/payment"
	"calmora/internal/shared/logger"
)

type RenewSubscriptionCommand struct {
	UserID  uint
	UserSID string
}

// RenewSubscriptionUseCase extends the caller's active subscription by one
// billing period on explicit request. It is the manual counterpart of the
// auto-renew sweep, for users who turned auto-renew off or whose last
// automatic charge was declined.
type RenewSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	packageRepo      subscription.PackageRepository
	paymentRepo      subscription.PaymentRepository
	snapshotRepo     subscription.SnapshotRepository
	gateway          PaymentGateway
	logger           logger.Interface
}

func NewRenewSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	packageRepo subscription.PackageRepository,
	paymentRepo subscription.PaymentRepository,
	snapshotRepo subscription.SnapshotRepository,
	gateway PaymentGateway,
	logger logger.Interface,
) *RenewSubscriptionUseCase {
	return &RenewSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		packageRepo:      packageRepo,
		paymentRepo:      paymentRepo,
		snapshotRepo:     snapshotRepo,
		gateway:          gateway,
		logger:           logger,
	}
}

func (uc *RenewSubscriptionUseCase) Execute(ctx context.Context, cmd RenewSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subscriptionRepo.GetActiveByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get active subscription", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	if sub == nil {
		return nil, subscription.ErrNoActiveSubscription
	}

	pkg, err := uc.packageRepo.GetByID(ctx, sub.PackageID())
	if err != nil {
		uc.logger.Errorw("failed to get package", "error", err, "package_id", sub.PackageID())
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	if pkg == nil || !pkg.IsActive() {
		return nil, subscription.ErrPackageInactive
	}

	pay, err := subscription.NewPayment(sub.UserID(), pkg.ID(), pkg.Price(), 0, pkg.Currency(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	pay.AttachSubscription(sub.ID())
	if err := uc.paymentRepo.Create(ctx, pay); err != nil {
		uc.logger.Errorw("failed to persist payment", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to persist payment: %w", err)
	}

	chargeResult, err := uc.gateway.Charge(ctx, payment.ChargeRequest{
		Reference: pay.SID(),
		Amount:    pay.ChargedAmount(),
		Currency:  pay.Currency(),
		UserSID:   cmd.UserSID,
	})
	if err != nil || chargeResult.Status != payment.StatusSucceeded {
		reason := "charge declined"
		if err != nil {
			reason = err.Error()
		} else if chargeResult.Message != "" {
			reason = chargeResult.Message
		}
		if markErr := pay.MarkFailed(reason); markErr == nil {
			if updErr := uc.paymentRepo.Update(ctx, pay); updErr != nil {
				uc.logger.Errorw("failed to update failed payment", "error", updErr, "payment_sid", pay.SID())
			}
		}
		return nil, fmt.Errorf("payment failed: %s", reason)
	}
	if err := pay.MarkSucceeded(chargeResult.ProviderRef); err != nil {
		return nil, fmt.Errorf("failed to mark payment succeeded: %w", err)
	}
	if err := uc.paymentRepo.Update(ctx, pay); err != nil {
		uc.logger.Errorw("failed to update payment", "error", err, "payment_sid", pay.SID())
	}

	if err := sub.Renew(pkg.PeriodEnd(sub.EndDate())); err != nil {
		return nil, fmt.Errorf("failed to extend subscription: %w", err)
	}
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_sid", sub.SID())
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	if err := uc.snapshotRepo.Upsert(ctx, sub.UserID(), subscription.SnapshotFrom(sub, pkg)); err != nil {
		uc.logger.Errorw("failed to rewrite entitlement snapshot", "error", err, "user_id", sub.UserID())
	}

	uc.logger.Infow("subscription renewed",
		"subscription_sid", sub.SID(),
		"new_end_date", sub.EndDate(),
		"charged", pay.ChargedAmount(),
	)
	return dto.ToSubscriptionDTO(sub, pkg), nil
}
