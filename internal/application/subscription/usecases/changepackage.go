package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/application/subscription/dto"
	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/payment"
	"calmora/internal/shared/logger"
)

type ChangePackageCommand struct {
	UserID        uint
	UserSID       string
	NewPackageSID string
}

// ChangePackageUseCase moves an active subscription onto a different package.
// The unused value of the current period converts into extra days on the new
// package; the new package's full price is charged up front.
type ChangePackageUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	packageRepo      subscription.PackageRepository
	paymentRepo      subscription.PaymentRepository
	snapshotRepo     subscription.SnapshotRepository
	gateway          PaymentGateway
	logger           logger.Interface
}

func NewChangePackageUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	packageRepo subscription.PackageRepository,
	paymentRepo subscription.PaymentRepository,
	snapshotRepo subscription.SnapshotRepository,
	gateway PaymentGateway,
	logger logger.Interface,
) *ChangePackageUseCase {
	return &ChangePackageUseCase{
		subscriptionRepo: subscriptionRepo,
		packageRepo:      packageRepo,
		paymentRepo:      paymentRepo,
		snapshotRepo:     snapshotRepo,
		gateway:          gateway,
		logger:           logger,
	}
}

func (uc *ChangePackageUseCase) Execute(ctx context.Context, cmd ChangePackageCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subscriptionRepo.GetActiveByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get active subscription", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	if sub == nil {
		return nil, subscription.ErrNoActiveSubscription
	}

	newPkg, err := uc.packageRepo.GetBySID(ctx, cmd.NewPackageSID)
	if err != nil {
		uc.logger.Errorw("failed to get package", "error", err, "package_sid", cmd.NewPackageSID)
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	if newPkg == nil {
		return nil, subscription.ErrPackageNotFound
	}
	if !newPkg.IsActive() {
		return nil, subscription.ErrPackageInactive
	}
	if newPkg.ID() == sub.PackageID() {
		return nil, fmt.Errorf("subscription already on package %s", newPkg.SID())
	}

	oldPkg, err := uc.packageRepo.GetByID(ctx, sub.PackageID())
	if err != nil {
		uc.logger.Errorw("failed to get current package", "error", err, "package_id", sub.PackageID())
		return nil, fmt.Errorf("failed to get current package: %w", err)
	}
	if oldPkg == nil {
		return nil, subscription.ErrPackageNotFound
	}

	now := time.Now().UTC()
	creditDays := subscription.CreditDays(oldPkg, newPkg, sub.DaysRemainingAt(now))

	pay, err := subscription.NewPayment(cmd.UserID, newPkg.ID(), newPkg.Price(), 0, newPkg.Currency(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	subID := sub.ID()
	pay.AttachSubscription(subID)
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

	newEnd := now.AddDate(0, 0, newPkg.DurationDays()+creditDays)
	if err := sub.ChangePackage(newPkg.ID(), newEnd); err != nil {
		return nil, fmt.Errorf("failed to change package: %w", err)
	}
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_sid", sub.SID())
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	if err := uc.snapshotRepo.Upsert(ctx, cmd.UserID, subscription.SnapshotFrom(sub, newPkg)); err != nil {
		uc.logger.Errorw("failed to write entitlement snapshot", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to write entitlement snapshot: %w", err)
	}

	uc.logger.Infow("subscription package changed",
		"user_id", cmd.UserID,
		"from_package", oldPkg.SID(),
		"to_package", newPkg.SID(),
		"credit_days", creditDays,
		"new_end_date", newEnd,
	)

	return dto.ToSubscriptionDTO(sub, newPkg), nil
}
