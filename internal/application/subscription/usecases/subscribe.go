package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/application/subscription/dto"
	"calmora/internal/domain/notification"
	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/payment"
	"calmora/internal/shared/logger"
)

type SubscribeCommand struct {
	UserID     uint
	UserSID    string
	PackageSID string
	CouponCode string
	AutoRenew  bool
}

// SubscribeResult carries the created or existing subscription. Created is
// false when the user already held an active subscription, which the handler
// reports as a non-error repeat request.
type SubscribeResult struct {
	Subscription *dto.SubscriptionDTO
	Payment      *dto.PaymentDTO
	Created      bool
}

type SubscribeUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	packageRepo      subscription.PackageRepository
	couponRepo       subscription.CouponRepository
	paymentRepo      subscription.PaymentRepository
	snapshotRepo     subscription.SnapshotRepository
	gateway          PaymentGateway
	notifier         Notifier
	logger           logger.Interface
}

func NewSubscribeUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	packageRepo subscription.PackageRepository,
	couponRepo subscription.CouponRepository,
	paymentRepo subscription.PaymentRepository,
	snapshotRepo subscription.SnapshotRepository,
	gateway PaymentGateway,
	logger logger.Interface,
) *SubscribeUseCase {
	return &SubscribeUseCase{
		subscriptionRepo: subscriptionRepo,
		packageRepo:      packageRepo,
		couponRepo:       couponRepo,
		paymentRepo:      paymentRepo,
		snapshotRepo:     snapshotRepo,
		gateway:          gateway,
		logger:           logger,
	}
}

// SetNotifier sets the lifecycle notifier (optional).
func (uc *SubscribeUseCase) SetNotifier(n Notifier) {
	uc.notifier = n
}

func (uc *SubscribeUseCase) Execute(ctx context.Context, cmd SubscribeCommand) (*SubscribeResult, error) {
	pkg, err := uc.packageRepo.GetBySID(ctx, cmd.PackageSID)
	if err != nil {
		uc.logger.Errorw("failed to get package", "error", err, "package_sid", cmd.PackageSID)
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	if pkg == nil {
		return nil, subscription.ErrPackageNotFound
	}
	if !pkg.IsActive() {
		return nil, subscription.ErrPackageInactive
	}

	existing, err := uc.subscriptionRepo.GetActiveByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get active subscription", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	if existing != nil {
		// Holding an active subscription makes any repeat subscribe an
		// idempotent success; plan switches go through ChangePlan instead.
		heldPkg := pkg
		if existing.PackageID() != pkg.ID() {
			heldPkg, err = uc.packageRepo.GetByID(ctx, existing.PackageID())
			if err != nil {
				uc.logger.Errorw("failed to get held package", "error", err, "package_id", existing.PackageID())
				return nil, fmt.Errorf("failed to get package: %w", err)
			}
		}
		return &SubscribeResult{
			Subscription: dto.ToSubscriptionDTO(existing, heldPkg),
			Created:      false,
		}, nil
	}

	now := time.Now().UTC()

	var couponID *uint
	var discount uint64
	if cmd.CouponCode != "" {
		coupon, redeemErr := uc.redeemCoupon(ctx, cmd.CouponCode, pkg, now)
		if redeemErr != nil {
			return nil, redeemErr
		}
		id := coupon.ID()
		couponID = &id
		discount = coupon.CalculateDiscount(pkg.Price(), now)
	}

	pay, err := subscription.NewPayment(cmd.UserID, pkg.ID(), pkg.Price(), discount, pkg.Currency(), couponID)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
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
		uc.failPayment(ctx, pay, reason)
		return nil, fmt.Errorf("payment failed: %s", reason)
	}
	if err := pay.MarkSucceeded(chargeResult.ProviderRef); err != nil {
		return nil, fmt.Errorf("failed to mark payment succeeded: %w", err)
	}

	sub, err := subscription.NewSubscription(cmd.UserID, pkg.ID(), now, pkg.PeriodEnd(now), cmd.AutoRenew)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist subscription", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to persist subscription: %w", err)
	}

	pay.AttachSubscription(sub.ID())
	if err := uc.paymentRepo.Update(ctx, pay); err != nil {
		uc.logger.Errorw("failed to update payment", "error", err, "payment_sid", pay.SID())
	}

	if err := uc.snapshotRepo.Upsert(ctx, cmd.UserID, subscription.SnapshotFrom(sub, pkg)); err != nil {
		uc.logger.Errorw("failed to write entitlement snapshot", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to write entitlement snapshot: %w", err)
	}

	uc.logger.Infow("subscription created",
		"user_id", cmd.UserID,
		"package_sid", pkg.SID(),
		"end_date", sub.EndDate(),
		"charged", pay.ChargedAmount(),
	)

	if uc.notifier != nil {
		if err := uc.notifier.Notify(ctx, cmd.UserID, notification.TypeSystem,
			"Subscription activated",
			fmt.Sprintf("Your %s subscription is active until %s.", pkg.Name(), sub.EndDate().Format("2006-01-02")),
			map[string]string{"subscription_sid": sub.SID()},
		); err != nil {
			uc.logger.Warnw("failed to send subscription notification", "error", err, "user_id", cmd.UserID)
		}
	}

	return &SubscribeResult{
		Subscription: dto.ToSubscriptionDTO(sub, pkg),
		Payment:      dto.ToPaymentDTO(pay),
		Created:      true,
	}, nil
}

// redeemCoupon validates the coupon against the package and consumes one use.
// The conditional update in RedeemAtomically is what enforces the usage cap
// under concurrency.
func (uc *SubscribeUseCase) redeemCoupon(ctx context.Context, code string, pkg *subscription.Package, now time.Time) (*subscription.Coupon, error) {
	coupon, err := uc.couponRepo.GetByCode(ctx, subscription.NormalizeCouponCode(code))
	if err != nil {
		uc.logger.Errorw("failed to get coupon", "error", err, "code", code)
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if coupon == nil {
		return nil, subscription.ErrCouponNotFound
	}
	if !coupon.IsApplicableTo(pkg.ID()) {
		return nil, subscription.ErrCouponNotApplicable
	}
	redeemed, err := uc.couponRepo.RedeemAtomically(ctx, coupon.ID(), now)
	if err != nil {
		uc.logger.Errorw("failed to redeem coupon", "error", err, "coupon_id", coupon.ID())
		return nil, fmt.Errorf("failed to redeem coupon: %w", err)
	}
	if !redeemed {
		return nil, subscription.ErrCouponNotValid
	}
	return coupon, nil
}

func (uc *SubscribeUseCase) failPayment(ctx context.Context, pay *subscription.Payment, reason string) {
	if err := pay.MarkFailed(reason); err != nil {
		uc.logger.Errorw("failed to mark payment failed", "error", err, "payment_sid", pay.SID())
		return
	}
	if err := uc.paymentRepo.Update(ctx, pay); err != nil {
		uc.logger.Errorw("failed to update failed payment", "error", err, "payment_sid", pay.SID())
	}
}
