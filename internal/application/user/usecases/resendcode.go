package usecases

import (
	"context"
	"fmt"

	"calmora/internal/domain/user"
	"calmora/internal/shared/logger"
)

type ResendCodeCommand struct {
	Identity string // email or phone
}

// ResendCodeUseCase re-issues a verification code for an unverified account.
// Unknown identities return success so the endpoint cannot be used to probe
// which identities exist; already-verified accounts are a no-op too.
type ResendCodeUseCase struct {
	userRepo     user.Repository
	otpStore     OTPStore
	emailSender  EmailSender
	smsSender    SMSSender
	otpExpiresIn int
	logger       logger.Interface
}

func NewResendCodeUseCase(
	userRepo user.Repository,
	otpStore OTPStore,
	emailSender EmailSender,
	smsSender SMSSender,
	otpExpiresMinutes int,
	logger logger.Interface,
) *ResendCodeUseCase {
	return &ResendCodeUseCase{
		userRepo:     userRepo,
		otpStore:     otpStore,
		emailSender:  emailSender,
		smsSender:    smsSender,
		otpExpiresIn: otpExpiresMinutes,
		logger:       logger,
	}
}

func (uc *ResendCodeUseCase) Execute(ctx context.Context, cmd ResendCodeCommand) error {
	if cmd.Identity == "" {
		return fmt.Errorf("identity is required")
	}

	u, err := uc.userRepo.GetByEmail(ctx, user.NormalizeEmail(cmd.Identity))
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if u == nil {
		u, err = uc.userRepo.GetByPhone(ctx, user.NormalizePhone(cmd.Identity))
		if err != nil {
			return fmt.Errorf("failed to look up user: %w", err)
		}
	}
	if u == nil || u.IsVerified() {
		return nil
	}

	identity := verificationIdentity(u)
	code, err := uc.otpStore.Generate(ctx, identity)
	if err != nil {
		uc.logger.Errorw("failed to generate verification code", "error", err, "user_sid", u.SID())
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	if u.Email() != nil {
		if err := uc.emailSender.SendVerificationCode(*u.Email(), code, uc.otpExpiresIn); err != nil {
			uc.logger.Errorw("failed to send verification email", "error", err, "user_sid", u.SID())
			return fmt.Errorf("failed to send verification email: %w", err)
		}
		return nil
	}
	if err := uc.smsSender.SendVerificationCode(ctx, *u.Phone(), code); err != nil {
		uc.logger.Errorw("failed to send verification sms", "error", err, "user_sid", u.SID())
		return fmt.Errorf("failed to send verification sms: %w", err)
	}
	return nil
}
