package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/user/dto"
	"calmora/internal/domain/user"
	"calmora/internal/shared/logger"
)

type RegisterCommand struct {
	Email    string
	Phone    string
	Name     string
	Password string
}

// RegisterUseCase creates an unverified account with email or phone identity
// and sends a one-time verification code over the matching channel. The
// account cannot log in until the code is confirmed.
type RegisterUseCase struct {
	userRepo     user.Repository
	hasher       PasswordHasher
	otpStore     OTPStore
	emailSender  EmailSender
	smsSender    SMSSender
	otpExpiresIn int
	logger       logger.Interface
}

func NewRegisterUseCase(
	userRepo user.Repository,
	hasher PasswordHasher,
	otpStore OTPStore,
	emailSender EmailSender,
	smsSender SMSSender,
	otpExpiresMinutes int,
	logger logger.Interface,
) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo:     userRepo,
		hasher:       hasher,
		otpStore:     otpStore,
		emailSender:  emailSender,
		smsSender:    smsSender,
		otpExpiresIn: otpExpiresMinutes,
		logger:       logger,
	}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (*dto.UserDTO, error) {
	var emailPtr, phonePtr *string
	if cmd.Email != "" {
		email := user.NormalizeEmail(cmd.Email)
		existing, err := uc.userRepo.GetByEmail(ctx, email)
		if err != nil {
			uc.logger.Errorw("failed to check email", "error", err)
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil {
			return nil, user.ErrUserExists
		}
		emailPtr = &email
	}
	if cmd.Phone != "" {
		phone := user.NormalizePhone(cmd.Phone)
		existing, err := uc.userRepo.GetByPhone(ctx, phone)
		if err != nil {
			uc.logger.Errorw("failed to check phone", "error", err)
			return nil, fmt.Errorf("failed to check phone: %w", err)
		}
		if existing != nil {
			return nil, user.ErrUserExists
		}
		phonePtr = &phone
	}

	newUser, err := user.NewUser(emailPtr, phonePtr, cmd.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	if cmd.Password != "" {
		hash, err := uc.hasher.Hash(cmd.Password)
		if err != nil {
			uc.logger.Errorw("failed to hash password", "error", err)
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := newUser.SetPasswordHash(hash); err != nil {
			return nil, err
		}
	}

	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		uc.logger.Errorw("failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := uc.sendVerificationCode(ctx, newUser); err != nil {
		// Account exists; the client can request a resend.
		uc.logger.Warnw("failed to send verification code", "error", err, "user_sid", newUser.SID())
	}

	uc.logger.Infow("user registered", "user_sid", newUser.SID(), "has_email", emailPtr != nil, "has_phone", phonePtr != nil)
	return dto.ToUserDTO(newUser), nil
}

func (uc *RegisterUseCase) sendVerificationCode(ctx context.Context, u *user.User) error {
	identity := verificationIdentity(u)
	code, err := uc.otpStore.Generate(ctx, identity)
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	if u.Email() != nil {
		return uc.emailSender.SendVerificationCode(*u.Email(), code, uc.otpExpiresIn)
	}
	return uc.smsSender.SendVerificationCode(ctx, *u.Phone(), code)
}

// verificationIdentity keys the OTP on the identity being proven, which is
// the email when present, else the phone.
func verificationIdentity(u *user.User) string {
	if u.Email() != nil {
		return *u.Email()
	}
	return *u.Phone()
}
