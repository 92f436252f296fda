package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/user/dto"
	"calmora/internal/domain/user"
	"calmora/internal/shared/logger"
)

type VerifyAccountCommand struct {
	Identity string // normalized email or phone
	Code     string
}

// VerifyAccountUseCase consumes a one-time code and marks the account
// verified. On success the user gets a token pair so verification doubles as
// the first login.
type VerifyAccountUseCase struct {
	userRepo user.Repository
	otpStore OTPStore
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewVerifyAccountUseCase(
	userRepo user.Repository,
	otpStore OTPStore,
	tokens TokenIssuer,
	logger logger.Interface,
) *VerifyAccountUseCase {
	return &VerifyAccountUseCase{
		userRepo: userRepo,
		otpStore: otpStore,
		tokens:   tokens,
		logger:   logger,
	}
}

func (uc *VerifyAccountUseCase) Execute(ctx context.Context, cmd VerifyAccountCommand) (*dto.AuthResultDTO, error) {
	u, err := uc.findByIdentity(ctx, cmd.Identity)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	if err := uc.otpStore.Verify(ctx, verificationIdentity(u), cmd.Code); err != nil {
		uc.logger.Warnw("verification code rejected", "error", err, "user_sid", u.SID())
		return nil, err
	}

	if !u.IsVerified() {
		u.MarkVerified()
		if err := uc.userRepo.Update(ctx, u); err != nil {
			uc.logger.Errorw("failed to mark user verified", "error", err, "user_sid", u.SID())
			return nil, fmt.Errorf("failed to mark user verified: %w", err)
		}
	}

	pair, err := uc.tokens.Generate(u.SID(), u.Role())
	if err != nil {
		uc.logger.Errorw("failed to generate tokens", "error", err, "user_sid", u.SID())
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	uc.logger.Infow("user verified", "user_sid", u.SID())
	return &dto.AuthResultDTO{
		User: dto.ToUserDTO(u),
		Tokens: &dto.TokenPairDTO{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    pair.ExpiresIn,
		},
	}, nil
}

func (uc *VerifyAccountUseCase) findByIdentity(ctx context.Context, identity string) (*user.User, error) {
	if identity == "" {
		return nil, fmt.Errorf("identity is required")
	}
	u, err := uc.userRepo.GetByEmail(ctx, user.NormalizeEmail(identity))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if u != nil {
		return u, nil
	}
	u, err = uc.userRepo.GetByPhone(ctx, user.NormalizePhone(identity))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return u, nil
}
