package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/application/user/dto"
	"calmora/internal/domain/user"
	"calmora/internal/shared/logger"
)

type LoginCommand struct {
	Identity string // email or phone
	Password string
}

// LoginUseCase authenticates with identity plus password. Lookup failures and
// password mismatches collapse into the same error so the endpoint does not
// leak which identities exist.
type LoginUseCase struct {
	userRepo user.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*dto.AuthResultDTO, error) {
	u, err := uc.findByIdentity(ctx, cmd.Identity)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrInvalidPassword
	}

	if u.PasswordHash() == nil {
		return nil, user.ErrNoPasswordSet
	}
	if err := uc.hasher.Verify(cmd.Password, *u.PasswordHash()); err != nil {
		uc.logger.Warnw("password mismatch", "user_sid", u.SID())
		return nil, user.ErrInvalidPassword
	}

	if err := u.CanAuthenticateAt(time.Now().UTC()); err != nil {
		uc.logger.Warnw("login rejected", "error", err, "user_sid", u.SID())
		return nil, err
	}

	pair, err := uc.tokens.Generate(u.SID(), u.Role())
	if err != nil {
		uc.logger.Errorw("failed to generate tokens", "error", err, "user_sid", u.SID())
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	uc.logger.Infow("user logged in", "user_sid", u.SID())
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

func (uc *LoginUseCase) findByIdentity(ctx context.Context, identity string) (*user.User, error) {
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
