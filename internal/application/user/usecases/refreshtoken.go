package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/application/user/dto"
	"calmora/internal/domain/user"
	"calmora/internal/infrastructure/auth"
	"calmora/internal/shared/errors"
	"calmora/internal/shared/logger"
)

type RefreshTokenCommand struct {
	RefreshToken string
}

// RefreshTokenUseCase rotates a refresh token: the presented token's ID is
// blacklisted until its natural expiry and a fresh pair is issued. A replayed
// refresh token therefore fails on the blacklist check.
type RefreshTokenUseCase struct {
	userRepo user.Repository
	tokens   TokenIssuer
	revoker  TokenRevoker
	logger   logger.Interface
}

func NewRefreshTokenUseCase(
	userRepo user.Repository,
	tokens TokenIssuer,
	revoker TokenRevoker,
	logger logger.Interface,
) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		revoker:  revoker,
		logger:   logger,
	}
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, cmd RefreshTokenCommand) (*dto.TokenPairDTO, error) {
	claims, err := uc.tokens.Verify(cmd.RefreshToken)
	if err != nil {
		return nil, errors.NewUnauthorizedError("invalid refresh token")
	}
	if claims.TokenType != auth.TokenTypeRefresh {
		return nil, errors.NewUnauthorizedError("token is not a refresh token")
	}

	revoked, err := uc.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		uc.logger.Errorw("failed to check token blacklist", "error", err)
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if revoked {
		return nil, errors.NewUnauthorizedError("refresh token has been revoked")
	}

	u, err := uc.userRepo.GetBySID(ctx, claims.UserSID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_sid", claims.UserSID)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	if err := u.CanAuthenticateAt(time.Now().UTC()); err != nil {
		return nil, err
	}

	if claims.ExpiresAt != nil {
		if err := uc.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			uc.logger.Errorw("failed to revoke refresh token", "error", err)
			return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}

	pair, err := uc.tokens.Generate(u.SID(), u.Role())
	if err != nil {
		uc.logger.Errorw("failed to generate tokens", "error", err, "user_sid", u.SID())
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &dto.TokenPairDTO{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}
