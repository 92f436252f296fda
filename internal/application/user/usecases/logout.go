package usecases

import (
	"context"

	"calmora/internal/shared/logger"
)

type LogoutCommand struct {
	AccessToken  string
	RefreshToken string
}

// LogoutUseCase blacklists the presented tokens until their natural expiry.
// Unparseable tokens are ignored; logout never fails for the client.
type LogoutUseCase struct {
	tokens  TokenIssuer
	revoker TokenRevoker
	logger  logger.Interface
}

func NewLogoutUseCase(tokens TokenIssuer, revoker TokenRevoker, logger logger.Interface) *LogoutUseCase {
	return &LogoutUseCase{tokens: tokens, revoker: revoker, logger: logger}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, cmd LogoutCommand) error {
	uc.revokeToken(ctx, cmd.AccessToken)
	uc.revokeToken(ctx, cmd.RefreshToken)
	return nil
}

func (uc *LogoutUseCase) revokeToken(ctx context.Context, tokenString string) {
	if tokenString == "" {
		return
	}
	claims, err := uc.tokens.Verify(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return
	}
	if err := uc.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		uc.logger.Warnw("failed to revoke token", "error", err, "jti", claims.ID)
	}
}
