package usecases

import (
	"context"
	"time"

	"calmora/internal/infrastructure/auth"
	"calmora/internal/shared/authorization"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// TokenIssuer issues and verifies JWT token pairs.
type TokenIssuer interface {
	Generate(userSID string, role authorization.UserRole) (*auth.TokenPair, error)
	Verify(tokenString string) (*auth.Claims, error)
}

// OTPStore issues and consumes one-time verification codes.
type OTPStore interface {
	Generate(ctx context.Context, identity string) (string, error)
	Verify(ctx context.Context, identity, code string) error
}

// TokenRevoker blacklists token IDs until their natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// EmailSender delivers verification codes over email.
type EmailSender interface {
	SendVerificationCode(to, code string, expiresMinutes int) error
}

// SMSSender delivers verification codes over SMS.
type SMSSender interface {
	SendVerificationCode(ctx context.Context, phone, code string) error
}

// GoogleOAuth exchanges an authorization code for the Google account profile.
type GoogleOAuth interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
	GetUserInfo(ctx context.Context, accessToken string) (*auth.OAuthUserInfo, error)
}
