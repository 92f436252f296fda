package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"calmora/internal/infrastructure/auth"
	"calmora/internal/shared/authorization"
	apperrors "calmora/internal/shared/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func refreshClaims(jti string, expiresAt time.Time) *auth.Claims {
	return &auth.Claims{
		UserSID:   "usr-1",
		Role:      authorization.RoleUser,
		TokenType: auth.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}

func TestRefreshTokenUseCase_Execute_RotatesToken(t *testing.T) {
	userRepo := new(mockUserRepository)
	tokens := new(mockTokenIssuer)
	revoker := new(mockTokenRevoker)
	uc := NewRefreshTokenUseCase(userRepo, tokens, revoker, newTestLogger())

	expiry := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	tokens.On("Verify", "old-refresh").Return(refreshClaims("jti-old", expiry), nil)
	revoker.On("IsRevoked", mock.Anything, "jti-old").Return(false, nil)
	u := buildUser(t, testUserParams{ID: 1, SID: "usr-1", Email: "listener@example.com", Verified: true})
	userRepo.On("GetBySID", mock.Anything, "usr-1").Return(u, nil)
	revoker.On("Revoke", mock.Anything, "jti-old", expiry).Return(nil)
	tokens.On("Generate", "usr-1", authorization.RoleUser).Return(tokenPair(), nil)

	result, err := uc.Execute(context.Background(), RefreshTokenCommand{RefreshToken: "old-refresh"})

	require.NoError(t, err)
	assert.Equal(t, "access-token", result.AccessToken)
	assert.Equal(t, "refresh-token", result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	revoker.AssertExpectations(t)
}

func TestRefreshTokenUseCase_Execute_RejectsAccessToken(t *testing.T) {
	userRepo := new(mockUserRepository)
	tokens := new(mockTokenIssuer)
	revoker := new(mockTokenRevoker)
	uc := NewRefreshTokenUseCase(userRepo, tokens, revoker, newTestLogger())

	claims := refreshClaims("jti-1", time.Now().UTC().Add(time.Hour))
	claims.TokenType = auth.TokenTypeAccess
	tokens.On("Verify", "an-access-token").Return(claims, nil)

	result, err := uc.Execute(context.Background(), RefreshTokenCommand{RefreshToken: "an-access-token"})

	require.Error(t, err)
	assert.Nil(t, result)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
	revoker.AssertNotCalled(t, "IsRevoked", mock.Anything, mock.Anything)
}

func TestRefreshTokenUseCase_Execute_ReplayedTokenRejected(t *testing.T) {
	userRepo := new(mockUserRepository)
	tokens := new(mockTokenIssuer)
	revoker := new(mockTokenRevoker)
	uc := NewRefreshTokenUseCase(userRepo, tokens, revoker, newTestLogger())

	tokens.On("Verify", "replayed").Return(refreshClaims("jti-used", time.Now().UTC().Add(time.Hour)), nil)
	revoker.On("IsRevoked", mock.Anything, "jti-used").Return(true, nil)

	result, err := uc.Execute(context.Background(), RefreshTokenCommand{RefreshToken: "replayed"})

	require.Error(t, err)
	assert.Nil(t, result)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
	tokens.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestRefreshTokenUseCase_Execute_UnparseableToken(t *testing.T) {
	userRepo := new(mockUserRepository)
	tokens := new(mockTokenIssuer)
	revoker := new(mockTokenRevoker)
	uc := NewRefreshTokenUseCase(userRepo, tokens, revoker, newTestLogger())

	tokens.On("Verify", "garbage").Return(nil, errors.New("token is malformed"))

	result, err := uc.Execute(context.Background(), RefreshTokenCommand{RefreshToken: "garbage"})

	require.Error(t, err)
	assert.Nil(t, result)
	revoker.AssertNotCalled(t, "IsRevoked", mock.Anything, mock.Anything)
}

func TestRefreshTokenUseCase_Execute_BannedUserCannotRefresh(t *testing.T) {
	userRepo := new(mockUserRepository)
	tokens := new(mockTokenIssuer)
	revoker := new(mockTokenRevoker)
	uc := NewRefreshTokenUseCase(userRepo, tokens, revoker, newTestLogger())

	tokens.On("Verify", "banned-refresh").Return(refreshClaims("jti-2", time.Now().UTC().Add(time.Hour)), nil)
	revoker.On("IsRevoked", mock.Anything, "jti-2").Return(false, nil)
	until := time.Now().UTC().AddDate(0, 1, 0)
	u := buildUser(t, testUserParams{ID: 1, SID: "usr-1", Email: "listener@example.com", Verified: true, BannedUntil: &until})
	userRepo.On("GetBySID", mock.Anything, "usr-1").Return(u, nil)

	result, err := uc.Execute(context.Background(), RefreshTokenCommand{RefreshToken: "banned-refresh"})

	require.Error(t, err)
	assert.Nil(t, result)
	revoker.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogoutUseCase_Execute_RevokesBothTokens(t *testing.T) {
	tokens := new(mockTokenIssuer)
	revoker := new(mockTokenRevoker)
	uc := NewLogoutUseCase(tokens, revoker, newTestLogger())

	accessExpiry := time.Now().UTC().Add(15 * time.Minute).Truncate(time.Second)
	refreshExpiry := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	accessClaims := refreshClaims("jti-access", accessExpiry)
	accessClaims.TokenType = auth.TokenTypeAccess
	tokens.On("Verify", "the-access").Return(accessClaims, nil)
	tokens.On("Verify", "the-refresh").Return(refreshClaims("jti-refresh", refreshExpiry), nil)
	revoker.On("Revoke", mock.Anything, "jti-access", accessExpiry).Return(nil)
	revoker.On("Revoke", mock.Anything, "jti-refresh", refreshExpiry).Return(nil)

	err := uc.Execute(context.Background(), LogoutCommand{
		AccessToken:  "the-access",
		RefreshToken: "the-refresh",
	})

	require.NoError(t, err)
	revoker.AssertExpectations(t)
}

func TestLogoutUseCase_Execute_IgnoresUnparseableTokens(t *testing.T) {
	tokens := new(mockTokenIssuer)
	revoker := new(mockTokenRevoker)
	uc := NewLogoutUseCase(tokens, revoker, newTestLogger())

	tokens.On("Verify", "garbage").Return(nil, errors.New("token is malformed"))

	err := uc.Execute(context.Background(), LogoutCommand{AccessToken: "garbage"})

	require.NoError(t, err)
	revoker.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogoutUseCase_Execute_RevokeFailureStillSucceeds(t *testing.T) {
	tokens := new(mockTokenIssuer)
	revoker := new(mockTokenRevoker)
	uc := NewLogoutUseCase(tokens, revoker, newTestLogger())

	expiry := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	tokens.On("Verify", "the-refresh").Return(refreshClaims("jti-3", expiry), nil)
	revoker.On("Revoke", mock.Anything, "jti-3", expiry).Return(errors.New("redis unavailable"))

	err := uc.Execute(context.Background(), LogoutCommand{RefreshToken: "the-refresh"})

	require.NoError(t, err)
}
