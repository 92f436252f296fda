package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"calmora/internal/domain/user"
	"calmora/internal/infrastructure/auth"
	"calmora/internal/shared/constants"
	"calmora/internal/shared/logger"
	"calmora/internal/shared/utils"
)

// RevocationChecker reports whether a token ID has been blacklisted.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware authenticates requests with a Bearer access token. The user
// record is loaded per request so bans and deletions take effect immediately
// instead of waiting for token expiry.
type AuthMiddleware struct {
	jwtService *auth.JWTService
	revocation RevocationChecker
	userRepo   user.Repository
	logger     logger.Interface
}

func NewAuthMiddleware(
	jwtService *auth.JWTService,
	revocation RevocationChecker,
	userRepo user.Repository,
	logger logger.Interface,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		revocation: revocation,
		userRepo:   userRepo,
		logger:     logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		u, role, ok := m.authenticate(c, token)
		if !ok {
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, u.ID())
		c.Set(constants.ContextKeyUserSID, u.SID())
		c.Set(constants.ContextKeyUserRole, role)
		c.Next()
	}
}

// OptionalAuth populates the user context when a valid token is present and
// stays silent otherwise. Anonymous requests see free-tier content only.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil || claims.TokenType != auth.TokenTypeAccess {
			c.Next()
			return
		}
		if revoked, err := m.revocation.IsRevoked(c.Request.Context(), claims.ID); err != nil || revoked {
			c.Next()
			return
		}
		u, err := m.userRepo.GetBySID(c.Request.Context(), claims.UserSID)
		if err != nil || u == nil || u.CanAuthenticateAt(time.Now().UTC()) != nil {
			c.Next()
			return
		}

		c.Set(constants.ContextKeyUserID, u.ID())
		c.Set(constants.ContextKeyUserSID, u.SID())
		c.Set(constants.ContextKeyUserRole, string(claims.Role))
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, token string) (*user.User, string, bool) {
	claims, err := m.jwtService.Verify(token)
	if err != nil {
		m.logger.Warnw("failed to verify token", "error", err)
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
		return nil, "", false
	}
	if claims.TokenType != auth.TokenTypeAccess {
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid token type")
		return nil, "", false
	}

	revoked, err := m.revocation.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		m.logger.Errorw("failed to check token revocation", "error", err)
		utils.ErrorResponse(c, http.StatusUnauthorized, "unable to validate token")
		return nil, "", false
	}
	if revoked {
		utils.ErrorResponse(c, http.StatusUnauthorized, "token has been revoked")
		return nil, "", false
	}

	u, err := m.userRepo.GetBySID(c.Request.Context(), claims.UserSID)
	if err != nil {
		m.logger.Errorw("failed to load user for token", "error", err, "user_sid", claims.UserSID)
		utils.ErrorResponse(c, http.StatusUnauthorized, "unable to validate token")
		return nil, "", false
	}
	if u == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "account no longer exists")
		return nil, "", false
	}
	if err := u.CanAuthenticateAt(time.Now().UTC()); err != nil {
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
		return nil, "", false
	}

	return u, string(claims.Role), true
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
