package authorization

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calmora/internal/shared/constants"
)

// RequireAdmin aborts with 403 unless the authenticated user is an admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := ParseUserRole(c.GetString(constants.ContextKeyUserRole))
		if !role.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"type": "forbidden", "message": "admin access required"},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCapability aborts with 403 unless the user's role holds cap.
func RequireCapability(cap Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := ParseUserRole(c.GetString(constants.ContextKeyUserRole))
		if !role.Can(cap) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"type": "forbidden", "message": "insufficient permissions"},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
