package admin

import (
	"github.com/gin-gonic/gin"

	"calmora/internal/interfaces/http/handlers"
)

func respondError(c *gin.Context, err error) {
	handlers.RespondError(c, err)
}
