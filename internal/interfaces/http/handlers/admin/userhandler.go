package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"calmora/internal/application/user/usecases"
	"calmora/internal/shared/logger"
	"calmora/internal/shared/utils"
)

type UserHandler struct {
	usersUC *usecases.ManageUsersUseCase
	logger  logger.Interface
}

func NewUserHandler(usersUC *usecases.ManageUsersUseCase, log logger.Interface) *UserHandler {
	return &UserHandler{usersUC: usersUC, logger: log}
}

type BanUserRequest struct {
	Until  *time.Time `json:"until"`
	Reason string     `json:"reason" binding:"required"`
}

func (h *UserHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	users, total, err := h.usersUC.List(c.Request.Context(), p.Offset(), p.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.ListSuccessResponse(c, users, total, p.Page, p.PageSize)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.usersUC.Get(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", u)
}

func (h *UserHandler) Ban(c *gin.Context) {
	var req BanUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	u, err := h.usersUC.Ban(c.Request.Context(), usecases.BanUserCommand{
		UserSID: c.Param("sid"),
		Until:   req.Until,
		Reason:  req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "User banned", u)
}

func (h *UserHandler) Unban(c *gin.Context) {
	u, err := h.usersUC.Unban(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "User unbanned", u)
}
