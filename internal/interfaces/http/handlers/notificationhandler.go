package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calmora/internal/application/notification/usecases"
	"calmora/internal/shared/logger"
	"calmora/internal/shared/utils"
)

type NotificationHandler struct {
	listUC     *usecases.ListNotificationsUseCase
	markReadUC *usecases.MarkReadUseCase
	logger     logger.Interface
}

func NewNotificationHandler(
	listUC *usecases.ListNotificationsUseCase,
	markReadUC *usecases.MarkReadUseCase,
	logger logger.Interface,
) *NotificationHandler {
	return &NotificationHandler{
		listUC:     listUC,
		markReadUC: markReadUC,
		logger:     logger,
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	unreadOnly := c.Query("unread") == "true"

	result, err := h.listUC.Execute(c.Request.Context(), CurrentUserID(c), unreadOnly, p.Offset(), p.PageSize)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"items":        result.Notifications,
		"total":        result.Total,
		"unread_count": result.UnreadCount,
		"page":         p.Page,
		"page_size":    p.PageSize,
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.markReadUC.MarkOne(c.Request.Context(), CurrentUserID(c), c.Param("sid")); err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Notification marked as read", nil)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.markReadUC.MarkAll(c.Request.Context(), CurrentUserID(c)); err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "All notifications marked as read", nil)
}
