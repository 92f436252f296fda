package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"calmora/internal/application/listening/usecases"
	"calmora/internal/shared/logger"
	"calmora/internal/shared/utils"
)

type SessionHandler struct {
	startUC  *usecases.StartSessionUseCase
	updateUC *usecases.UpdateSessionUseCase
	listUC   *usecases.ListSessionsUseCase
	statsUC  *usecases.StatsUseCase
	logger   logger.Interface
}

func NewSessionHandler(
	startUC *usecases.StartSessionUseCase,
	updateUC *usecases.UpdateSessionUseCase,
	listUC *usecases.ListSessionsUseCase,
	statsUC *usecases.StatsUseCase,
	logger logger.Interface,
) *SessionHandler {
	return &SessionHandler{
		startUC:  startUC,
		updateUC: updateUC,
		listUC:   listUC,
		statsUC:  statsUC,
		logger:   logger,
	}
}

type StartSessionRequest struct {
	TrackSID   string            `json:"track_sid" binding:"required"`
	ProgramSID string            `json:"program_sid"`
	DeviceInfo map[string]string `json:"device_info"`
}

type UpdatePositionRequest struct {
	PositionSeconds int `json:"position_seconds" binding:"min=0"`
}

type EndSessionRequest struct {
	Completed bool `json:"completed"`
}

func (h *SessionHandler) Start(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.startUC.Execute(c.Request.Context(), usecases.StartSessionCommand{
		UserID:     CurrentUserID(c),
		TrackSID:   req.TrackSID,
		ProgramSID: req.ProgramSID,
		DeviceInfo: req.DeviceInfo,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Session started")
}

func (h *SessionHandler) UpdatePosition(c *gin.Context) {
	var req UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateUC.UpdatePosition(c.Request.Context(), usecases.UpdatePositionCommand{
		UserID:          CurrentUserID(c),
		SessionSID:      c.Param("sid"),
		PositionSeconds: req.PositionSeconds,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *SessionHandler) End(c *gin.Context) {
	var req EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateUC.End(c.Request.Context(), usecases.EndSessionCommand{
		UserID:     CurrentUserID(c),
		SessionSID: c.Param("sid"),
		Completed:  req.Completed,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Session ended", result)
}

func (h *SessionHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)
	result, err := h.listUC.Execute(c.Request.Context(), CurrentUserID(c), p.Offset(), p.PageSize)
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.ListSuccessResponse(c, result.Sessions, result.Total, p.Page, p.PageSize)
}

// Stats serves the user's listening statistics. The range defaults to the
// trailing 30 days.
func (h *SessionHandler) Stats(c *gin.Context) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
			return
		}
		// inclusive end of day
		to = parsed.AddDate(0, 0, 1)
	}

	result, err := h.statsUC.UserStats(c.Request.Context(), usecases.StatsQuery{
		UserID:      CurrentUserID(c),
		Granularity: c.Query("granularity"),
		From:        from,
		To:          to,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Patterns serves the user's listening profile (top categories, peak hours,
// averages) over the trailing 90 days.
func (h *SessionHandler) Patterns(c *gin.Context) {
	now := time.Now().UTC()
	result, err := h.statsUC.Patterns(c.Request.Context(), CurrentUserID(c), now.AddDate(0, 0, -90), now)
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}
