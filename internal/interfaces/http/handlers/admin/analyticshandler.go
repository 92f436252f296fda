package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	listeningUC "calmora/internal/application/listening/usecases"
	notificationUC "calmora/internal/application/notification/usecases"
	"calmora/internal/shared/logger"
	"calmora/internal/shared/utils"
)

// AnalyticsHandler serves platform-wide listening analytics and the
// announcement broadcast endpoint.
type AnalyticsHandler struct {
	statsUC    *listeningUC.StatsUseCase
	announceUC *notificationUC.AnnounceUseCase
	logger     logger.Interface
}

func NewAnalyticsHandler(
	statsUC *listeningUC.StatsUseCase,
	announceUC *notificationUC.AnnounceUseCase,
	log logger.Interface,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		statsUC:    statsUC,
		announceUC: announceUC,
		logger:     log,
	}
}

type AnnounceRequest struct {
	Title string            `json:"title" binding:"required"`
	Body  string            `json:"body" binding:"required"`
	Data  map[string]string `json:"data"`
}

// PopularTracks serves play counts over a date range, defaulting to the
// trailing 30 days.
func (h *AnalyticsHandler) PopularTracks(c *gin.Context) {
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
		to = parsed.AddDate(0, 0, 1)
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	tracks, err := h.statsUC.PopularTracks(c.Request.Context(), from, to, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", tracks)
}

func (h *AnalyticsHandler) Announce(c *gin.Context) {
	var req AnnounceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	count, err := h.announceUC.Execute(c.Request.Context(), notificationUC.AnnounceCommand{
		Title: req.Title,
		Body:  req.Body,
		Data:  req.Data,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Announcement queued", gin.H{"recipients": count})
}
