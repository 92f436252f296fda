package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calmora/internal/application/catalog/usecases"
	listeningUC "calmora/internal/application/listening/usecases"
	"calmora/internal/shared/logger"
	"calmora/internal/shared/utils"
)

type ProgramHandler struct {
	browseUC       *usecases.BrowseProgramsUseCase
	customUC       *usecases.CustomProgramsUseCase
	enrollUC       *listeningUC.EnrollUseCase
	markCompleteUC *listeningUC.MarkTrackCompleteUseCase
	logger         logger.Interface
}

func NewProgramHandler(
	browseUC *usecases.BrowseProgramsUseCase,
	customUC *usecases.CustomProgramsUseCase,
	enrollUC *listeningUC.EnrollUseCase,
	markCompleteUC *listeningUC.MarkTrackCompleteUseCase,
	logger logger.Interface,
) *ProgramHandler {
	return &ProgramHandler{
		browseUC:       browseUC,
		customUC:       customUC,
		enrollUC:       enrollUC,
		markCompleteUC: markCompleteUC,
		logger:         logger,
	}
}

type CreateCustomProgramRequest struct {
	Title     string   `json:"title" binding:"required"`
	TrackSIDs []string `json:"track_sids"`
}

type UpdateCustomProgramRequest struct {
	Title     *string  `json:"title"`
	TrackSIDs []string `json:"track_sids"`
}

type MarkTrackCompleteRequest struct {
	TrackSID string `json:"track_sid" binding:"required"`
}

func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	p := utils.ParsePagination(c)
	programs, total, err := h.browseUC.List(c.Request.Context(),
		CurrentUserID(c), c.Query("category"), p.Offset(), p.PageSize)
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.ListSuccessResponse(c, programs, total, p.Page, p.PageSize)
}

func (h *ProgramHandler) GetProgram(c *gin.Context) {
	result, err := h.browseUC.Get(c.Request.Context(), CurrentUserID(c), c.Param("sid"))
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *ProgramHandler) Enroll(c *gin.Context) {
	result, err := h.enrollUC.Execute(c.Request.Context(), listeningUC.EnrollCommand{
		UserID:     CurrentUserID(c),
		ProgramSID: c.Param("sid"),
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	if !result.Created {
		utils.SuccessResponse(c, http.StatusOK, "Already enrolled in this program", result)
		return
	}
	utils.CreatedResponse(c, result, "Enrolled in program")
}

func (h *ProgramHandler) ListEnrollments(c *gin.Context) {
	p := utils.ParsePagination(c)
	enrollments, total, err := h.enrollUC.List(c.Request.Context(), CurrentUserID(c), p.Offset(), p.PageSize)
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.ListSuccessResponse(c, enrollments, total, p.Page, p.PageSize)
}

func (h *ProgramHandler) MarkTrackComplete(c *gin.Context) {
	var req MarkTrackCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.markCompleteUC.Execute(c.Request.Context(), listeningUC.MarkTrackCompleteCommand{
		UserID:     CurrentUserID(c),
		ProgramSID: c.Param("sid"),
		TrackSID:   req.TrackSID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Track marked complete", result)
}

func (h *ProgramHandler) CreateCustomProgram(c *gin.Context) {
	var req CreateCustomProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.customUC.Create(c.Request.Context(), usecases.CreateCustomProgramCommand{
		UserID:    CurrentUserID(c),
		Title:     req.Title,
		TrackSIDs: req.TrackSIDs,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Custom program created")
}

func (h *ProgramHandler) UpdateCustomProgram(c *gin.Context) {
	var req UpdateCustomProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.customUC.Update(c.Request.Context(), usecases.UpdateCustomProgramCommand{
		UserID:    CurrentUserID(c),
		SID:       c.Param("sid"),
		Title:     req.Title,
		TrackSIDs: req.TrackSIDs,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Custom program updated", result)
}

func (h *ProgramHandler) DeleteCustomProgram(c *gin.Context) {
	if err := h.customUC.Delete(c.Request.Context(), CurrentUserID(c), c.Param("sid")); err != nil {
		RespondError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

func (h *ProgramHandler) ListCustomPrograms(c *gin.Context) {
	result, err := h.customUC.List(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}
