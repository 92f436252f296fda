package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calmora/internal/application/catalog/usecases"
	"calmora/internal/shared/logger"
	"calmora/internal/shared/utils"
)

// CatalogHandler covers the admin side of catalog maintenance: categories,
// tracks, curated programs and the media that backs them.
type CatalogHandler struct {
	categoriesUC *usecases.ManageCategoriesUseCase
	tracksUC     *usecases.ManageTracksUseCase
	programsUC   *usecases.ManageProgramsUseCase
	mediaUC      *usecases.UploadMediaUseCase
	logger       logger.Interface
}

func NewCatalogHandler(
	categoriesUC *usecases.ManageCategoriesUseCase,
	tracksUC *usecases.ManageTracksUseCase,
	programsUC *usecases.ManageProgramsUseCase,
	mediaUC *usecases.UploadMediaUseCase,
	log logger.Interface,
) *CatalogHandler {
	return &CatalogHandler{
		categoriesUC: categoriesUC,
		tracksUC:     tracksUC,
		programsUC:   programsUC,
		mediaUC:      mediaUC,
		logger:       log,
	}
}

type CreateCategoryRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	ImageKey     string `json:"image_key"`
	DisplayOrder int    `json:"display_order"`
}

type UpdateCategoryRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	ImageKey     *string `json:"image_key"`
	DisplayOrder *int    `json:"display_order"`
	Active       *bool   `json:"active"`
}

type CreateTrackRequest struct {
	CategorySID     string `json:"category_sid" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	AudioKey        string `json:"audio_key" binding:"required"`
	ImageKey        string `json:"image_key"`
	DurationSeconds int    `json:"duration_seconds" binding:"required,min=1"`
	ContentTier     string `json:"content_tier" binding:"required,oneof=free premium"`
}

type UpdateTrackRequest struct {
	CategorySID     *string `json:"category_sid"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	AudioKey        *string `json:"audio_key"`
	ImageKey        *string `json:"image_key"`
	DurationSeconds *int    `json:"duration_seconds"`
	ContentTier     *string `json:"content_tier"`
	Active          *bool   `json:"active"`
}

type ProgramItemRequest struct {
	TrackSID string `json:"track_sid" binding:"required"`
	Order    int    `json:"order" binding:"min=1"`
}

type CreateProgramRequest struct {
	CategorySID string               `json:"category_sid" binding:"required"`
	Title       string               `json:"title" binding:"required"`
	Description string               `json:"description"`
	ImageKey    string               `json:"image_key"`
	ContentTier string               `json:"content_tier" binding:"required,oneof=free premium"`
	Items       []ProgramItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateProgramRequest struct {
	CategorySID *string              `json:"category_sid"`
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	ImageKey    *string              `json:"image_key"`
	ContentTier *string              `json:"content_tier"`
	Items       []ProgramItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	category, err := h.categoriesUC.Create(c.Request.Context(), usecases.CreateCategoryCommand{
		Name:         req.Name,
		Description:  req.Description,
		ImageKey:     req.ImageKey,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, category, "Category created")
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	category, err := h.categoriesUC.Update(c.Request.Context(), usecases.UpdateCategoryCommand{
		SID:          c.Param("sid"),
		Name:         req.Name,
		Description:  req.Description,
		ImageKey:     req.ImageKey,
		DisplayOrder: req.DisplayOrder,
		Active:       req.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Category updated", category)
}

func (h *CatalogHandler) CreateTrack(c *gin.Context) {
	var req CreateTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	track, err := h.tracksUC.Create(c.Request.Context(), usecases.CreateTrackCommand{
		CategorySID:     req.CategorySID,
		Title:           req.Title,
		Description:     req.Description,
		AudioKey:        req.AudioKey,
		ImageKey:        req.ImageKey,
		DurationSeconds: req.DurationSeconds,
		ContentTier:     req.ContentTier,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, track, "Track created")
}

func (h *CatalogHandler) UpdateTrack(c *gin.Context) {
	var req UpdateTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	track, err := h.tracksUC.Update(c.Request.Context(), usecases.UpdateTrackCommand{
		SID:             c.Param("sid"),
		CategorySID:     req.CategorySID,
		Title:           req.Title,
		Description:     req.Description,
		AudioKey:        req.AudioKey,
		ImageKey:        req.ImageKey,
		DurationSeconds: req.DurationSeconds,
		ContentTier:     req.ContentTier,
		Active:          req.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Track updated", track)
}

func (h *CatalogHandler) CreateProgram(c *gin.Context) {
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	program, err := h.programsUC.Create(c.Request.Context(), usecases.CreateProgramCommand{
		CategorySID: req.CategorySID,
		Title:       req.Title,
		Description: req.Description,
		ImageKey:    req.ImageKey,
		ContentTier: req.ContentTier,
		Items:       toItemInputs(req.Items),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, program, "Program created")
}

func (h *CatalogHandler) UpdateProgram(c *gin.Context) {
	var req UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.UpdateProgramCommand{
		SID:         c.Param("sid"),
		CategorySID: req.CategorySID,
		Title:       req.Title,
		Description: req.Description,
		ImageKey:    req.ImageKey,
		ContentTier: req.ContentTier,
	}
	if req.Items != nil {
		cmd.Items = toItemInputs(req.Items)
	}

	program, err := h.programsUC.Update(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Program updated", program)
}

// UploadMedia accepts the raw media body; the kind comes from the route and
// the format from the Content-Type header.
func (h *CatalogHandler) UploadMedia(c *gin.Context) {
	kind := c.Param("kind")
	contentType := c.ContentType()

	result, err := h.mediaUC.Execute(c.Request.Context(), usecases.UploadMediaCommand{
		Kind:        kind,
		ContentType: contentType,
		Body:        c.Request.Body,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Media uploaded")
}

func (h *CatalogHandler) DeleteMedia(c *gin.Context) {
	key := c.Param("kind") + "/" + c.Param("name")
	if err := h.mediaUC.Delete(c.Request.Context(), key); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toItemInputs(items []ProgramItemRequest) []usecases.ProgramItemInput {
	inputs := make([]usecases.ProgramItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, usecases.ProgramItemInput{TrackSID: item.TrackSID, Order: item.Order})
	}
	return inputs
}
