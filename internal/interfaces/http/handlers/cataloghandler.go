package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calmora/internal/application/catalog/usecases"
	"calmora/internal/shared/logger"
	"calmora/internal/shared/utils"
)

// CatalogHandler serves public catalog browsing. Endpoints run under
// OptionalAuth; anonymous callers see every item with premium content marked
// locked.
type CatalogHandler struct {
	browseUC    *usecases.BrowseCatalogUseCase
	streamURLUC *usecases.StreamURLUseCase
	favoritesUC *usecases.FavoritesUseCase
	logger      logger.Interface
}

func NewCatalogHandler(
	browseUC *usecases.BrowseCatalogUseCase,
	streamURLUC *usecases.StreamURLUseCase,
	favoritesUC *usecases.FavoritesUseCase,
	logger logger.Interface,
) *CatalogHandler {
	return &CatalogHandler{
		browseUC:    browseUC,
		streamURLUC: streamURLUC,
		favoritesUC: favoritesUC,
		logger:      logger,
	}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	result, err := h.browseUC.ListCategories(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *CatalogHandler) ListTracks(c *gin.Context) {
	p := utils.ParsePagination(c)
	tracks, total, err := h.browseUC.ListTracks(c.Request.Context(),
		CurrentUserID(c), c.Query("category"), p.Offset(), p.PageSize)
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.ListSuccessResponse(c, tracks, total, p.Page, p.PageSize)
}

func (h *CatalogHandler) SearchTracks(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "search query is required")
		return
	}

	p := utils.ParsePagination(c)
	tracks, total, err := h.browseUC.Search(c.Request.Context(),
		CurrentUserID(c), query, p.Offset(), p.PageSize)
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.ListSuccessResponse(c, tracks, total, p.Page, p.PageSize)
}

func (h *CatalogHandler) GetTrack(c *gin.Context) {
	result, err := h.browseUC.GetTrack(c.Request.Context(), CurrentUserID(c), c.Param("sid"))
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *CatalogHandler) GetStreamURL(c *gin.Context) {
	result, err := h.streamURLUC.Execute(c.Request.Context(), CurrentUserID(c), c.Param("sid"))
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *CatalogHandler) AddFavorite(c *gin.Context) {
	created, err := h.favoritesUC.Add(c.Request.Context(), CurrentUserID(c), c.Param("sid"))
	if err != nil {
		RespondError(c, err)
		return
	}
	if created {
		utils.CreatedResponse(c, nil, "Track added to favorites")
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Track already in favorites", nil)
}

func (h *CatalogHandler) RemoveFavorite(c *gin.Context) {
	if err := h.favoritesUC.Remove(c.Request.Context(), CurrentUserID(c), c.Param("sid")); err != nil {
		RespondError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

func (h *CatalogHandler) ListFavorites(c *gin.Context) {
	result, err := h.favoritesUC.List(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}
