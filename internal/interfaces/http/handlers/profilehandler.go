package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userdto "calmora/internal/application/user/dto"
	"calmora/internal/application/user/usecases"
	"calmora/internal/shared/logger"
	"calmora/internal/shared/utils"
)

type ProfileHandler struct {
	profileUC     *usecases.ProfileUseCase
	deviceTokenUC *usecases.DeviceTokenUseCase
	logger        logger.Interface
}

func NewProfileHandler(
	profileUC *usecases.ProfileUseCase,
	deviceTokenUC *usecases.DeviceTokenUseCase,
	logger logger.Interface,
) *ProfileHandler {
	return &ProfileHandler{
		profileUC:     profileUC,
		deviceTokenUC: deviceTokenUC,
		logger:        logger,
	}
}

type UpdateProfileRequest struct {
	Name        *string                       `json:"name"`
	NotifyPrefs *userdto.NotificationPrefsDTO `json:"notify_prefs"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type DeviceTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required,oneof=ios android web"`
}

func (h *ProfileHandler) Get(c *gin.Context) {
	result, err := h.profileUC.Get(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.profileUC.Update(c.Request.Context(), usecases.UpdateProfileCommand{
		UserID:      CurrentUserID(c),
		Name:        req.Name,
		NotifyPrefs: req.NotifyPrefs,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Profile updated", result)
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.profileUC.ChangePassword(c.Request.Context(), usecases.ChangePasswordCommand{
		UserID:      CurrentUserID(c),
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Password changed", nil)
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.profileUC.Delete(c.Request.Context(), CurrentUserID(c)); err != nil {
		RespondError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

func (h *ProfileHandler) RegisterDeviceToken(c *gin.Context) {
	var req DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deviceTokenUC.Register(c.Request.Context(), usecases.RegisterDeviceTokenCommand{
		UserID:   CurrentUserID(c),
		Token:    req.Token,
		Platform: req.Platform,
	}); err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Device registered", nil)
}

func (h *ProfileHandler) RemoveDeviceToken(c *gin.Context) {
	token := c.Param("token")
	if err := h.deviceTokenUC.Remove(c.Request.Context(), CurrentUserID(c), token); err != nil {
		RespondError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
