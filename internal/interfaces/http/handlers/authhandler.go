package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calmora/internal/application/user/usecases"
	"calmora/internal/shared/logger"
	"calmora/internal/shared/utils"
)

type AuthHandler struct {
	registerUC     *usecases.RegisterUseCase
	verifyUC       *usecases.VerifyAccountUseCase
	resendCodeUC   *usecases.ResendCodeUseCase
	loginUC        *usecases.LoginUseCase
	googleLoginUC  *usecases.GoogleLoginUseCase
	refreshTokenUC *usecases.RefreshTokenUseCase
	logoutUC       *usecases.LogoutUseCase
	logger         logger.Interface
}

func NewAuthHandler(
	registerUC *usecases.RegisterUseCase,
	verifyUC *usecases.VerifyAccountUseCase,
	resendCodeUC *usecases.ResendCodeUseCase,
	loginUC *usecases.LoginUseCase,
	googleLoginUC *usecases.GoogleLoginUseCase,
	refreshTokenUC *usecases.RefreshTokenUseCase,
	logoutUC *usecases.LogoutUseCase,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		registerUC:     registerUC,
		verifyUC:       verifyUC,
		resendCodeUC:   resendCodeUC,
		loginUC:        loginUC,
		googleLoginUC:  googleLoginUC,
		refreshTokenUC: refreshTokenUC,
		logoutUC:       logoutUC,
		logger:         logger,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

type VerifyRequest struct {
	Identity string `json:"identity" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

type ResendCodeRequest struct {
	Identity string `json:"identity" binding:"required"`
}

type LoginRequest struct {
	Identity string `json:"identity" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for register", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.registerUC.Execute(c.Request.Context(), usecases.RegisterCommand{
		Email:    req.Email,
		Phone:    req.Phone,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Account created, verification code sent")
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.verifyUC.Execute(c.Request.Context(), usecases.VerifyAccountCommand{
		Identity: req.Identity,
		Code:     req.Code,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Account verified", result)
}

func (h *AuthHandler) ResendCode(c *gin.Context) {
	var req ResendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.resendCodeUC.Execute(c.Request.Context(), usecases.ResendCodeCommand{
		Identity: req.Identity,
	}); err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "If the account exists, a code was sent", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.loginUC.Execute(c.Request.Context(), usecases.LoginCommand{
		Identity: req.Identity,
		Password: req.Password,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.googleLoginUC.Execute(c.Request.Context(), usecases.GoogleLoginCommand{
		Code: req.Code,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.refreshTokenUC.Execute(c.Request.Context(), usecases.RefreshTokenCommand{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	// body is optional; without a refresh token only the access token is
	// revoked
	_ = c.ShouldBindJSON(&req)

	if err := h.logoutUC.Execute(c.Request.Context(), usecases.LogoutCommand{
		AccessToken:  bearerTokenFromHeader(c),
		RefreshToken: req.RefreshToken,
	}); err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

func bearerTokenFromHeader(c *gin.Context) string {
	const prefix = "Bearer "
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > len(prefix) && authHeader[:len(prefix)] == prefix {
		return authHeader[len(prefix):]
	}
	return ""
}
