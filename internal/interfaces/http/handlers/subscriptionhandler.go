package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calmora/internal/application/subscription/usecases"
	"calmora/internal/shared/logger"
	"calmora/internal/shared/utils"
)

type SubscriptionHandler struct {
	listPackagesUC  *usecases.ListPackagesUseCase
	subscribeUC     *usecases.SubscribeUseCase
	cancelUC        *usecases.CancelSubscriptionUseCase
	renewUC         *usecases.RenewSubscriptionUseCase
	changePackageUC *usecases.ChangePackageUseCase
	statusUC        *usecases.GetSubscriptionUseCase
	validateCoupon  *usecases.ValidateCouponUseCase
	listPaymentsUC  *usecases.ListPaymentsUseCase
	logger          logger.Interface
}

func NewSubscriptionHandler(
	listPackagesUC *usecases.ListPackagesUseCase,
	subscribeUC *usecases.SubscribeUseCase,
	cancelUC *usecases.CancelSubscriptionUseCase,
	renewUC *usecases.RenewSubscriptionUseCase,
	changePackageUC *usecases.ChangePackageUseCase,
	statusUC *usecases.GetSubscriptionUseCase,
	validateCoupon *usecases.ValidateCouponUseCase,
	listPaymentsUC *usecases.ListPaymentsUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		listPackagesUC:  listPackagesUC,
		subscribeUC:     subscribeUC,
		cancelUC:        cancelUC,
		renewUC:         renewUC,
		changePackageUC: changePackageUC,
		statusUC:        statusUC,
		validateCoupon:  validateCoupon,
		listPaymentsUC:  listPaymentsUC,
		logger:          logger,
	}
}

type SubscribeRequest struct {
	PackageSID string `json:"package_sid" binding:"required"`
	CouponCode string `json:"coupon_code"`
	AutoRenew  *bool  `json:"auto_renew"`
}

type ChangePackageRequest struct {
	PackageSID string `json:"package_sid" binding:"required"`
}

type ValidateCouponRequest struct {
	Code       string `json:"code" binding:"required"`
	PackageSID string `json:"package_sid" binding:"required"`
}

func (h *SubscriptionHandler) ListPackages(c *gin.Context) {
	packages, err := h.listPackagesUC.Execute(c.Request.Context(), false)
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", packages)
}

func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	autoRenew := true
	if req.AutoRenew != nil {
		autoRenew = *req.AutoRenew
	}

	result, err := h.subscribeUC.Execute(c.Request.Context(), usecases.SubscribeCommand{
		UserID:     CurrentUserID(c),
		UserSID:    CurrentUserSID(c),
		PackageSID: req.PackageSID,
		CouponCode: req.CouponCode,
		AutoRenew:  autoRenew,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	if !result.Created {
		utils.SuccessResponse(c, http.StatusOK, "Already subscribed to this package", result)
		return
	}
	utils.CreatedResponse(c, result, "Subscription created")
}

func (h *SubscriptionHandler) Renew(c *gin.Context) {
	sub, err := h.renewUC.Execute(c.Request.Context(), usecases.RenewSubscriptionCommand{
		UserID:  CurrentUserID(c),
		UserSID: CurrentUserSID(c),
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Subscription renewed", sub)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	sub, err := h.cancelUC.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		UserID: CurrentUserID(c),
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Auto-renewal disabled", sub)
}

func (h *SubscriptionHandler) ChangePackage(c *gin.Context) {
	var req ChangePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	sub, err := h.changePackageUC.Execute(c.Request.Context(), usecases.ChangePackageCommand{
		UserID:        CurrentUserID(c),
		UserSID:       CurrentUserSID(c),
		NewPackageSID: req.PackageSID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Package changed", sub)
}

func (h *SubscriptionHandler) Status(c *gin.Context) {
	result, err := h.statusUC.Execute(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *SubscriptionHandler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	quote, err := h.validateCoupon.Execute(c.Request.Context(), usecases.ValidateCouponCommand{
		Code:       req.Code,
		PackageSID: req.PackageSID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", quote)
}

func (h *SubscriptionHandler) ListPayments(c *gin.Context) {
	p := utils.ParsePagination(c)
	payments, total, err := h.listPaymentsUC.Execute(c.Request.Context(), CurrentUserID(c), p.Offset(), p.PageSize)
	if err != nil {
		RespondError(c, err)
		return
	}
	utils.ListSuccessResponse(c, payments, total, p.Page, p.PageSize)
}
