package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"calmora/internal/application/subscription/usecases"
	"calmora/internal/shared/logger"
	"calmora/internal/shared/utils"
)

// PackageHandler covers admin package and coupon maintenance.
type PackageHandler struct {
	packagesUC     *usecases.ManagePackagesUseCase
	couponsUC      *usecases.ManageCouponsUseCase
	listPackagesUC *usecases.ListPackagesUseCase
	logger         logger.Interface
}

func NewPackageHandler(
	packagesUC *usecases.ManagePackagesUseCase,
	couponsUC *usecases.ManageCouponsUseCase,
	listPackagesUC *usecases.ListPackagesUseCase,
	log logger.Interface,
) *PackageHandler {
	return &PackageHandler{
		packagesUC:     packagesUC,
		couponsUC:      couponsUC,
		listPackagesUC: listPackagesUC,
		logger:         log,
	}
}

type CreatePackageRequest struct {
	Name               string   `json:"name" binding:"required"`
	Type               string   `json:"type" binding:"required,oneof=basic standard premium"`
	Price              uint64   `json:"price" binding:"required"`
	Currency           string   `json:"currency" binding:"required,len=3"`
	PeriodUnit         string   `json:"period_unit" binding:"required,oneof=day month year"`
	PeriodCount        int      `json:"period_count" binding:"required,min=1"`
	DiscountPercentage int      `json:"discount_percentage" binding:"min=0,max=100"`
	Features           []string `json:"features"`
	DisplayOrder       int      `json:"display_order"`
}

type UpdatePackageRequest struct {
	Name               *string  `json:"name"`
	Price              *uint64  `json:"price"`
	Currency           *string  `json:"currency"`
	DiscountPercentage *int     `json:"discount_percentage"`
	Features           []string `json:"features"`
	DisplayOrder       *int     `json:"display_order"`
	Active             *bool    `json:"active"`
}

type CreateCouponRequest struct {
	Code          string    `json:"code" binding:"required"`
	DiscountType  string    `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue uint64    `json:"discount_value" binding:"required"`
	MaxUses       *int      `json:"max_uses"`
	ValidFrom     time.Time `json:"valid_from" binding:"required"`
	ValidUntil    time.Time `json:"valid_until" binding:"required"`
	PackageSIDs   []string  `json:"package_sids"`
}

func (h *PackageHandler) ListPackages(c *gin.Context) {
	packages, err := h.listPackagesUC.Execute(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", packages)
}

func (h *PackageHandler) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	pkg, err := h.packagesUC.Create(c.Request.Context(), usecases.CreatePackageCommand{
		Name:               req.Name,
		Type:               req.Type,
		Price:              req.Price,
		Currency:           req.Currency,
		PeriodUnit:         req.PeriodUnit,
		PeriodCount:        req.PeriodCount,
		DiscountPercentage: req.DiscountPercentage,
		Features:           req.Features,
		DisplayOrder:       req.DisplayOrder,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, pkg, "Package created")
}

func (h *PackageHandler) UpdatePackage(c *gin.Context) {
	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	pkg, err := h.packagesUC.Update(c.Request.Context(), usecases.UpdatePackageCommand{
		SID:                c.Param("sid"),
		Name:               req.Name,
		Price:              req.Price,
		Currency:           req.Currency,
		DiscountPercentage: req.DiscountPercentage,
		Features:           req.Features,
		DisplayOrder:       req.DisplayOrder,
		Active:             req.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Package updated", pkg)
}

func (h *PackageHandler) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	coupon, err := h.couponsUC.Create(c.Request.Context(), usecases.CreateCouponCommand{
		Code:          req.Code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MaxUses:       req.MaxUses,
		ValidFrom:     req.ValidFrom,
		ValidUntil:    req.ValidUntil,
		PackageSIDs:   req.PackageSIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, coupon, "Coupon created")
}

func (h *PackageHandler) ListCoupons(c *gin.Context) {
	p := utils.ParsePagination(c)
	coupons, total, err := h.couponsUC.List(c.Request.Context(), p.Offset(), p.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.ListSuccessResponse(c, coupons, total, p.Page, p.PageSize)
}

func (h *PackageHandler) DeactivateCoupon(c *gin.Context) {
	if err := h.couponsUC.Deactivate(c.Request.Context(), c.Param("sid")); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Coupon deactivated", nil)
}
