package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// CouponHandler handles coupon endpoints
type CouponHandler struct {
	BaseHandler
	couponService *promotionapp.CouponService
	cartService   *cartapp.CartService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(couponService *promotionapp.CouponService, cartService *cartapp.CartService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		cartService:   cartService,
	}
}

// CreateCouponRequest represents the request body for creating a coupon
type CreateCouponRequest struct {
	Code        string          `json:"code" binding:"required,min=3,max=50"`
	Type        string          `json:"type" binding:"required,oneof=percent fixed"`
	Value       decimal.Decimal `json:"value" binding:"required"`
	MinSubtotal decimal.Decimal `json:"min_subtotal"`
	UsageLimit  int             `json:"usage_limit" binding:"omitempty,min=0"`
	StartsAt    time.Time       `json:"starts_at" binding:"required"`
	ExpiresAt   time.Time       `json:"expires_at" binding:"required"`
}

// ValidateCouponRequest represents the request body for checking a coupon
type ValidateCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// UpdateCouponRequest represents the request body for changing a coupon's terms
type UpdateCouponRequest struct {
	Value       decimal.Decimal `json:"value" binding:"required"`
	MinSubtotal decimal.Decimal `json:"min_subtotal"`
	UsageLimit  int             `json:"usage_limit" binding:"omitempty,min=0"`
	StartsAt    time.Time       `json:"starts_at" binding:"required"`
	ExpiresAt   time.Time       `json:"expires_at" binding:"required"`
}

// ListCouponsRequest represents admin filters for the coupon list
type ListCouponsRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=active disabled"`
	Type   string `form:"type" binding:"omitempty,oneof=percent fixed"`
}

// CouponResponse represents a coupon in admin responses
type CouponResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	MinSubtotal decimal.Decimal `json:"min_subtotal"`
	UsageLimit  int             `json:"usage_limit"`
	UsageCount  int             `json:"usage_count"`
	StartsAt    time.Time       `json:"starts_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CouponValidationResponse represents a coupon validity check result
type CouponValidationResponse struct {
	Code     string          `json:"code"`
	Valid    bool            `json:"valid"`
	Reason   string          `json:"reason,omitempty"`
	Discount decimal.Decimal `json:"discount"`
}

func toCouponResponse(info promotionapp.CouponInfo) CouponResponse {
	return CouponResponse{
		ID:          info.ID,
		Code:        info.Code,
		Type:        info.Type,
		Value:       info.Value,
		MinSubtotal: info.MinSubtotal,
		UsageLimit:  info.UsageLimit,
		UsageCount:  info.UsageCount,
		StartsAt:    info.StartsAt,
		ExpiresAt:   info.ExpiresAt,
		Status:      info.Status,
		CreatedAt:   info.CreatedAt,
	}
}

// Validate godoc
// @Summary      Check whether a coupon applies to the caller's cart
// @Description  Returns validity and the discount it would grant against the
// @Description  authenticated user's current cart subtotal. An unknown or
// @Description  inapplicable coupon is a valid 200 response with valid=false.
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        request body ValidateCouponRequest true "Coupon code"
// @Success      200 {object} dto.Response{data=CouponValidationResponse}
// @Security     BearerAuth
// @Router       /coupons/validate [post]
func (h *CouponHandler) Validate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	// The subtotal comes from the caller's own cart, never the request
	userCart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.couponService.ValidateCoupon(c.Request.Context(), req.Code, userCart.Subtotal)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CouponValidationResponse{
		Code:     result.Code,
		Valid:    result.Valid,
		Reason:   result.Reason,
		Discount: result.Discount,
	})
}

// Create godoc
// @Summary      Create a coupon (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body CreateCouponRequest true "Coupon fields"
// @Success      201 {object} dto.Response{data=CouponResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	coupon, err := h.couponService.CreateCoupon(c.Request.Context(), promotionapp.CreateCouponInput{
		Code:        req.Code,
		Type:        req.Type,
		Value:       req.Value,
		MinSubtotal: req.MinSubtotal,
		UsageLimit:  req.UsageLimit,
		StartsAt:    req.StartsAt,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toCouponResponse(*coupon))
}

// Get godoc
// @Summary      Get a coupon (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=CouponResponse}
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	couponID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	coupon, err := h.couponService.GetCoupon(c.Request.Context(), couponID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCouponResponse(*coupon))
}

// Update godoc
// @Summary      Update a coupon's terms (admin)
// @Description  Changes value, minimum subtotal, usage limit, and validity
// @Description  window. The code and type are immutable.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body UpdateCouponRequest true "Coupon fields"
// @Success      200 {object} dto.Response{data=CouponResponse}
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	couponID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	coupon, err := h.couponService.UpdateCoupon(c.Request.Context(), couponID, promotionapp.UpdateCouponInput{
		Value:       req.Value,
		MinSubtotal: req.MinSubtotal,
		UsageLimit:  req.UsageLimit,
		StartsAt:    req.StartsAt,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCouponResponse(*coupon))
}

// List godoc
// @Summary      List coupons (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=[]CouponResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	var req ListCouponsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.couponService.ListCoupons(c.Request.Context(), promotionapp.ListCouponsInput{
		Status:   req.Status,
		Type:     req.Type,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	coupons := make([]CouponResponse, len(result.Coupons))
	for i, cp := range result.Coupons {
		coupons[i] = toCouponResponse(cp)
	}

	h.SuccessWithMeta(c, coupons, result.Total, result.Page, result.PageSize)
}

// Enable godoc
// @Summary      Enable a coupon (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/coupons/{id}/enable [post]
func (h *CouponHandler) Enable(c *gin.Context) {
	couponID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.couponService.EnableCoupon(c.Request.Context(), couponID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Coupon enabled"})
}

// Disable godoc
// @Summary      Disable a coupon (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/coupons/{id}/disable [post]
func (h *CouponHandler) Disable(c *gin.Context) {
	couponID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.couponService.DisableCoupon(c.Request.Context(), couponID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Coupon disabled"})
}

// Delete godoc
// @Summary      Delete an unredeemed coupon (admin)
// @Tags         admin
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	couponID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.couponService.DeleteCoupon(c.Request.Context(), couponID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
