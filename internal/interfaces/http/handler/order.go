package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles checkout and order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CheckoutRequest represents the request body for placing an order
type CheckoutRequest struct {
	AddressID  uuid.UUID `json:"address_id" binding:"required"`
	CouponCode string    `json:"coupon_code" binding:"omitempty,max=50"`
}

// CancelOrderRequest represents the request body for cancelling an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ListOrdersRequest represents admin filters for the order list
type ListOrdersRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=pending paid shipped delivered cancelled"`
	UserID string `form:"user_id" binding:"omitempty,uuid"`
}

// OrderItemResponse represents one order line in responses
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// ShippingAddressResponse represents the delivery address snapshot
type ShippingAddressResponse struct {
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// OrderResponse represents an order in responses
type OrderResponse struct {
	ID           uuid.UUID               `json:"id"`
	OrderNumber  string                  `json:"order_number"`
	UserID       uuid.UUID               `json:"user_id"`
	Items        []OrderItemResponse     `json:"items"`
	Subtotal     decimal.Decimal         `json:"subtotal"`
	Discount     decimal.Decimal         `json:"discount"`
	ShippingFee  decimal.Decimal         `json:"shipping_fee"`
	Total        decimal.Decimal         `json:"total"`
	CouponCode   string                  `json:"coupon_code,omitempty"`
	Status       string                  `json:"status"`
	ShipTo       ShippingAddressResponse `json:"ship_to"`
	PaidAt       *time.Time              `json:"paid_at,omitempty"`
	ShippedAt    *time.Time              `json:"shipped_at,omitempty"`
	DeliveredAt  *time.Time              `json:"delivered_at,omitempty"`
	CancelledAt  *time.Time              `json:"cancelled_at,omitempty"`
	CancelReason string                  `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

func toOrderResponse(info orderapp.OrderInfo) OrderResponse {
	items := make([]OrderItemResponse, len(info.Items))
	for i, item := range info.Items {
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID,
			SKU:         item.SKU,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		}
	}

	return OrderResponse{
		ID:          info.ID,
		OrderNumber: info.OrderNumber,
		UserID:      info.UserID,
		Items:       items,
		Subtotal:    info.Subtotal,
		Discount:    info.Discount,
		ShippingFee: info.ShippingFee,
		Total:       info.Total,
		CouponCode:  info.CouponCode,
		Status:      info.Status,
		ShipTo: ShippingAddressResponse{
			Recipient:  info.ShipTo.Recipient,
			Phone:      info.ShipTo.Phone,
			Line1:      info.ShipTo.Line1,
			Line2:      info.ShipTo.Line2,
			City:       info.ShipTo.City,
			State:      info.ShipTo.State,
			PostalCode: info.ShipTo.PostalCode,
			Country:    info.ShipTo.Country,
		},
		PaidAt:       info.PaidAt,
		ShippedAt:    info.ShippedAt,
		DeliveredAt:  info.DeliveredAt,
		CancelledAt:  info.CancelledAt,
		CancelReason: info.CancelReason,
		CreatedAt:    info.CreatedAt,
	}
}

// Checkout godoc
// @Summary      Place an order from the cart
// @Description  Charges the whole cart against the chosen address, applying an
// @Description  optional coupon. The cart is emptied on success.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body CheckoutRequest true "Address and optional coupon"
// @Success      201 {object} dto.Response{data=OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), orderapp.CheckoutInput{
		UserID:     userID,
		AddressID:  req.AddressID,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toOrderResponse(*order))
}

// ListMine godoc
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.Response{data=[]OrderResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.ListMyOrders(c.Request.Context(), userID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toOrderResponses(result.Orders), result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get an order
// @Description  Users see only their own orders. Admins see any order.
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.Response{data=OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID, userID, middleware.IsJWTAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(*order))
}

// Cancel godoc
// @Summary      Cancel an order
// @Description  Cancelling restores stock for each line. Only pending and paid
// @Description  orders can be cancelled.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body CancelOrderRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), orderapp.CancelOrderInput{
		UserID:  userID,
		OrderID: orderID,
		Reason:  req.Reason,
		IsAdmin: middleware.IsJWTAdmin(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(*order))
}

// List godoc
// @Summary      List all orders (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=[]OrderResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var req ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	input := orderapp.ListOrdersInput{
		Status:   req.Status,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			h.BadRequest(c, "Invalid user_id")
			return
		}
		input.UserID = &userID
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toOrderResponses(result.Orders), result.Total, result.Page, result.PageSize)
}

// MarkPaid godoc
// @Summary      Mark an order as paid (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/pay [post]
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	h.applyTransition(c, h.orderService.MarkPaid)
}

// MarkShipped godoc
// @Summary      Mark an order as shipped (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/ship [post]
func (h *OrderHandler) MarkShipped(c *gin.Context) {
	h.applyTransition(c, h.orderService.MarkShipped)
}

// MarkDelivered godoc
// @Summary      Mark an order as delivered (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/deliver [post]
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	h.applyTransition(c, h.orderService.MarkDelivered)
}

func (h *OrderHandler) applyTransition(c *gin.Context, transition func(ctx context.Context, orderID uuid.UUID) (*orderapp.OrderInfo, error)) {
	orderID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	order, err := transition(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(*order))
}

func toOrderResponses(infos []orderapp.OrderInfo) []OrderResponse {
	resp := make([]OrderResponse, len(infos))
	for i, info := range infos {
		resp[i] = toOrderResponse(info)
	}
	return resp
}
