package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartHandler handles shopping cart endpoints
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// AddCartItemRequest represents the request body for adding a product to the cart
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=99"`
}

// UpdateCartItemRequest represents the request body for changing a line quantity
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=99"`
}

// CartItemResponse represents a cart line in responses
type CartItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku,omitempty"`
	Name        string          `json:"name,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	InStock     bool            `json:"in_stock"`
	Unavailable bool            `json:"unavailable"`
	AddedAt     time.Time       `json:"added_at"`
}

// CartResponse represents the cart in responses
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
}

func toCartResponse(info *cartapp.CartInfo) CartResponse {
	items := make([]CartItemResponse, len(info.Items))
	for i, item := range info.Items {
		items[i] = CartItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			SKU:         item.SKU,
			Name:        item.Name,
			ImageURL:    item.ImageURL,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
			InStock:     item.InStock,
			Unavailable: item.Unavailable,
			AddedAt:     item.AddedAt,
		}
	}
	return CartResponse{
		Items:     items,
		ItemCount: info.ItemCount,
		Subtotal:  info.Subtotal,
	}
}

// Get godoc
// @Summary      Get own cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=CartResponse}
// @Security     BearerAuth
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCartResponse(cart))
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Description  Adding a product already in the cart merges quantities on the existing line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body AddCartItemRequest true "Product and quantity"
// @Success      200 {object} dto.Response{data=CartResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), cartapp.AddItemInput{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCartResponse(cart))
}

// UpdateItem godoc
// @Summary      Change a cart line quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body UpdateCartItemRequest true "New quantity"
// @Success      200 {object} dto.Response{data=CartResponse}
// @Security     BearerAuth
// @Router       /cart/items/{id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	itemID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), cartapp.UpdateItemInput{
		UserID:   userID,
		ItemID:   itemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCartResponse(cart))
}

// RemoveItem godoc
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=CartResponse}
// @Security     BearerAuth
// @Router       /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	itemID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCartResponse(cart))
}

// Clear godoc
// @Summary      Empty the cart
// @Tags         cart
// @Success      204
// @Security     BearerAuth
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
