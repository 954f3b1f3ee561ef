package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	wishlistapp "github.com/storefront/backend/internal/application/wishlist"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	BaseHandler
	wishlistService *wishlistapp.WishlistService
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService *wishlistapp.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
	}
}

// WishlistItemResponse represents a wishlist entry in responses
type WishlistItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku,omitempty"`
	Name        string          `json:"name,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Price       decimal.Decimal `json:"price"`
	InStock     bool            `json:"in_stock"`
	Unavailable bool            `json:"unavailable"`
	AddedAt     time.Time       `json:"added_at"`
}

func toWishlistItemResponses(items []wishlistapp.WishlistItemInfo) []WishlistItemResponse {
	resp := make([]WishlistItemResponse, len(items))
	for i, item := range items {
		resp[i] = WishlistItemResponse{
			ProductID:   item.ProductID,
			SKU:         item.SKU,
			Name:        item.Name,
			ImageURL:    item.ImageURL,
			Price:       item.Price,
			InStock:     item.InStock,
			Unavailable: item.Unavailable,
			AddedAt:     item.AddedAt,
		}
	}
	return resp
}

// Get godoc
// @Summary      Get own wishlist
// @Tags         wishlist
// @Produce      json
// @Success      200 {object} dto.Response{data=[]WishlistItemResponse}
// @Security     BearerAuth
// @Router       /wishlist [get]
func (h *WishlistHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	items, err := h.wishlistService.GetWishlist(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toWishlistItemResponses(items))
}

// Add godoc
// @Summary      Add a product to the wishlist
// @Description  Adding a product already on the wishlist is a no-op
// @Tags         wishlist
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /wishlist/{id} [post]
func (h *WishlistHandler) Add(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.wishlistService.AddProduct(c.Request.Context(), userID, productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Product added to wishlist"})
}

// Remove godoc
// @Summary      Remove a product from the wishlist
// @Tags         wishlist
// @Success      204
// @Security     BearerAuth
// @Router       /wishlist/{id} [delete]
func (h *WishlistHandler) Remove(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.wishlistService.RemoveProduct(c.Request.Context(), userID, productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// MoveToCart godoc
// @Summary      Move a wishlist entry into the cart
// @Tags         wishlist
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wishlist/{id}/move-to-cart [post]
func (h *WishlistHandler) MoveToCart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.wishlistService.MoveToCart(c.Request.Context(), userID, productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Product moved to cart"})
}
