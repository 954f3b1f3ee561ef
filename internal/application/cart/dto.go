package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	domain "github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CartItemInfo is one cart line joined with its product
type CartItemInfo struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	SKU         string
	Name        string
	ImageURL    string
	UnitPrice   decimal.Decimal
	Quantity    int
	LineTotal   decimal.Decimal
	InStock     bool
	Unavailable bool
	AddedAt     time.Time
}

// NewCartItemInfo joins a cart line with its product. Prices come from
// the line's snapshot taken at add time, not the live product price.
// A nil product marks the line unavailable (archived or deleted).
func NewCartItemInfo(item *domain.CartItem, product *catalog.Product) CartItemInfo {
	info := CartItemInfo{
		ID:          item.ID,
		ProductID:   item.ProductID,
		UnitPrice:   item.UnitPrice,
		Quantity:    item.Quantity,
		LineTotal:   item.LineTotal(),
		Unavailable: true,
		AddedAt:     item.CreatedAt,
	}
	if product != nil && product.IsActive() {
		info.SKU = product.SKU
		info.Name = product.Name
		info.ImageURL = product.ImageURL
		info.InStock = product.IsInStock(item.Quantity)
		info.Unavailable = false
	}
	return info
}

// CartInfo is the full cart for a user
type CartInfo struct {
	Items     []CartItemInfo
	ItemCount int
	Subtotal  decimal.Decimal
}

// AddItemInput contains the input for adding a product to the cart
type AddItemInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// UpdateItemInput contains the input for changing a cart line's quantity
type UpdateItemInput struct {
	UserID   uuid.UUID
	ItemID   uuid.UUID
	Quantity int
}
