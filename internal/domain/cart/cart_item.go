package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// MaxQuantityPerItem caps a single cart line
const MaxQuantityPerItem = 99

// CartItem represents one product line in a user's shopping cart.
// A user has at most one line per product; adding the same product
// again merges into the existing line. UnitPrice is the product price
// snapshotted when the line was first added, so later repricing does
// not silently change what the cart promises.
type CartItem struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_user_product,priority:1"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:2"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCartItem creates a new cart line with the price snapshot taken
// at add time
func NewCartItem(userID, productID uuid.UUID, quantity int, unitPrice decimal.Decimal) (*CartItem, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &CartItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		ProductID:         productID,
		Quantity:          quantity,
		UnitPrice:         unitPrice,
	}, nil
}

// LineTotal returns the snapshot price times the quantity
func (c *CartItem) LineTotal() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// IncreaseQuantity merges an additional quantity into the line
func (c *CartItem) IncreaseQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if err := ValidateQuantity(c.Quantity + quantity); err != nil {
		return err
	}

	c.Quantity += quantity
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetQuantity replaces the line quantity
func (c *CartItem) SetQuantity(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}

	c.Quantity = quantity
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// BelongsTo returns true if the line is in the given user's cart
func (c *CartItem) BelongsTo(userID uuid.UUID) bool {
	return c.UserID == userID
}

// ValidateQuantity validates a cart line quantity
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > MaxQuantityPerItem {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot exceed 99 per item")
	}
	return nil
}
