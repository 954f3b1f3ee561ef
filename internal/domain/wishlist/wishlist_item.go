package wishlist

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// WishlistItem represents a product saved to a user's wishlist.
// The (user, product) pair is unique; saving twice is a no-op.
type WishlistItem struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_wishlist_user_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product,priority:2"`
}

// TableName returns the table name for GORM
func (WishlistItem) TableName() string {
	return "wishlist_items"
}

// NewWishlistItem creates a new wishlist entry
func NewWishlistItem(userID, productID uuid.UUID) (*WishlistItem, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &WishlistItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		ProductID:         productID,
	}, nil
}

// BelongsTo returns true if the entry is in the given user's wishlist
func (w *WishlistItem) BelongsTo(userID uuid.UUID) bool {
	return w.UserID == userID
}
