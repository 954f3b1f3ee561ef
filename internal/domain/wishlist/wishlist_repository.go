package wishlist

import (
	"context"

	"github.com/google/uuid"
)

// WishlistRepository defines the interface for wishlist persistence
type WishlistRepository interface {
	// FindByUser finds all wishlist entries for a user, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]WishlistItem, error)

	// FindByUserAndProduct finds the user's wishlist entry for a product
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*WishlistItem, error)

	// ExistsByUserAndProduct checks if the product is already wishlisted
	ExistsByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error)

	// Save creates a wishlist entry
	Save(ctx context.Context, item *WishlistItem) error

	// DeleteByUserAndProduct removes the user's entry for a product
	DeleteByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) error

	// CountByUser counts the user's wishlist entries
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
