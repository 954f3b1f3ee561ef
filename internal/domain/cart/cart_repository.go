package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID finds a cart line by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CartItem, error)

	// FindByUser finds all cart lines for a user, oldest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]CartItem, error)

	// FindByUserAndProduct finds the user's cart line for a product
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*CartItem, error)

	// Save creates or updates a cart line
	Save(ctx context.Context, item *CartItem) error

	// Merge inserts the line or atomically folds its quantity into the
	// existing line for the same user and product. The existing line's
	// price snapshot is kept.
	Merge(ctx context.Context, item *CartItem) error

	// Delete removes a cart line
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByUser removes all cart lines for a user
	DeleteByUser(ctx context.Context, userID uuid.UUID) error

	// CountByUser counts the user's cart lines
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
