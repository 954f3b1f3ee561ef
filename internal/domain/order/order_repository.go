package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order with its lines by order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByUser finds a user's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindAll finds all orders matching the filter.
	// Supported filter keys: "status", "user_id".
	// Search matches the order number.
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order with its lines
	Save(ctx context.Context, order *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByUser counts a user's orders
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// GenerateOrderNumber generates the next sequential order number
	GenerateOrderNumber(ctx context.Context) (string, error)
}
