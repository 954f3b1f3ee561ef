package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// FindByID finds a review by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByProduct finds reviews for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, error)

	// FindByProductAndUser finds a user's review of a product
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*Review, error)

	// Save creates or updates a review
	Save(ctx context.Context, review *Review) error

	// Delete deletes a review
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByProduct counts reviews for a product
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
