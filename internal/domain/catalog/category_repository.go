package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by its slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindAll finds all categories matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// FindActive finds all active categories ordered by sort order
	FindActive(ctx context.Context) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts categories matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySlug checks if a category with the given slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// HasProducts checks if any products reference the category
	HasProducts(ctx context.Context, categoryID uuid.UUID) (bool, error)
}
