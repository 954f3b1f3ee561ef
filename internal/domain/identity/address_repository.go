package identity

import (
	"context"

	"github.com/google/uuid"
)

// AddressRepository defines the interface for address persistence
type AddressRepository interface {
	// Save creates or updates an address
	Save(ctx context.Context, address *Address) error

	// Delete deletes an address by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an address by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)

	// FindByUser returns all addresses for a user, default first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)

	// FindDefault returns the user's default address, or ErrNotFound
	FindDefault(ctx context.Context, userID uuid.UUID) (*Address, error)

	// ClearDefault removes the default flag from all of a user's addresses
	ClearDefault(ctx context.Context, userID uuid.UUID) error
}
