package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAddressRepository implements AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// Save creates or updates an address
func (r *GormAddressRepository) Save(ctx context.Context, address *identity.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

// Delete deletes an address by ID
func (r *GormAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Address{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an address by ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Address, error) {
	var address identity.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}

// FindByUser returns all addresses for a user, default first
func (r *GormAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.Address, error) {
	var addresses []identity.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// FindDefault returns the user's default address
func (r *GormAddressRepository) FindDefault(ctx context.Context, userID uuid.UUID) (*identity.Address, error) {
	var address identity.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}

// ClearDefault removes the default flag from all of a user's addresses
func (r *GormAddressRepository) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&identity.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

var _ identity.AddressRepository = (*GormAddressRepository)(nil)
