package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/wishlist"
	"gorm.io/gorm"
)

// GormWishlistRepository implements WishlistRepository using GORM
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewGormWishlistRepository creates a new GormWishlistRepository
func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// FindByUser finds all wishlist entries for a user, newest first
func (r *GormWishlistRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]wishlist.WishlistItem, error) {
	var items []wishlist.WishlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByUserAndProduct finds the user's wishlist entry for a product
func (r *GormWishlistRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*wishlist.WishlistItem, error) {
	var item wishlist.WishlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ExistsByUserAndProduct checks if the product is already wishlisted
func (r *GormWishlistRepository) ExistsByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&wishlist.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates a wishlist entry
func (r *GormWishlistRepository) Save(ctx context.Context, item *wishlist.WishlistItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteByUserAndProduct removes the user's entry for a product
func (r *GormWishlistRepository) DeleteByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&wishlist.WishlistItem{}, "user_id = ? AND product_id = ?", userID, productID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByUser counts the user's wishlist entries
func (r *GormWishlistRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&wishlist.WishlistItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ wishlist.WishlistRepository = (*GormWishlistRepository)(nil)
