package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByID finds a cart line by its ID
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.CartItem, error) {
	var item cart.CartItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByUser finds all cart lines for a user, oldest first
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]cart.CartItem, error) {
	var items []cart.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByUserAndProduct finds the user's cart line for a product
func (r *GormCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.CartItem, error) {
	var item cart.CartItem
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

// Save creates or updates a cart line
func (r *GormCartRepository) Save(ctx context.Context, item *cart.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Merge inserts the line, or folds its quantity into the existing line
// for the same user and product in one statement. The increment happens
// in the database, so concurrent adds cannot lose an update or trip the
// unique index. The bare column reference in the conflict assignment
// reads the stored row, which keeps the original price snapshot.
func (r *GormCartRepository) Merge(ctx context.Context, item *cart.CartItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", item.Quantity),
			"updated_at": item.UpdatedAt,
		}),
	}).Create(item).Error
}

// Delete removes a cart line
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&cart.CartItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByUser removes all cart lines for a user
func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&cart.CartItem{}, "user_id = ?", userID).Error
}

// CountByUser counts the user's cart lines
func (r *GormCartRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&cart.CartItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ cart.CartRepository = (*GormCartRepository)(nil)
