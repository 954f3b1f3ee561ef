package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&cart.CartItem{})
	require.NoError(t, err)

	return db
}

func TestGormCartRepository_SaveAndFindByUser(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	userID := uuid.New()

	first, err := cart.NewCartItem(userID, uuid.New(), 2, decimal.NewFromInt(10))
	require.NoError(t, err)
	second, err := cart.NewCartItem(userID, uuid.New(), 1, decimal.NewFromInt(10))
	require.NoError(t, err)
	// Force distinct timestamps so the oldest-first ordering is observable
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, first))

	items, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
}

func TestGormCartRepository_FindByUserAndProduct(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	item, err := cart.NewCartItem(userID, productID, 3, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, item))

	found, err := repo.FindByUserAndProduct(ctx, userID, productID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	assert.Equal(t, 3, found.Quantity)

	_, err = repo.FindByUserAndProduct(ctx, userID, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCartRepository_DeleteByUser(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	other := uuid.New()

	for _, uid := range []uuid.UUID{userID, userID, other} {
		item, err := cart.NewCartItem(uid, uuid.New(), 1, decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, item))
	}

	require.NoError(t, repo.DeleteByUser(ctx, userID))

	count, err := repo.CountByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = repo.CountByUser(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormCartRepository_Merge_FoldsQuantities(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	// Three adds of the same product, each built from its own read of
	// the cart, must all land on the single line.
	for i := 0; i < 3; i++ {
		item, err := cart.NewCartItem(userID, productID, 1, decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NoError(t, repo.Merge(ctx, item))
	}

	found, err := repo.FindByUserAndProduct(ctx, userID, productID)
	require.NoError(t, err)
	assert.Equal(t, 3, found.Quantity)

	count, err := repo.CountByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormCartRepository_Merge_KeepsFirstPriceSnapshot(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	first, err := cart.NewCartItem(userID, productID, 1, decimal.NewFromFloat(10.00))
	require.NoError(t, err)
	require.NoError(t, repo.Merge(ctx, first))

	repriced, err := cart.NewCartItem(userID, productID, 2, decimal.NewFromFloat(25.00))
	require.NoError(t, err)
	require.NoError(t, repo.Merge(ctx, repriced))

	found, err := repo.FindByUserAndProduct(ctx, userID, productID)
	require.NoError(t, err)
	assert.Equal(t, 3, found.Quantity)
	assert.True(t, decimal.NewFromFloat(10.00).Equal(found.UnitPrice))
}

func TestGormCartRepository_Delete(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	item, err := cart.NewCartItem(uuid.New(), uuid.New(), 1, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, item))

	require.NoError(t, repo.Delete(ctx, item.ID))
	assert.ErrorIs(t, repo.Delete(ctx, item.ID), shared.ErrNotFound)
}
