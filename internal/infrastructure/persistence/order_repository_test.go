package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&order.Order{}, &order.OrderItem{})
	require.NoError(t, err)

	return db
}

func testAddress() order.ShippingAddress {
	return order.ShippingAddress{
		Recipient:  "Jane Doe",
		Phone:      "+15550100",
		Line1:      "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	}
}

func mustOrder(t *testing.T, orderNumber string, userID uuid.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(orderNumber, userID, testAddress(), "", decimal.Zero, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, o.AddLine(uuid.New(), "WIDGET-001", "Widget", decimal.RequireFromString("19.99"), 2))
	require.NoError(t, o.Place())
	return o
}

func TestGormOrderRepository_SaveAndFindByOrderNumber(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	o := mustOrder(t, "ORD-2026-00001", userID)
	require.NoError(t, repo.Save(ctx, o))

	found, err := repo.FindByOrderNumber(ctx, "ORD-2026-00001")
	require.NoError(t, err)
	assert.Equal(t, o.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "WIDGET-001", found.Items[0].SKU)
	assert.True(t, found.Subtotal.Equal(decimal.RequireFromString("39.98")))
	assert.True(t, found.Total.Equal(decimal.RequireFromString("44.98")))

	_, err = repo.FindByOrderNumber(ctx, "ORD-2026-99999")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_Save_DuplicateOrderNumber(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustOrder(t, "ORD-2026-00001", uuid.New())))

	err := repo.Save(ctx, mustOrder(t, "ORD-2026-00001", uuid.New()))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormOrderRepository_FindByUser(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.Save(ctx, mustOrder(t, "ORD-2026-00001", userID)))
	require.NoError(t, repo.Save(ctx, mustOrder(t, "ORD-2026-00002", userID)))
	require.NoError(t, repo.Save(ctx, mustOrder(t, "ORD-2026-00003", uuid.New())))

	orders, err := repo.FindByUser(ctx, userID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	count, err := repo.CountByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormOrderRepository_FindAll_StatusFilter(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	pending := mustOrder(t, "ORD-2026-00001", uuid.New())
	paid := mustOrder(t, "ORD-2026-00002", uuid.New())
	require.NoError(t, paid.MarkPaid())
	require.NoError(t, repo.Save(ctx, pending))
	require.NoError(t, repo.Save(ctx, paid))

	orders, err := repo.FindAll(ctx, shared.Filter{
		Filters: map[string]interface{}{"status": string(order.OrderStatusPaid)},
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-2026-00002", orders[0].OrderNumber)
}

func TestGormOrderRepository_GenerateOrderNumber(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	year := time.Now().Year()

	first, err := repo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ORD-%d-00001", year), first)

	require.NoError(t, repo.Save(ctx, mustOrder(t, first, uuid.New())))

	second, err := repo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ORD-%d-00002", year), second)
}

func TestGormOrderRepository_StatusRoundTrip(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := mustOrder(t, "ORD-2026-00001", uuid.New())
	require.NoError(t, repo.Save(ctx, o))

	found, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.NoError(t, found.MarkPaid())
	require.NoError(t, repo.Save(ctx, found))

	reloaded, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusPaid, reloaded.Status)
	assert.NotNil(t, reloaded.PaidAt)
}
