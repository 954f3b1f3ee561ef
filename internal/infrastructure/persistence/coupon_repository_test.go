package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCouponTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&promotion.Coupon{})
	require.NoError(t, err)

	return db
}

func mustCoupon(t *testing.T, code string) *promotion.Coupon {
	t.Helper()
	now := time.Now()
	coupon, err := promotion.NewCoupon(
		code,
		promotion.CouponTypePercent,
		decimal.NewFromInt(10),
		decimal.Zero,
		0,
		now.Add(-time.Hour),
		now.Add(24*time.Hour),
	)
	require.NoError(t, err)
	return coupon
}

func TestGormCouponRepository_FindByCode(t *testing.T) {
	db := setupCouponTestDB(t)
	repo := NewGormCouponRepository(db)
	ctx := context.Background()

	coupon := mustCoupon(t, "SUMMER10")
	require.NoError(t, repo.Save(ctx, coupon))

	// Codes are stored uppercase; lookup normalizes the input
	found, err := repo.FindByCode(ctx, "  summer10 ")
	require.NoError(t, err)
	assert.Equal(t, coupon.ID, found.ID)
	assert.Equal(t, "SUMMER10", found.Code)

	_, err = repo.FindByCode(ctx, "MISSING")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCouponRepository_ExistsByCode(t *testing.T) {
	db := setupCouponTestDB(t)
	repo := NewGormCouponRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustCoupon(t, "SUMMER10")))

	exists, err := repo.ExistsByCode(ctx, "summer10")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCode(ctx, "WINTER10")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormCouponRepository_FindAll_StatusFilter(t *testing.T) {
	db := setupCouponTestDB(t)
	repo := NewGormCouponRepository(db)
	ctx := context.Background()

	active := mustCoupon(t, "SUMMER10")
	disabled := mustCoupon(t, "WINTER10")
	require.NoError(t, disabled.Disable())
	require.NoError(t, repo.Save(ctx, active))
	require.NoError(t, repo.Save(ctx, disabled))

	coupons, err := repo.FindAll(ctx, shared.Filter{
		Filters: map[string]interface{}{"status": string(promotion.CouponStatusDisabled)},
	})
	require.NoError(t, err)
	require.Len(t, coupons, 1)
	assert.Equal(t, "WINTER10", coupons[0].Code)
}

func TestGormCouponRepository_UsageCountRoundTrip(t *testing.T) {
	db := setupCouponTestDB(t)
	repo := NewGormCouponRepository(db)
	ctx := context.Background()

	coupon := mustCoupon(t, "SUMMER10")
	require.NoError(t, repo.Save(ctx, coupon))

	found, err := repo.FindByCode(ctx, "SUMMER10")
	require.NoError(t, err)
	require.NoError(t, found.RecordUsage())
	require.NoError(t, repo.Save(ctx, found))

	reloaded, err := repo.FindByCode(ctx, "SUMMER10")
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.UsageCount)
}
