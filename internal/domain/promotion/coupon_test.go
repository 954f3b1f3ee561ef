package promotion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoupon(t *testing.T, couponType CouponType, value decimal.Decimal) *Coupon {
	t.Helper()
	now := time.Now()
	coupon, err := NewCoupon("SAVE10", couponType, value, decimal.Zero, 0, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	return coupon
}

func TestNewCoupon_Success(t *testing.T) {
	now := time.Now()

	coupon, err := NewCoupon("save10", CouponTypePercent, decimal.NewFromInt(10), decimal.NewFromInt(50), 100, now, now.Add(24*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, "SAVE10", coupon.Code)
	assert.Equal(t, CouponTypePercent, coupon.Type)
	assert.Equal(t, 100, coupon.UsageLimit)
	assert.Equal(t, 0, coupon.UsageCount)
	assert.Equal(t, CouponStatusActive, coupon.Status)
	assert.Len(t, coupon.GetDomainEvents(), 1)
}

func TestNewCoupon_Invalid(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)

	tests := []struct {
		name string
		fn   func() (*Coupon, error)
	}{
		{"empty code", func() (*Coupon, error) {
			return NewCoupon("", CouponTypeFixed, decimal.NewFromInt(5), decimal.Zero, 0, now, later)
		}},
		{"code too short", func() (*Coupon, error) {
			return NewCoupon("AB", CouponTypeFixed, decimal.NewFromInt(5), decimal.Zero, 0, now, later)
		}},
		{"code with spaces", func() (*Coupon, error) {
			return NewCoupon("SAVE 10", CouponTypeFixed, decimal.NewFromInt(5), decimal.Zero, 0, now, later)
		}},
		{"unknown type", func() (*Coupon, error) {
			return NewCoupon("SAVE10", CouponType("bogus"), decimal.NewFromInt(5), decimal.Zero, 0, now, later)
		}},
		{"zero value", func() (*Coupon, error) {
			return NewCoupon("SAVE10", CouponTypeFixed, decimal.Zero, decimal.Zero, 0, now, later)
		}},
		{"percent over 100", func() (*Coupon, error) {
			return NewCoupon("SAVE10", CouponTypePercent, decimal.NewFromInt(101), decimal.Zero, 0, now, later)
		}},
		{"negative minimum", func() (*Coupon, error) {
			return NewCoupon("SAVE10", CouponTypeFixed, decimal.NewFromInt(5), decimal.NewFromInt(-1), 0, now, later)
		}},
		{"negative usage limit", func() (*Coupon, error) {
			return NewCoupon("SAVE10", CouponTypeFixed, decimal.NewFromInt(5), decimal.Zero, -1, now, later)
		}},
		{"expiry before start", func() (*Coupon, error) {
			return NewCoupon("SAVE10", CouponTypeFixed, decimal.NewFromInt(5), decimal.Zero, 0, later, now)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			assert.Error(t, err)
		})
	}
}

func TestCoupon_Update(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypePercent, decimal.NewFromInt(10))
	now := time.Now()

	err := coupon.Update(decimal.NewFromInt(20), decimal.NewFromInt(75), 50, now, now.Add(48*time.Hour))

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(coupon.Value))
	assert.True(t, decimal.NewFromInt(75).Equal(coupon.MinSubtotal))
	assert.Equal(t, 50, coupon.UsageLimit)
	assert.Equal(t, "SAVE10", coupon.Code)
}

func TestCoupon_Update_Invalid(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)

	coupon := newTestCoupon(t, CouponTypePercent, decimal.NewFromInt(10))

	assert.Error(t, coupon.Update(decimal.Zero, decimal.Zero, 0, now, later))
	assert.Error(t, coupon.Update(decimal.NewFromInt(150), decimal.Zero, 0, now, later))
	assert.Error(t, coupon.Update(decimal.NewFromInt(10), decimal.NewFromInt(-1), 0, now, later))
	assert.Error(t, coupon.Update(decimal.NewFromInt(10), decimal.Zero, -1, now, later))
	assert.Error(t, coupon.Update(decimal.NewFromInt(10), decimal.Zero, 0, later, now))
}

func TestCoupon_Update_LimitBelowUsage(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypeFixed, decimal.NewFromInt(5))
	require.NoError(t, coupon.RecordUsage())
	require.NoError(t, coupon.RecordUsage())

	err := coupon.Update(decimal.NewFromInt(5), decimal.Zero, 1, coupon.StartsAt, coupon.ExpiresAt)

	assert.Error(t, err)
	assert.Equal(t, 0, coupon.UsageLimit)
}

func TestCoupon_Discount_Percent(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypePercent, decimal.NewFromInt(15))

	discount := coupon.Discount(decimal.NewFromFloat(89.90))

	assert.True(t, discount.Equal(decimal.NewFromFloat(13.49)), "got %s", discount)
}

func TestCoupon_Discount_Fixed(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypeFixed, decimal.NewFromInt(20))

	discount := coupon.Discount(decimal.NewFromInt(100))

	assert.True(t, discount.Equal(decimal.NewFromInt(20)))
}

func TestCoupon_Discount_CappedAtSubtotal(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypeFixed, decimal.NewFromInt(50))

	discount := coupon.Discount(decimal.NewFromFloat(29.99))

	assert.True(t, discount.Equal(decimal.NewFromFloat(29.99)))
}

func TestCoupon_ValidateFor(t *testing.T) {
	now := time.Now()
	coupon, err := NewCoupon("SAVE10", CouponTypeFixed, decimal.NewFromInt(10), decimal.NewFromInt(50), 1, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)

	assert.NoError(t, coupon.ValidateFor(decimal.NewFromInt(60), now))

	assert.ErrorIs(t, coupon.ValidateFor(decimal.NewFromInt(40), now), ErrCouponMinSubtotal)
	assert.ErrorIs(t, coupon.ValidateFor(decimal.NewFromInt(60), now.Add(-2*time.Hour)), ErrCouponNotStarted)
	assert.ErrorIs(t, coupon.ValidateFor(decimal.NewFromInt(60), now.Add(2*time.Hour)), ErrCouponExpired)

	require.NoError(t, coupon.RecordUsage())
	assert.ErrorIs(t, coupon.ValidateFor(decimal.NewFromInt(60), now), ErrCouponExhausted)

	require.NoError(t, coupon.Disable())
	assert.ErrorIs(t, coupon.ValidateFor(decimal.NewFromInt(60), now), ErrCouponNotActive)
}

func TestCoupon_RecordUsage_Exhausted(t *testing.T) {
	now := time.Now()
	coupon, err := NewCoupon("SAVE10", CouponTypeFixed, decimal.NewFromInt(10), decimal.Zero, 1, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, coupon.RecordUsage())
	assert.Equal(t, 1, coupon.UsageCount)

	err = coupon.RecordUsage()
	assert.ErrorIs(t, err, ErrCouponExhausted)
	assert.Equal(t, 1, coupon.UsageCount)
}

func TestCoupon_EnableDisable(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypeFixed, decimal.NewFromInt(5))

	assert.Error(t, coupon.Enable())

	require.NoError(t, coupon.Disable())
	assert.Error(t, coupon.Disable())
	assert.False(t, coupon.IsActive(time.Now()))

	require.NoError(t, coupon.Enable())
	assert.True(t, coupon.IsActive(time.Now()))
}
