package promotion

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// CouponType determines how a coupon's value is applied
type CouponType string

const (
	// CouponTypePercent discounts a percentage of the cart subtotal
	CouponTypePercent CouponType = "percent"
	// CouponTypeFixed discounts a fixed amount
	CouponTypeFixed CouponType = "fixed"
)

// CouponStatus represents the status of a coupon
type CouponStatus string

const (
	CouponStatusActive   CouponStatus = "active"
	CouponStatusDisabled CouponStatus = "disabled"
)

// Coupon validation errors
var (
	ErrCouponNotActive   = shared.NewDomainError("COUPON_NOT_ACTIVE", "Coupon is not active")
	ErrCouponNotStarted  = shared.NewDomainError("COUPON_NOT_STARTED", "Coupon is not valid yet")
	ErrCouponExpired     = shared.NewDomainError("COUPON_EXPIRED", "Coupon has expired")
	ErrCouponExhausted   = shared.NewDomainError("COUPON_EXHAUSTED", "Coupon usage limit reached")
	ErrCouponMinSubtotal = shared.NewDomainError("COUPON_MIN_SUBTOTAL", "Order subtotal is below the coupon minimum")
)

// Coupon represents a discount code redeemable at checkout
type Coupon struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type        CouponType      `gorm:"type:varchar(20);not null"`
	Value       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MinSubtotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UsageLimit  int             `gorm:"not null;default:0"`
	UsageCount  int             `gorm:"not null;default:0"`
	StartsAt    time.Time       `gorm:"not null"`
	ExpiresAt   time.Time       `gorm:"not null"`
	Status      CouponStatus    `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// NewCoupon creates a new active coupon.
// A usage limit of 0 means unlimited redemptions.
func NewCoupon(code string, couponType CouponType, value, minSubtotal decimal.Decimal, usageLimit int, startsAt, expiresAt time.Time) (*Coupon, error) {
	if err := validateCouponCode(code); err != nil {
		return nil, err
	}
	if couponType != CouponTypePercent && couponType != CouponTypeFixed {
		return nil, shared.NewDomainError("INVALID_COUPON_TYPE", "Coupon type must be percent or fixed")
	}
	if !value.IsPositive() {
		return nil, shared.NewDomainError("INVALID_COUPON_VALUE", "Coupon value must be positive")
	}
	if couponType == CouponTypePercent && value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_COUPON_VALUE", "Percent coupon value cannot exceed 100")
	}
	if minSubtotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COUPON_VALUE", "Minimum subtotal cannot be negative")
	}
	if usageLimit < 0 {
		return nil, shared.NewDomainError("INVALID_USAGE_LIMIT", "Usage limit cannot be negative")
	}
	if !expiresAt.After(startsAt) {
		return nil, shared.NewDomainError("INVALID_VALIDITY_WINDOW", "Expiry must be after start")
	}

	coupon := &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Type:              couponType,
		Value:             value,
		MinSubtotal:       minSubtotal,
		UsageLimit:        usageLimit,
		StartsAt:          startsAt,
		ExpiresAt:         expiresAt,
		Status:            CouponStatusActive,
	}

	coupon.AddDomainEvent(NewCouponCreatedEvent(coupon))

	return coupon, nil
}

// ValidateFor checks whether the coupon can be applied to an order
// with the given subtotal at the given time
func (c *Coupon) ValidateFor(subtotal decimal.Decimal, now time.Time) error {
	if c.Status != CouponStatusActive {
		return ErrCouponNotActive
	}
	if now.Before(c.StartsAt) {
		return ErrCouponNotStarted
	}
	if now.After(c.ExpiresAt) {
		return ErrCouponExpired
	}
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return ErrCouponExhausted
	}
	if subtotal.LessThan(c.MinSubtotal) {
		return ErrCouponMinSubtotal
	}
	return nil
}

// Discount computes the discount amount for the given subtotal.
// The discount never exceeds the subtotal.
func (c *Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.Type {
	case CouponTypePercent:
		discount = subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
	case CouponTypeFixed:
		discount = c.Value
	}

	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

// Update changes the coupon's terms. The code and type are fixed for
// the life of the coupon; the usage limit cannot drop below the
// redemptions already recorded.
func (c *Coupon) Update(value, minSubtotal decimal.Decimal, usageLimit int, startsAt, expiresAt time.Time) error {
	if !value.IsPositive() {
		return shared.NewDomainError("INVALID_COUPON_VALUE", "Coupon value must be positive")
	}
	if c.Type == CouponTypePercent && value.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_COUPON_VALUE", "Percent coupon value cannot exceed 100")
	}
	if minSubtotal.IsNegative() {
		return shared.NewDomainError("INVALID_COUPON_VALUE", "Minimum subtotal cannot be negative")
	}
	if usageLimit < 0 {
		return shared.NewDomainError("INVALID_USAGE_LIMIT", "Usage limit cannot be negative")
	}
	if usageLimit > 0 && usageLimit < c.UsageCount {
		return shared.NewDomainError("INVALID_USAGE_LIMIT", "Usage limit cannot be below redemptions already made")
	}
	if !expiresAt.After(startsAt) {
		return shared.NewDomainError("INVALID_VALIDITY_WINDOW", "Expiry must be after start")
	}

	c.Value = value
	c.MinSubtotal = minSubtotal
	c.UsageLimit = usageLimit
	c.StartsAt = startsAt
	c.ExpiresAt = expiresAt
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// RecordUsage counts a redemption against the usage limit
func (c *Coupon) RecordUsage() error {
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return ErrCouponExhausted
	}

	c.UsageCount++
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCouponRedeemedEvent(c))

	return nil
}

// Disable disables the coupon
func (c *Coupon) Disable() error {
	if c.Status == CouponStatusDisabled {
		return shared.NewDomainError("ALREADY_DISABLED", "Coupon is already disabled")
	}

	c.Status = CouponStatusDisabled
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Enable re-activates a disabled coupon
func (c *Coupon) Enable() error {
	if c.Status == CouponStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Coupon is already active")
	}

	c.Status = CouponStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive returns true if the coupon is active and within its validity window
func (c *Coupon) IsActive(now time.Time) bool {
	return c.Status == CouponStatusActive && !now.Before(c.StartsAt) && !now.After(c.ExpiresAt)
}

// validateCouponCode validates the coupon code
func validateCouponCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_COUPON_CODE", "Coupon code cannot be empty")
	}
	if len(code) < 3 || len(code) > 50 {
		return shared.NewDomainError("INVALID_COUPON_CODE", "Coupon code must be 3-50 characters")
	}
	for _, r := range code {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			return shared.NewDomainError("INVALID_COUPON_CODE", "Coupon code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
