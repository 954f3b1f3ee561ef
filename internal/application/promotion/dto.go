package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	domain "github.com/storefront/backend/internal/domain/promotion"
)

// CouponInfo is the admin representation of a coupon
type CouponInfo struct {
	ID          uuid.UUID
	Code        string
	Type        string
	Value       decimal.Decimal
	MinSubtotal decimal.Decimal
	UsageLimit  int
	UsageCount  int
	StartsAt    time.Time
	ExpiresAt   time.Time
	Status      string
	CreatedAt   time.Time
}

// NewCouponInfo maps a coupon aggregate to its admin representation
func NewCouponInfo(c *domain.Coupon) CouponInfo {
	return CouponInfo{
		ID:          c.ID,
		Code:        c.Code,
		Type:        string(c.Type),
		Value:       c.Value,
		MinSubtotal: c.MinSubtotal,
		UsageLimit:  c.UsageLimit,
		UsageCount:  c.UsageCount,
		StartsAt:    c.StartsAt,
		ExpiresAt:   c.ExpiresAt,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
	}
}

// CreateCouponInput contains the input for creating a coupon
type CreateCouponInput struct {
	Code        string
	Type        string
	Value       decimal.Decimal
	MinSubtotal decimal.Decimal
	UsageLimit  int
	StartsAt    time.Time
	ExpiresAt   time.Time
}

// UpdateCouponInput contains the input for changing a coupon's terms
type UpdateCouponInput struct {
	Value       decimal.Decimal
	MinSubtotal decimal.Decimal
	UsageLimit  int
	StartsAt    time.Time
	ExpiresAt   time.Time
}

// ListCouponsInput contains filters for the admin coupon list
type ListCouponsInput struct {
	Status   string
	Type     string
	Page     int
	PageSize int
}

// ListCouponsResult contains a page of coupons
type ListCouponsResult struct {
	Coupons  []CouponInfo
	Total    int64
	Page     int
	PageSize int
}

// ValidationResult reports whether a coupon applies to a subtotal
// and what the resulting discount would be
type ValidationResult struct {
	Code     string
	Valid    bool
	Reason   string
	Discount decimal.Decimal
}
