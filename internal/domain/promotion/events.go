package promotion

import (
	"github.com/storefront/backend/internal/domain/shared"
)

// AggregateTypeCoupon is the aggregate type for coupons
const AggregateTypeCoupon = "Coupon"

// Promotion domain event types
const (
	EventTypeCouponCreated  = "CouponCreated"
	EventTypeCouponRedeemed = "CouponRedeemed"
)

// CouponCreatedEvent is published when a coupon is created
type CouponCreatedEvent struct {
	shared.BaseDomainEvent
	Code string     `json:"code"`
	Type CouponType `json:"type"`
}

// NewCouponCreatedEvent creates a new CouponCreatedEvent
func NewCouponCreatedEvent(coupon *Coupon) *CouponCreatedEvent {
	return &CouponCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCouponCreated, AggregateTypeCoupon, coupon.ID),
		Code:            coupon.Code,
		Type:            coupon.Type,
	}
}

// CouponRedeemedEvent is published when a coupon is redeemed at checkout
type CouponRedeemedEvent struct {
	shared.BaseDomainEvent
	Code       string `json:"code"`
	UsageCount int    `json:"usage_count"`
}

// NewCouponRedeemedEvent creates a new CouponRedeemedEvent
func NewCouponRedeemedEvent(coupon *Coupon) *CouponRedeemedEvent {
	return &CouponRedeemedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCouponRedeemed, AggregateTypeCoupon, coupon.ID),
		Code:            coupon.Code,
		UsageCount:      coupon.UsageCount,
	}
}
