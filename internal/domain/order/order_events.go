package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// AggregateTypeOrder is the aggregate type for orders
const AggregateTypeOrder = "Order"

// Order domain event types
const (
	EventTypeOrderPlaced    = "OrderPlaced"
	EventTypeOrderPaid      = "OrderPaid"
	EventTypeOrderShipped   = "OrderShipped"
	EventTypeOrderDelivered = "OrderDelivered"
	EventTypeOrderCancelled = "OrderCancelled"
)

// OrderPlacedEvent is published when a checkout completes
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	UserID      uuid.UUID       `json:"user_id"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Total:           o.Total,
		ItemCount:       len(o.Items),
	}
}

// OrderPaidEvent is published when an order is paid
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	UserID      uuid.UUID       `json:"user_id"`
	Total       decimal.Decimal `json:"total"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Total:           o.Total,
	}
}

// OrderShippedEvent is published when an order ships
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(o *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
	}
}

// OrderDeliveredEvent is published when an order is delivered
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
	}
}

// OrderCancelledEvent is published when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
	Reason      string    `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Reason:          o.CancelReason,
	}
}
