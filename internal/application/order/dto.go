package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	domain "github.com/storefront/backend/internal/domain/order"
)

// OrderItemInfo is one product snapshot line on an order
type OrderItemInfo struct {
	ProductID   uuid.UUID
	SKU         string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	LineTotal   decimal.Decimal
}

// ShippingAddressInfo is the delivery address snapshot on an order
type ShippingAddressInfo struct {
	Recipient  string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// OrderInfo is the client representation of an order
type OrderInfo struct {
	ID           uuid.UUID
	OrderNumber  string
	UserID       uuid.UUID
	Items        []OrderItemInfo
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	ShippingFee  decimal.Decimal
	Total        decimal.Decimal
	CouponCode   string
	Status       string
	ShipTo       ShippingAddressInfo
	PaidAt       *time.Time
	ShippedAt    *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string
	CreatedAt    time.Time
}

// NewOrderInfo maps an order aggregate to its client representation
func NewOrderInfo(o *domain.Order) OrderInfo {
	items := make([]OrderItemInfo, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemInfo{
			ProductID:   item.ProductID,
			SKU:         item.SKU,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}

	return OrderInfo{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Items:       items,
		Subtotal:    o.Subtotal,
		Discount:    o.Discount,
		ShippingFee: o.ShippingFee,
		Total:       o.Total,
		CouponCode:  o.CouponCode,
		Status:      string(o.Status),
		ShipTo: ShippingAddressInfo{
			Recipient:  o.ShipTo.Recipient,
			Phone:      o.ShipTo.Phone,
			Line1:      o.ShipTo.Line1,
			Line2:      o.ShipTo.Line2,
			City:       o.ShipTo.City,
			State:      o.ShipTo.State,
			PostalCode: o.ShipTo.PostalCode,
			Country:    o.ShipTo.Country,
		},
		PaidAt:       o.PaidAt,
		ShippedAt:    o.ShippedAt,
		DeliveredAt:  o.DeliveredAt,
		CancelledAt:  o.CancelledAt,
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt,
	}
}

// CheckoutInput contains the input for placing an order from the cart
type CheckoutInput struct {
	UserID     uuid.UUID
	AddressID  uuid.UUID
	CouponCode string
}

// CancelOrderInput contains the input for cancelling an order
type CancelOrderInput struct {
	UserID  uuid.UUID
	OrderID uuid.UUID
	Reason  string
	IsAdmin bool
}

// ListOrdersInput contains filters for the admin order list
type ListOrdersInput struct {
	Status   string
	UserID   *uuid.UUID
	Search   string
	Page     int
	PageSize int
}

// ListOrdersResult contains a page of orders
type ListOrdersResult struct {
	Orders   []OrderInfo
	Total    int64
	Page     int
	PageSize int
}
