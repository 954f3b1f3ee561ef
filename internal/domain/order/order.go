package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusPaid || target == OrderStatusCancelled
	case OrderStatusPaid:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// OrderItem is an immutable snapshot of a purchased product line.
// Product name and price are copied at checkout so later catalog
// edits do not rewrite order history.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	SKU         string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates an order line snapshot
func NewOrderItem(orderID, productID uuid.UUID, sku, productName string, unitPrice decimal.Decimal, quantity int) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		SKU:         sku,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		LineTotal:   unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:   time.Now(),
	}, nil
}

// ShippingAddress is the delivery address snapshot stored on the order
type ShippingAddress struct {
	Recipient  string `gorm:"type:varchar(100);not null"`
	Phone      string `gorm:"type:varchar(30);not null"`
	Line1      string `gorm:"type:varchar(200);not null"`
	Line2      string `gorm:"type:varchar(200)"`
	City       string `gorm:"type:varchar(100);not null"`
	State      string `gorm:"type:varchar(100)"`
	PostalCode string `gorm:"type:varchar(20);not null"`
	Country    string `gorm:"type:varchar(2);not null"`
}

// Order represents a placed customer order.
// Orders are created complete at checkout; lines never change afterwards.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingFee  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CouponCode   string          `gorm:"type:varchar(50)"`
	Status       OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	ShipTo       ShippingAddress `gorm:"embedded;embeddedPrefix:ship_"`
	PaidAt       *time.Time
	ShippedAt    *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order from checkout inputs.
// Items must be built with the order's ID afterwards via AddLine, or
// passed pre-built through lines.
func NewOrder(orderNumber string, userID uuid.UUID, shipTo ShippingAddress, couponCode string, discount, shippingFee decimal.Decimal) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if err := validateShippingAddress(shipTo); err != nil {
		return nil, err
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if shippingFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_FEE", "Shipping fee cannot be negative")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		Items:             make([]OrderItem, 0),
		Subtotal:          decimal.Zero,
		Discount:          discount,
		ShippingFee:       shippingFee,
		Total:             decimal.Zero,
		CouponCode:        couponCode,
		Status:            OrderStatusPending,
		ShipTo:            shipTo,
	}, nil
}

// AddLine appends a product snapshot line and recalculates totals.
// Only allowed before the order is placed.
func (o *Order) AddLine(productID uuid.UUID, sku, productName string, unitPrice decimal.Decimal, quantity int) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot add lines to a placed order")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order")
		}
	}

	item, err := NewOrderItem(o.ID, productID, sku, productName, unitPrice, quantity)
	if err != nil {
		return err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return nil
}

// Place finalizes the order after all lines are added.
// The discount may not exceed the subtotal.
func (o *Order) Place() error {
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot place an order without items")
	}
	if o.Discount.GreaterThan(o.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed subtotal")
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return nil
}

// MarkPaid records payment for the order
func (o *Order) MarkPaid() error {
	if !o.Status.CanTransitionTo(OrderStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// MarkShipped records that the order left the warehouse
func (o *Order) MarkShipped() error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.ShippedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// MarkDelivered records delivery to the customer
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Cancel cancels the order. Allowed while pending or paid;
// reserved stock is restored by the application service.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// BelongsTo returns true if the order was placed by the given user
func (o *Order) BelongsTo(userID uuid.UUID) bool {
	return o.UserID == userID
}

// ItemCount returns the number of lines in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the sum of all line quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// IsPending returns true if the order awaits payment
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsCancelled returns true if the order was cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsTerminal returns true if the order is delivered or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// recalculateTotals recalculates subtotal and total from the lines
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	o.Subtotal = subtotal

	total := subtotal.Sub(o.Discount).Add(o.ShippingFee)
	if total.IsNegative() {
		total = decimal.Zero
	}
	o.Total = total
}

// validateShippingAddress validates the delivery address snapshot
func validateShippingAddress(a ShippingAddress) error {
	if a.Recipient == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Recipient is required")
	}
	if a.Phone == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Phone is required")
	}
	if a.Line1 == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Address line is required")
	}
	if a.City == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "City is required")
	}
	if a.PostalCode == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Postal code is required")
	}
	if a.Country == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Country is required")
	}
	return nil
}
