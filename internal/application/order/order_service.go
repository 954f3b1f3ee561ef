package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// maxOrderNumberRetries bounds checkout re-runs after an order number
// collision
const maxOrderNumberRetries = 2

// OrderService handles checkout and the order lifecycle
type OrderService struct {
	scope       TransactionScope
	orderRepo   order.OrderRepository
	addressRepo identity.AddressRepository
	shipping    config.ShippingConfig
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	scope TransactionScope,
	orderRepo order.OrderRepository,
	addressRepo identity.AddressRepository,
	shipping config.ShippingConfig,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		scope:       scope,
		orderRepo:   orderRepo,
		addressRepo: addressRepo,
		shipping:    shipping,
		publisher:   publisher,
		logger:      logger,
	}
}

// Checkout turns the user's cart into a placed order.
// Stock decrements, coupon redemption, order creation, and cart
// clearing all happen in one transaction; domain events are published
// only after it commits.
func (s *OrderService) Checkout(ctx context.Context, input CheckoutInput) (*OrderInfo, error) {
	shipTo, err := s.loadShippingAddress(ctx, input.UserID, input.AddressID)
	if err != nil {
		return nil, err
	}

	// Concurrent checkouts can draw the same order number. The loser
	// hits the unique index and the whole transaction is retried with
	// a fresh number.
	var placed *order.Order
	for attempt := 0; ; attempt++ {
		placed, err = s.placeOrder(ctx, input, shipTo)
		if errors.Is(err, shared.ErrAlreadyExists) && attempt < maxOrderNumberRetries {
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_number", placed.OrderNumber),
		zap.String("user_id", input.UserID.String()),
		zap.String("total", placed.Total.StringFixed(2)))

	s.publishEvents(ctx, placed)

	info := NewOrderInfo(placed)
	return &info, nil
}

// placeOrder runs one checkout attempt inside a transaction
func (s *OrderService) placeOrder(ctx context.Context, input CheckoutInput, shipTo order.ShippingAddress) (*order.Order, error) {
	var placed *order.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lines, err := repos.CartRepo().FindByUser(ctx, input.UserID)
		if err != nil {
			s.logger.Error("Failed to load cart for checkout", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Checkout failed")
		}
		if len(lines) == 0 {
			return shared.NewDomainError("EMPTY_CART", "Cart is empty")
		}

		products, err := s.loadCheckoutProducts(ctx, repos, lines)
		if err != nil {
			return err
		}

		subtotal := decimal.Zero
		for i := range lines {
			subtotal = subtotal.Add(lines[i].LineTotal())
		}

		couponCode, discount, err := s.redeemCoupon(ctx, repos, input.CouponCode, subtotal)
		if err != nil {
			return err
		}

		orderNumber, err := repos.OrderRepo().GenerateOrderNumber(ctx)
		if err != nil {
			s.logger.Error("Failed to generate order number", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Checkout failed")
		}

		newOrder, err := order.NewOrder(orderNumber, input.UserID, shipTo, couponCode, discount, s.shippingFee(subtotal))
		if err != nil {
			return err
		}
		for i := range lines {
			product := products[lines[i].ProductID]
			if err := newOrder.AddLine(product.ID, product.SKU, product.Name, lines[i].UnitPrice, lines[i].Quantity); err != nil {
				return err
			}
			if err := product.DecrementStock(lines[i].Quantity); err != nil {
				return err
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				s.logger.Error("Failed to save stock decrement", zap.Error(err))
				return shared.NewDomainError("INTERNAL_ERROR", "Checkout failed")
			}
		}
		if err := newOrder.Place(); err != nil {
			return err
		}

		if err := repos.OrderRepo().Save(ctx, newOrder); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return err
			}
			s.logger.Error("Failed to save order", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Checkout failed")
		}
		if err := repos.CartRepo().DeleteByUser(ctx, input.UserID); err != nil {
			s.logger.Error("Failed to clear cart", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Checkout failed")
		}

		placed = newOrder
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// GetOrder returns one order. Users only see their own orders.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) (*OrderInfo, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	if !isAdmin && !o.BelongsTo(userID) {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	info := NewOrderInfo(o)
	return &info, nil
}

// ListMyOrders returns a page of the user's orders, newest first
func (s *OrderService) ListMyOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) (*ListOrdersResult, error) {
	page, pageSize = normalizePage(page, pageSize)

	orders, err := s.orderRepo.FindByUser(ctx, userID, shared.Filter{Page: page, PageSize: pageSize})
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}
	total, err := s.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}

	return newListResult(orders, total, page, pageSize), nil
}

// ListOrders returns a page of all orders (admin)
func (s *OrderService) ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error) {
	page, pageSize := normalizePage(input.Page, input.PageSize)

	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		Search:   input.Search,
		Filters:  map[string]interface{}{},
	}
	if input.Status != "" {
		filter.Filters["status"] = input.Status
	}
	if input.UserID != nil {
		filter.Filters["user_id"] = *input.UserID
	}

	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}

	return newListResult(orders, total, page, pageSize), nil
}

// CancelOrder cancels a pending or paid order and restores its stock.
// Users may cancel their own orders; admins any order.
func (s *OrderService) CancelOrder(ctx context.Context, input CancelOrderInput) (*OrderInfo, error) {
	var cancelled *order.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, input.OrderID)
		if err != nil {
			return shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		if !input.IsAdmin && !o.BelongsTo(input.UserID) {
			return shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}

		if err := o.Cancel(input.Reason); err != nil {
			return err
		}

		for _, item := range o.Items {
			product, err := repos.ProductRepo().FindByID(ctx, item.ProductID)
			if err != nil {
				// Deleted products cannot take stock back.
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				s.logger.Error("Failed to load product for restock", zap.Error(err))
				return shared.NewDomainError("INTERNAL_ERROR", "Cancellation failed")
			}
			if err := product.IncrementStock(item.Quantity); err != nil {
				return err
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				s.logger.Error("Failed to save restock", zap.Error(err))
				return shared.NewDomainError("INTERNAL_ERROR", "Cancellation failed")
			}
		}

		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			s.logger.Error("Failed to save cancelled order", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Cancellation failed")
		}

		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled",
		zap.String("order_number", cancelled.OrderNumber),
		zap.String("reason", input.Reason))

	s.publishEvents(ctx, cancelled)

	info := NewOrderInfo(cancelled)
	return &info, nil
}

// MarkPaid records payment for an order (admin)
func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID) (*OrderInfo, error) {
	return s.transition(ctx, orderID, (*order.Order).MarkPaid)
}

// MarkShipped records that an order left the warehouse (admin)
func (s *OrderService) MarkShipped(ctx context.Context, orderID uuid.UUID) (*OrderInfo, error) {
	return s.transition(ctx, orderID, (*order.Order).MarkShipped)
}

// MarkDelivered records delivery of an order (admin)
func (s *OrderService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*OrderInfo, error) {
	return s.transition(ctx, orderID, (*order.Order).MarkDelivered)
}

func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, apply func(*order.Order) error) (*OrderInfo, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	if err := apply(o); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		s.logger.Error("Failed to save order status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update order")
	}

	s.publishEvents(ctx, o)

	info := NewOrderInfo(o)
	return &info, nil
}

func (s *OrderService) loadShippingAddress(ctx context.Context, userID, addressID uuid.UUID) (order.ShippingAddress, error) {
	address, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		return order.ShippingAddress{}, shared.NewDomainError("ADDRESS_NOT_FOUND", "Address not found")
	}
	if address.UserID != userID {
		return order.ShippingAddress{}, shared.NewDomainError("ADDRESS_NOT_FOUND", "Address not found")
	}

	return order.ShippingAddress{
		Recipient:  address.Recipient,
		Phone:      address.Phone,
		Line1:      address.Line1,
		Line2:      address.Line2,
		City:       address.City,
		State:      address.State,
		PostalCode: address.PostalCode,
		Country:    address.Country,
	}, nil
}

func (s *OrderService) loadCheckoutProducts(ctx context.Context, repos TransactionalRepositories, lines []cart.CartItem) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for i := range lines {
		ids = append(ids, lines[i].ProductID)
	}

	products, err := repos.ProductRepo().FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load checkout products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Checkout failed")
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for i := range lines {
		product, ok := byID[lines[i].ProductID]
		if !ok || !product.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "A cart item is no longer available")
		}
		if !product.IsInStock(lines[i].Quantity) {
			return nil, shared.ErrInsufficientStock
		}
	}
	return byID, nil
}

func (s *OrderService) redeemCoupon(ctx context.Context, repos TransactionalRepositories, code string, subtotal decimal.Decimal) (string, decimal.Decimal, error) {
	if code == "" {
		return "", decimal.Zero, nil
	}

	coupon, err := repos.CouponRepo().FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", decimal.Zero, shared.NewDomainError("COUPON_NOT_FOUND", "Coupon not found")
		}
		s.logger.Error("Failed to load coupon", zap.Error(err))
		return "", decimal.Zero, shared.NewDomainError("INTERNAL_ERROR", "Checkout failed")
	}

	if err := coupon.ValidateFor(subtotal, time.Now()); err != nil {
		return "", decimal.Zero, err
	}
	if err := coupon.RecordUsage(); err != nil {
		return "", decimal.Zero, err
	}
	if err := repos.CouponRepo().Save(ctx, coupon); err != nil {
		s.logger.Error("Failed to save coupon usage", zap.Error(err))
		return "", decimal.Zero, shared.NewDomainError("INTERNAL_ERROR", "Checkout failed")
	}

	return coupon.Code, coupon.Discount(subtotal), nil
}

// shippingFee computes the fee for a subtotal. Orders at or above the
// free threshold ship free; a zero threshold disables free shipping.
func (s *OrderService) shippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if s.shipping.FreeThreshold.IsPositive() && subtotal.GreaterThanOrEqual(s.shipping.FreeThreshold) {
		return decimal.Zero
	}
	return s.shipping.FlatFee
}

// publishEvents flushes the aggregate's pending events to the bus.
// Event delivery is best effort once the transaction has committed.
func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	o.ClearDomainEvents()

	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order events",
			zap.String("order_number", o.OrderNumber),
			zap.Error(err))
	}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func newListResult(orders []order.Order, total int64, page, pageSize int) *ListOrdersResult {
	infos := make([]OrderInfo, 0, len(orders))
	for i := range orders {
		infos = append(infos, NewOrderInfo(&orders[i]))
	}
	return &ListOrdersResult{
		Orders:   infos,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}
