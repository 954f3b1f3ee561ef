package order

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/promotion"
)

// TransactionScope provides transactional access to the repositories that
// participate in checkout and cancellation. All repository operations inside
// Execute share one database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the checkout repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() order.OrderRepository
	// CartRepo returns the cart repository scoped to the current transaction
	CartRepo() cart.CartRepository
	// CouponRepo returns the coupon repository scoped to the current transaction
	CouponRepo() promotion.CouponRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing against in-memory repositories.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	orderRepo   order.OrderRepository
	cartRepo    cart.CartRepository
	couponRepo  promotion.CouponRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	orderRepo order.OrderRepository,
	cartRepo cart.CartRepository,
	couponRepo promotion.CouponRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		couponRepo:  couponRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() order.OrderRepository {
	return s.orderRepo
}

// CartRepo returns the cart repository.
func (s *NoOpTransactionScope) CartRepo() cart.CartRepository {
	return s.cartRepo
}

// CouponRepo returns the coupon repository.
func (s *NoOpTransactionScope) CouponRepo() promotion.CouponRepository {
	return s.couponRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
