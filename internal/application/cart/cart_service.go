package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CartService manages the per-user shopping cart
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetCart returns the user's cart with product details joined in.
// Lines whose product was archived or deleted are flagged unavailable
// but kept so the user can see what changed.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartInfo, error) {
	items, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
	}

	products, err := s.loadProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	info := &CartInfo{Items: make([]CartItemInfo, 0, len(items)), Subtotal: decimal.Zero}
	for i := range items {
		line := NewCartItemInfo(&items[i], products[items[i].ProductID])
		info.Items = append(info.Items, line)
		if !line.Unavailable {
			info.ItemCount += line.Quantity
			info.Subtotal = info.Subtotal.Add(line.LineTotal)
		}
	}
	return info, nil
}

// AddItem puts a product in the cart, merging with any existing line.
// The quantity fold runs as a single upsert in the database, so two
// concurrent adds of the same product both land.
func (s *CartService) AddItem(ctx context.Context, input AddItemInput) (*CartInfo, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is no longer available")
	}

	existing, err := s.cartRepo.FindByUserAndProduct(ctx, input.UserID, input.ProductID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load cart line", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to add to cart")
	}

	merged := input.Quantity
	if existing != nil {
		merged += existing.Quantity
	}
	if err := cart.ValidateQuantity(merged); err != nil {
		return nil, err
	}
	if !product.IsInStock(merged) {
		return nil, shared.ErrInsufficientStock
	}

	item, err := cart.NewCartItem(input.UserID, input.ProductID, input.Quantity, product.Price)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Merge(ctx, item); err != nil {
		s.logger.Error("Failed to save cart line", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to add to cart")
	}

	return s.GetCart(ctx, input.UserID)
}

// UpdateItem replaces a cart line's quantity
func (s *CartService) UpdateItem(ctx context.Context, input UpdateItemInput) (*CartInfo, error) {
	item, err := s.findOwned(ctx, input.UserID, input.ItemID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if !product.IsInStock(input.Quantity) {
		return nil, shared.ErrInsufficientStock
	}

	if err := item.SetQuantity(input.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, item); err != nil {
		s.logger.Error("Failed to save cart line", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
	}

	return s.GetCart(ctx, input.UserID)
}

// RemoveItem deletes one line from the cart
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartInfo, error) {
	item, err := s.findOwned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.Delete(ctx, item.ID); err != nil {
		s.logger.Error("Failed to delete cart line", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
	}

	return s.GetCart(ctx, userID)
}

// ClearCart empties the user's cart
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.DeleteByUser(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to clear cart")
	}
	return nil
}

func (s *CartService) findOwned(ctx context.Context, userID, itemID uuid.UUID) (*cart.CartItem, error) {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, shared.NewDomainError("CART_ITEM_NOT_FOUND", "Cart item not found")
	}
	if !item.BelongsTo(userID) {
		return nil, shared.NewDomainError("CART_ITEM_NOT_FOUND", "Cart item not found")
	}
	return item, nil
}

func (s *CartService) loadProducts(ctx context.Context, items []cart.CartItem) (map[uuid.UUID]*catalog.Product, error) {
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load cart products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}
