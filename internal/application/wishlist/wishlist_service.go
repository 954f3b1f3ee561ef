package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/wishlist"
	"go.uber.org/zap"
)

// WishlistItemInfo is one wishlist entry joined with its product
type WishlistItemInfo struct {
	ProductID   uuid.UUID
	SKU         string
	Name        string
	ImageURL    string
	Price       decimal.Decimal
	InStock     bool
	Unavailable bool
	AddedAt     time.Time
}

// WishlistService manages the per-user wishlist
type WishlistService struct {
	wishlistRepo wishlist.WishlistRepository
	cartRepo     cart.CartRepository
	productRepo  catalog.ProductRepository
	logger       *zap.Logger
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(
	wishlistRepo wishlist.WishlistRepository,
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// GetWishlist returns the user's wishlist with product details joined in
func (s *WishlistService) GetWishlist(ctx context.Context, userID uuid.UUID) ([]WishlistItemInfo, error) {
	entries, err := s.wishlistRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load wishlist", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load wishlist")
	}
	if len(entries) == 0 {
		return []WishlistItemInfo{}, nil
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for i := range entries {
		ids = append(ids, entries[i].ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load wishlist products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load wishlist")
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	infos := make([]WishlistItemInfo, 0, len(entries))
	for i := range entries {
		info := WishlistItemInfo{
			ProductID:   entries[i].ProductID,
			Unavailable: true,
			AddedAt:     entries[i].CreatedAt,
		}
		if product, ok := byID[entries[i].ProductID]; ok && product.IsActive() {
			info.SKU = product.SKU
			info.Name = product.Name
			info.ImageURL = product.ImageURL
			info.Price = product.Price
			info.InStock = product.Stock > 0
			info.Unavailable = false
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// AddProduct saves a product to the wishlist. Saving a product that is
// already wishlisted succeeds without creating a second entry.
func (s *WishlistService) AddProduct(ctx context.Context, userID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if !product.IsActive() {
		return shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is no longer available")
	}

	exists, err := s.wishlistRepo.ExistsByUserAndProduct(ctx, userID, productID)
	if err != nil {
		s.logger.Error("Failed to check wishlist entry", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update wishlist")
	}
	if exists {
		return nil
	}

	entry, err := wishlist.NewWishlistItem(userID, productID)
	if err != nil {
		return err
	}
	if err := s.wishlistRepo.Save(ctx, entry); err != nil {
		s.logger.Error("Failed to save wishlist entry", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update wishlist")
	}
	return nil
}

// RemoveProduct takes a product off the wishlist
func (s *WishlistService) RemoveProduct(ctx context.Context, userID, productID uuid.UUID) error {
	exists, err := s.wishlistRepo.ExistsByUserAndProduct(ctx, userID, productID)
	if err != nil {
		s.logger.Error("Failed to check wishlist entry", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update wishlist")
	}
	if !exists {
		return shared.NewDomainError("WISHLIST_ITEM_NOT_FOUND", "Product is not on the wishlist")
	}

	if err := s.wishlistRepo.DeleteByUserAndProduct(ctx, userID, productID); err != nil {
		s.logger.Error("Failed to delete wishlist entry", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update wishlist")
	}
	return nil
}

// MoveToCart moves a wishlisted product into the cart.
// The wishlist entry is removed only once the cart line is saved.
func (s *WishlistService) MoveToCart(ctx context.Context, userID, productID uuid.UUID) error {
	exists, err := s.wishlistRepo.ExistsByUserAndProduct(ctx, userID, productID)
	if err != nil {
		s.logger.Error("Failed to check wishlist entry", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to move to cart")
	}
	if !exists {
		return shared.NewDomainError("WISHLIST_ITEM_NOT_FOUND", "Product is not on the wishlist")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if !product.IsActive() {
		return shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is no longer available")
	}

	existing, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load cart line", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to move to cart")
	}

	merged := 1
	if existing != nil {
		merged += existing.Quantity
	}
	if err := cart.ValidateQuantity(merged); err != nil {
		return err
	}
	if !product.IsInStock(merged) {
		return shared.ErrInsufficientStock
	}

	line, err := cart.NewCartItem(userID, productID, 1, product.Price)
	if err != nil {
		return err
	}
	if err := s.cartRepo.Merge(ctx, line); err != nil {
		s.logger.Error("Failed to save cart line", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to move to cart")
	}

	if err := s.wishlistRepo.DeleteByUserAndProduct(ctx, userID, productID); err != nil {
		s.logger.Error("Failed to delete wishlist entry", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to move to cart")
	}
	return nil
}
