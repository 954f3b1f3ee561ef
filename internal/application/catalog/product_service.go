package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const imageUploadExpiry = 15 * time.Minute

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ProductService manages the product catalog
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	storage      ImageStorage
	logger       *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	storage ImageStorage,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		storage:      storage,
		logger:       logger,
	}
}

// GetProduct returns one product by ID.
// Archived products are hidden unless includeArchived is set.
func (s *ProductService) GetProduct(ctx context.Context, productID uuid.UUID, includeArchived bool) (*ProductInfo, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if !includeArchived && !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	info := NewProductInfo(product)
	return &info, nil
}

// ListProducts returns a page of products.
// Public listings only ever see active products.
func (s *ProductService) ListProducts(ctx context.Context, input ListProductsInput) (*ListProductsResult, error) {
	filter := shared.Filter{
		Page:     input.Page,
		PageSize: input.PageSize,
		Search:   input.Search,
		OrderBy:  input.OrderBy,
		OrderDir: input.OrderDir,
		Filters:  map[string]interface{}{},
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	switch {
	case !input.IncludeAll:
		filter.Filters["status"] = string(catalog.ProductStatusActive)
	case input.Status != "":
		filter.Filters["status"] = input.Status
	}

	if input.CategorySlug != "" {
		category, err := s.categoryRepo.FindBySlug(ctx, input.CategorySlug)
		if err != nil {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		filter.Filters["category_id"] = category.ID
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list products")
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list products")
	}

	infos := make([]ProductInfo, 0, len(products))
	for i := range products {
		infos = append(infos, NewProductInfo(&products[i]))
	}

	return &ListProductsResult{
		Products: infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// CreateProduct adds a new product to the catalog (admin)
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductInfo, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, input.SKU)
	if err != nil {
		s.logger.Error("Failed to check SKU uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
	}
	if exists {
		return nil, shared.NewDomainError("SKU_TAKEN", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(input.SKU, input.Name, input.Price)
	if err != nil {
		return nil, err
	}
	if input.Description != "" {
		if err := product.Update(input.Name, input.Description); err != nil {
			return nil, err
		}
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		product.SetCategory(input.CategoryID)
	}
	if input.Stock > 0 {
		if err := product.SetStock(input.Stock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
	}

	s.logger.Info("Product created",
		zap.String("sku", product.SKU),
		zap.String("product_id", product.ID.String()))

	info := NewProductInfo(product)
	return &info, nil
}

// UpdateProduct updates a product's details (admin)
func (s *ProductService) UpdateProduct(ctx context.Context, input UpdateProductInput) (*ProductInfo, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	if err := product.Update(input.Name, input.Description); err != nil {
		return nil, err
	}
	if err := product.SetPrice(input.Price); err != nil {
		return nil, err
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
	}
	product.SetCategory(input.CategoryID)

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
	}

	info := NewProductInfo(product)
	return &info, nil
}

// SetStock replaces a product's stock level (admin)
func (s *ProductService) SetStock(ctx context.Context, productID uuid.UUID, stock int) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	if err := product.SetStock(stock); err != nil {
		return err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save stock level", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update stock")
	}

	s.logger.Info("Stock updated",
		zap.String("product_id", productID.String()),
		zap.Int("stock", stock))
	return nil
}

// ArchiveProduct removes a product from sale (admin)
func (s *ProductService) ArchiveProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	if err := product.Archive(); err != nil {
		return err
	}
	return s.saveProduct(ctx, product)
}

// RestoreProduct puts an archived product back on sale (admin)
func (s *ProductService) RestoreProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	if err := product.Restore(); err != nil {
		return err
	}
	return s.saveProduct(ctx, product)
}

// DeleteProduct permanently removes a product (admin)
func (s *ProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		s.logger.Error("Failed to delete product", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete product")
	}

	if product.ImageURL != "" && s.storage != nil {
		if err := s.storage.DeleteObject(ctx, imageStorageKey(productID, product.ImageURL)); err != nil {
			s.logger.Warn("Failed to delete product image",
				zap.String("product_id", productID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("Product deleted", zap.String("product_id", productID.String()))
	return nil
}

// GenerateImageUploadURL creates a presigned URL for uploading a product image (admin).
// The client uploads directly to object storage and then confirms the image.
func (s *ProductService) GenerateImageUploadURL(ctx context.Context, productID uuid.UUID, contentType string) (*ImageUploadResult, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Image storage is not configured")
	}

	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_IMAGE_TYPE", "Image must be JPEG, PNG, or WebP")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	storageKey := fmt.Sprintf("products/%s/%s%s", productID, uuid.New(), ext)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType, imageUploadExpiry)
	if err != nil {
		s.logger.Error("Failed to presign image upload", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate upload URL")
	}

	return &ImageUploadResult{
		UploadURL:  uploadURL,
		StorageKey: storageKey,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmProductImage records an uploaded image against the product (admin)
func (s *ProductService) ConfirmProductImage(ctx context.Context, productID uuid.UUID, storageKey string) error {
	if s.storage == nil {
		return shared.NewDomainError("STORAGE_DISABLED", "Image storage is not configured")
	}
	if !strings.HasPrefix(storageKey, fmt.Sprintf("products/%s/", productID)) {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key does not belong to this product")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		s.logger.Error("Failed to check uploaded image", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to confirm image")
	}
	if !exists {
		return shared.NewDomainError("IMAGE_NOT_UPLOADED", "No image found at the given storage key")
	}

	previous := product.ImageURL

	if err := product.SetImageURL(storageKey); err != nil {
		return err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product image", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to confirm image")
	}

	if previous != "" && previous != storageKey {
		if err := s.storage.DeleteObject(ctx, previous); err != nil {
			s.logger.Warn("Failed to delete replaced image",
				zap.String("storage_key", previous),
				zap.Error(err))
		}
	}

	return nil
}

// GetImageURL returns a presigned download URL for a product's image
func (s *ProductService) GetImageURL(ctx context.Context, productID uuid.UUID) (string, error) {
	if s.storage == nil {
		return "", shared.NewDomainError("STORAGE_DISABLED", "Image storage is not configured")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return "", shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if product.ImageURL == "" {
		return "", shared.NewDomainError("IMAGE_NOT_FOUND", "Product has no image")
	}

	url, _, err := s.storage.GenerateDownloadURL(ctx, product.ImageURL, imageUploadExpiry)
	if err != nil {
		s.logger.Error("Failed to presign image download", zap.Error(err))
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to generate image URL")
	}
	return url, nil
}

func (s *ProductService) saveProduct(ctx context.Context, product *catalog.Product) error {
	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
	}
	return nil
}

// imageStorageKey normalizes an image reference to its storage key.
// Older records may hold a full URL instead of a bare key.
func imageStorageKey(productID uuid.UUID, imageRef string) string {
	if strings.HasPrefix(imageRef, "products/") {
		return imageRef
	}
	return path.Join("products", productID.String(), path.Base(imageRef))
}
