package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	domain "github.com/storefront/backend/internal/domain/catalog"
)

// CategoryInfo is the client representation of a category
type CategoryInfo struct {
	ID          uuid.UUID
	Slug        string
	Name        string
	Description string
	SortOrder   int
	Status      string
	CreatedAt   time.Time
}

// NewCategoryInfo maps a category aggregate to its client representation
func NewCategoryInfo(c *domain.Category) CategoryInfo {
	return CategoryInfo{
		ID:          c.ID,
		Slug:        c.Slug,
		Name:        c.Name,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
	}
}

// CreateCategoryInput contains the input for creating a category
type CreateCategoryInput struct {
	Slug        string
	Name        string
	Description string
	SortOrder   int
}

// UpdateCategoryInput contains the input for updating a category
type UpdateCategoryInput struct {
	CategoryID  uuid.UUID
	Name        string
	Description string
	SortOrder   int
}

// ProductInfo is the client representation of a product
type ProductInfo struct {
	ID            uuid.UUID
	SKU           string
	Name          string
	Description   string
	CategoryID    *uuid.UUID
	Price         decimal.Decimal
	Stock         int
	InStock       bool
	ImageURL      string
	Status        string
	RatingCount   int
	AverageRating decimal.Decimal
	CreatedAt     time.Time
}

// NewProductInfo maps a product aggregate to its client representation
func NewProductInfo(p *domain.Product) ProductInfo {
	return ProductInfo{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		Price:         p.Price,
		Stock:         p.Stock,
		InStock:       p.Stock > 0,
		ImageURL:      p.ImageURL,
		Status:        string(p.Status),
		RatingCount:   p.RatingCount,
		AverageRating: p.AverageRating(),
		CreatedAt:     p.CreatedAt,
	}
}

// CreateProductInput contains the input for creating a product
type CreateProductInput struct {
	SKU         string
	Name        string
	Description string
	CategoryID  *uuid.UUID
	Price       decimal.Decimal
	Stock       int
}

// UpdateProductInput contains the input for updating a product
type UpdateProductInput struct {
	ProductID   uuid.UUID
	Name        string
	Description string
	CategoryID  *uuid.UUID
	Price       decimal.Decimal
}

// ListProductsInput contains filters for browsing the catalog
type ListProductsInput struct {
	Search       string
	CategorySlug string
	Status       string // empty = active only for public listings
	IncludeAll   bool   // admin listings include archived products
	Page         int
	PageSize     int
	OrderBy      string
	OrderDir     string
}

// ListProductsResult contains a page of products
type ListProductsResult struct {
	Products []ProductInfo
	Total    int64
	Page     int
	PageSize int
}

// ImageUploadResult contains a presigned upload URL for a product image
type ImageUploadResult struct {
	UploadURL  string
	StorageKey string
	ExpiresAt  time.Time
}

// ReviewInfo is the client representation of a product review
type ReviewInfo struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Title     string
	Comment   string
	CreatedAt time.Time
}

// NewReviewInfo maps a review aggregate to its client representation
func NewReviewInfo(r *domain.Review) ReviewInfo {
	return ReviewInfo{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Title:     r.Title,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// CreateReviewInput contains the input for posting a review
type CreateReviewInput struct {
	ProductID uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Title     string
	Comment   string
}

// UpdateReviewInput contains the input for editing a review
type UpdateReviewInput struct {
	ReviewID uuid.UUID
	UserID   uuid.UUID
	Rating   int
	Title    string
	Comment  string
}

// ListReviewsResult contains a page of reviews for a product
type ListReviewsResult struct {
	Reviews  []ReviewInfo
	Total    int64
	Page     int
	PageSize int
}
