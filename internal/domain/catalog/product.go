package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// Product represents a sellable item in the catalog.
// Rating fields are denormalized aggregates maintained from reviews.
type Product struct {
	shared.BaseAggregateRoot
	SKU         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	ImageURL    string          `gorm:"type:varchar(500)"`
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	RatingCount int             `gorm:"not null;default:0"`
	RatingSum   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(sku, name string, price decimal.Decimal) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Name:              name,
		Price:             price,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrice sets the selling price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetImageURL sets the product image URL
func (p *Product) SetImageURL(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}

	p.ImageURL = url
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetStock replaces the stock level
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Stock = stock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// DecrementStock reduces stock by the given quantity.
// Stock may never go negative.
func (p *Product) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Stock < quantity {
		return shared.ErrInsufficientStock
	}

	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if p.Stock == 0 {
		p.AddDomainEvent(NewProductOutOfStockEvent(p))
	}

	return nil
}

// IncrementStock increases stock by the given quantity (restock, cancellation)
func (p *Product) IncrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	p.Stock += quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Archive removes the product from sale without deleting it
func (p *Product) Archive() error {
	if p.Status == ProductStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Product is already archived")
	}

	p.Status = ProductStatusArchived
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Restore puts an archived product back on sale
func (p *Product) Restore() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsActive returns true if the product is available for sale
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsInStock returns true if at least the given quantity is available
func (p *Product) IsInStock(quantity int) bool {
	return p.Stock >= quantity
}

// AddRating folds a new review rating into the aggregate
func (p *Product) AddRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}

	p.RatingCount++
	p.RatingSum += rating
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ReplaceRating swaps an existing review rating for a new one
func (p *Product) ReplaceRating(oldRating, newRating int) error {
	if newRating < MinRating || newRating > MaxRating {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	if p.RatingCount == 0 {
		return shared.NewDomainError("INVALID_STATE", "Product has no ratings")
	}

	p.RatingSum += newRating - oldRating
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// RemoveRating removes a review rating from the aggregate
func (p *Product) RemoveRating(rating int) error {
	if p.RatingCount == 0 {
		return shared.NewDomainError("INVALID_STATE", "Product has no ratings")
	}

	p.RatingCount--
	p.RatingSum -= rating
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// AverageRating returns the average review rating, 0 when unreviewed
func (p *Product) AverageRating() decimal.Decimal {
	if p.RatingCount == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(p.RatingSum)).
		Div(decimal.NewFromInt(int64(p.RatingCount))).
		Round(2)
}

// validateSKU validates the product SKU
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
