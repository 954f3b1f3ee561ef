package catalog

import (
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeCategory = "Category"
	AggregateTypeProduct  = "Product"
	AggregateTypeReview   = "Review"
)

// Catalog domain event types
const (
	EventTypeCategoryCreated   = "CategoryCreated"
	EventTypeProductCreated    = "ProductCreated"
	EventTypeProductOutOfStock = "ProductOutOfStock"
	EventTypeReviewCreated     = "ReviewCreated"
)

// CategoryCreatedEvent is published when a category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(category *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, AggregateTypeCategory, category.ID),
		Slug:            category.Slug,
		Name:            category.Name,
	}
}

// ProductCreatedEvent is published when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		SKU:             product.SKU,
		Name:            product.Name,
	}
}

// ProductOutOfStockEvent is published when a product's stock reaches zero
type ProductOutOfStockEvent struct {
	shared.BaseDomainEvent
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// NewProductOutOfStockEvent creates a new ProductOutOfStockEvent
func NewProductOutOfStockEvent(product *Product) *ProductOutOfStockEvent {
	return &ProductOutOfStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductOutOfStock, AggregateTypeProduct, product.ID),
		SKU:             product.SKU,
		Name:            product.Name,
	}
}

// ReviewCreatedEvent is published when a review is created
type ReviewCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
}

// NewReviewCreatedEvent creates a new ReviewCreatedEvent
func NewReviewCreatedEvent(review *Review) *ReviewCreatedEvent {
	return &ReviewCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewCreated, AggregateTypeReview, review.ID),
		ProductID:       review.ProductID.String(),
		Rating:          review.Rating,
	}
}
