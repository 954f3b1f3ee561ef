package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Rating bounds for product reviews
const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a customer review of a product.
// A user may leave at most one review per product.
type Review struct {
	shared.BaseAggregateRoot
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_review_product_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_review_product_user,priority:2"`
	Rating    int       `gorm:"not null"`
	Title     string    `gorm:"type:varchar(200)"`
	Comment   string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a new product review
func NewReview(productID, userID uuid.UUID, rating int, title, comment string) (*Review, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if err := validateReviewContent(title, comment); err != nil {
		return nil, err
	}

	review := &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		UserID:            userID,
		Rating:            rating,
		Title:             strings.TrimSpace(title),
		Comment:           strings.TrimSpace(comment),
	}

	review.AddDomainEvent(NewReviewCreatedEvent(review))

	return review, nil
}

// Update replaces the review's rating and content
func (r *Review) Update(rating int, title, comment string) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	if err := validateReviewContent(title, comment); err != nil {
		return err
	}

	r.Rating = rating
	r.Title = strings.TrimSpace(title)
	r.Comment = strings.TrimSpace(comment)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// BelongsTo returns true if the review was written by the given user
func (r *Review) BelongsTo(userID uuid.UUID) bool {
	return r.UserID == userID
}

// validateRating validates a review rating
func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	return nil
}

// validateReviewContent validates title and comment lengths
func validateReviewContent(title, comment string) error {
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Review title cannot exceed 200 characters")
	}
	if len(comment) > 5000 {
		return shared.NewDomainError("INVALID_COMMENT", "Review comment cannot exceed 5000 characters")
	}
	return nil
}
