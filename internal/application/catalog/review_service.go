package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReviewService manages product reviews and keeps the denormalized
// rating aggregate on the product in step with them.
type ReviewService struct {
	reviewRepo  catalog.ReviewRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(reviewRepo catalog.ReviewRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// ListReviews returns a page of reviews for a product, newest first
func (s *ReviewService) ListReviews(ctx context.Context, productID uuid.UUID, page, pageSize int) (*ListReviewsResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	reviews, err := s.reviewRepo.FindByProduct(ctx, productID, shared.Filter{Page: page, PageSize: pageSize})
	if err != nil {
		s.logger.Error("Failed to list reviews", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list reviews")
	}
	total, err := s.reviewRepo.CountByProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to count reviews", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list reviews")
	}

	infos := make([]ReviewInfo, 0, len(reviews))
	for i := range reviews {
		infos = append(infos, NewReviewInfo(&reviews[i]))
	}

	return &ListReviewsResult{
		Reviews:  infos,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// CreateReview posts a review and folds its rating into the product.
// Each user may review a product once.
func (s *ReviewService) CreateReview(ctx context.Context, input CreateReviewInput) (*ReviewInfo, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	existing, err := s.reviewRepo.FindByProductAndUser(ctx, input.ProductID, input.UserID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check existing review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create review")
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_REVIEWED", "You have already reviewed this product")
	}

	review, err := catalog.NewReview(input.ProductID, input.UserID, input.Rating, input.Title, input.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, review); err != nil {
		s.logger.Error("Failed to save review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create review")
	}

	if err := product.AddRating(review.Rating); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to update product rating", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create review")
	}

	s.logger.Info("Review created",
		zap.String("product_id", input.ProductID.String()),
		zap.String("user_id", input.UserID.String()),
		zap.Int("rating", review.Rating))

	info := NewReviewInfo(review)
	return &info, nil
}

// UpdateReview edits the caller's review and adjusts the product rating
func (s *ReviewService) UpdateReview(ctx context.Context, input UpdateReviewInput) (*ReviewInfo, error) {
	review, err := s.reviewRepo.FindByID(ctx, input.ReviewID)
	if err != nil {
		return nil, shared.NewDomainError("REVIEW_NOT_FOUND", "Review not found")
	}
	if !review.BelongsTo(input.UserID) {
		return nil, shared.NewDomainError("REVIEW_NOT_FOUND", "Review not found")
	}

	oldRating := review.Rating
	if err := review.Update(input.Rating, input.Title, input.Comment); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, review); err != nil {
		s.logger.Error("Failed to save review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update review")
	}

	if oldRating != review.Rating {
		if err := s.adjustProductRating(ctx, review.ProductID, func(p *catalog.Product) error {
			return p.ReplaceRating(oldRating, review.Rating)
		}); err != nil {
			return nil, err
		}
	}

	info := NewReviewInfo(review)
	return &info, nil
}

// DeleteReview removes a review and its rating from the product.
// Admins may delete any review; users only their own.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID, isAdmin bool) error {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return shared.NewDomainError("REVIEW_NOT_FOUND", "Review not found")
	}
	if !isAdmin && !review.BelongsTo(userID) {
		return shared.NewDomainError("REVIEW_NOT_FOUND", "Review not found")
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		s.logger.Error("Failed to delete review", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete review")
	}

	return s.adjustProductRating(ctx, review.ProductID, func(p *catalog.Product) error {
		return p.RemoveRating(review.Rating)
	})
}

func (s *ReviewService) adjustProductRating(ctx context.Context, productID uuid.UUID, adjust func(*catalog.Product) error) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		// The review outlived its product. Nothing left to adjust.
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		s.logger.Error("Failed to load product for rating adjustment", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update product rating")
	}

	if err := adjust(product); err != nil {
		return err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product rating", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update product rating")
	}
	return nil
}
