package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockReviewRepository is a mock implementation of catalog.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]catalog.Review, error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*catalog.Review, error) {
	args := m.Called(ctx, productID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Review), args.Error(1)
}

func (m *MockReviewRepository) Save(ctx context.Context, review *catalog.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func newReviewHandler(reviewRepo *MockReviewRepository, productRepo *MockProductRepository) *ReviewHandler {
	service := catalogapp.NewReviewService(reviewRepo, productRepo, zap.NewNop())
	return NewReviewHandler(service)
}

func TestReviewHandler_Create_Success(t *testing.T) {
	userID := uuid.New()
	product := newTestProduct(t, "WIDGET-001")

	reviewRepo := new(MockReviewRepository)
	reviewRepo.On("FindByProductAndUser", mock.Anything, product.ID, userID).Return(nil, shared.ErrNotFound)
	reviewRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Review")).Return(nil)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	handler := newReviewHandler(reviewRepo, productRepo)
	router := gin.New()
	router.POST("/products/:id/reviews", withAuth(userID, false), handler.Create)

	rec := performJSON(t, router, http.MethodPost, "/products/"+product.ID.String()+"/reviews", gin.H{
		"rating":  4,
		"title":   "Good widget",
		"comment": "Does what it says.",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rating":4`)
	assert.Equal(t, 1, product.RatingCount)
}

func TestReviewHandler_Create_AlreadyReviewed(t *testing.T) {
	userID := uuid.New()
	product := newTestProduct(t, "WIDGET-001")
	existing, err := catalog.NewReview(product.ID, userID, 5, "Great", "")
	require.NoError(t, err)

	reviewRepo := new(MockReviewRepository)
	reviewRepo.On("FindByProductAndUser", mock.Anything, product.ID, userID).Return(existing, nil)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	handler := newReviewHandler(reviewRepo, productRepo)
	router := gin.New()
	router.POST("/products/:id/reviews", withAuth(userID, false), handler.Create)

	rec := performJSON(t, router, http.MethodPost, "/products/"+product.ID.String()+"/reviews", gin.H{
		"rating": 3,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ALREADY_REVIEWED")
}

func TestReviewHandler_Create_RatingOutOfRange(t *testing.T) {
	handler := newReviewHandler(new(MockReviewRepository), new(MockProductRepository))
	router := gin.New()
	router.POST("/products/:id/reviews", withAuth(uuid.New(), false), handler.Create)

	rec := performJSON(t, router, http.MethodPost, "/products/"+uuid.New().String()+"/reviews", gin.H{
		"rating": 6,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewHandler_ListByProduct(t *testing.T) {
	product := newTestProduct(t, "WIDGET-001")
	review, err := catalog.NewReview(product.ID, uuid.New(), 5, "Great", "Exceeded expectations.")
	require.NoError(t, err)

	reviewRepo := new(MockReviewRepository)
	reviewRepo.On("FindByProduct", mock.Anything, product.ID, mock.Anything).Return([]catalog.Review{*review}, nil)
	reviewRepo.On("CountByProduct", mock.Anything, product.ID).Return(int64(1), nil)

	handler := newReviewHandler(reviewRepo, new(MockProductRepository))
	router := gin.New()
	router.GET("/products/:id/reviews", handler.ListByProduct)

	rec := performJSON(t, router, http.MethodGet, "/products/"+product.ID.String()+"/reviews", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
	assert.Contains(t, rec.Body.String(), "Exceeded expectations.")
}

func TestReviewHandler_Update_NotOwnedHidden(t *testing.T) {
	userID := uuid.New()
	review, err := catalog.NewReview(uuid.New(), uuid.New(), 5, "Great", "")
	require.NoError(t, err)

	reviewRepo := new(MockReviewRepository)
	reviewRepo.On("FindByID", mock.Anything, review.ID).Return(review, nil)

	handler := newReviewHandler(reviewRepo, new(MockProductRepository))
	router := gin.New()
	router.PUT("/reviews/:id", withAuth(userID, false), handler.Update)

	rec := performJSON(t, router, http.MethodPut, "/reviews/"+review.ID.String(), gin.H{
		"rating": 1,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "REVIEW_NOT_FOUND")
}

func TestReviewHandler_Delete_AdminRemovesAnyReview(t *testing.T) {
	product := newTestProduct(t, "WIDGET-001")
	require.NoError(t, product.AddRating(5))
	review, err := catalog.NewReview(product.ID, uuid.New(), 5, "Great", "")
	require.NoError(t, err)

	reviewRepo := new(MockReviewRepository)
	reviewRepo.On("FindByID", mock.Anything, review.ID).Return(review, nil)
	reviewRepo.On("Delete", mock.Anything, review.ID).Return(nil)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	handler := newReviewHandler(reviewRepo, productRepo)
	router := gin.New()
	router.DELETE("/reviews/:id", withAuth(uuid.New(), true), handler.Delete)

	rec := performJSON(t, router, http.MethodDelete, "/reviews/"+review.ID.String(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, product.RatingCount)
}
