package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCartRepository is a mock implementation of cart.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.CartItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]cart.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, item *cart.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) Merge(ctx context.Context, item *cart.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func newCartHandler(cartRepo *MockCartRepository, productRepo *MockProductRepository) *CartHandler {
	service := cartapp.NewCartService(cartRepo, productRepo, zap.NewNop())
	return NewCartHandler(service)
}

func newCartRouter(handler *CartHandler, userID uuid.UUID) *gin.Engine {
	router := gin.New()
	group := router.Group("/cart", withAuth(userID, false))
	group.GET("", handler.Get)
	group.POST("/items", handler.AddItem)
	group.PUT("/items/:id", handler.UpdateItem)
	group.DELETE("/items/:id", handler.RemoveItem)
	group.DELETE("", handler.Clear)
	return router
}

func TestCartHandler_Get_Empty(t *testing.T) {
	userID := uuid.New()
	cartRepo := new(MockCartRepository)
	cartRepo.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{}, nil)

	router := newCartRouter(newCartHandler(cartRepo, new(MockProductRepository)), userID)
	rec := performJSON(t, router, http.MethodGet, "/cart", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"item_count":0`)
	assert.Contains(t, rec.Body.String(), `"subtotal":"0"`)
}

func TestCartHandler_Get_WithItems(t *testing.T) {
	userID := uuid.New()
	product := newTestProduct(t, "WIDGET-001")
	require.NoError(t, product.SetStock(10))

	item, err := cart.NewCartItem(userID, product.ID, 2, product.Price)
	require.NoError(t, err)

	cartRepo := new(MockCartRepository)
	cartRepo.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{*item}, nil)
	productRepo := new(MockProductRepository)
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)

	router := newCartRouter(newCartHandler(cartRepo, productRepo), userID)
	rec := performJSON(t, router, http.MethodGet, "/cart", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"item_count":2`)
	assert.Contains(t, rec.Body.String(), `"subtotal":"39.98"`)
}

func TestCartHandler_AddItem_Success(t *testing.T) {
	userID := uuid.New()
	product := newTestProduct(t, "WIDGET-001")
	require.NoError(t, product.SetStock(10))

	cartRepo := new(MockCartRepository)
	cartRepo.On("FindByUserAndProduct", mock.Anything, userID, product.ID).Return(nil, shared.ErrNotFound)
	cartRepo.On("Merge", mock.Anything, mock.AnythingOfType("*cart.CartItem")).Return(nil)
	cartRepo.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{}, nil)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := newCartRouter(newCartHandler(cartRepo, productRepo), userID)
	rec := performJSON(t, router, http.MethodPost, "/cart/items", gin.H{
		"product_id": product.ID.String(),
		"quantity":   2,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	cartRepo.AssertExpectations(t)
}

func TestCartHandler_AddItem_InsufficientStock(t *testing.T) {
	userID := uuid.New()
	product := newTestProduct(t, "WIDGET-001")
	require.NoError(t, product.SetStock(1))

	cartRepo := new(MockCartRepository)
	cartRepo.On("FindByUserAndProduct", mock.Anything, userID, product.ID).Return(nil, shared.ErrNotFound)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := newCartRouter(newCartHandler(cartRepo, productRepo), userID)
	rec := performJSON(t, router, http.MethodPost, "/cart/items", gin.H{
		"product_id": product.ID.String(),
		"quantity":   5,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "INSUFFICIENT_STOCK")
}

func TestCartHandler_AddItem_ArchivedProduct(t *testing.T) {
	userID := uuid.New()
	product := newTestProduct(t, "WIDGET-001")
	require.NoError(t, product.Archive())

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := newCartRouter(newCartHandler(new(MockCartRepository), productRepo), userID)
	rec := performJSON(t, router, http.MethodPost, "/cart/items", gin.H{
		"product_id": product.ID.String(),
		"quantity":   1,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "PRODUCT_UNAVAILABLE")
}

func TestCartHandler_AddItem_QuantityOutOfRange(t *testing.T) {
	userID := uuid.New()
	router := newCartRouter(newCartHandler(new(MockCartRepository), new(MockProductRepository)), userID)

	rec := performJSON(t, router, http.MethodPost, "/cart/items", gin.H{
		"product_id": uuid.New().String(),
		"quantity":   0,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandler_UpdateItem_NotOwned(t *testing.T) {
	userID := uuid.New()
	otherUser := uuid.New()
	item, err := cart.NewCartItem(otherUser, uuid.New(), 1, decimal.NewFromInt(10))
	require.NoError(t, err)

	cartRepo := new(MockCartRepository)
	cartRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)

	router := newCartRouter(newCartHandler(cartRepo, new(MockProductRepository)), userID)
	rec := performJSON(t, router, http.MethodPut, "/cart/items/"+item.ID.String(), gin.H{
		"quantity": 3,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "CART_ITEM_NOT_FOUND")
}

func TestCartHandler_RemoveItem(t *testing.T) {
	userID := uuid.New()
	item, err := cart.NewCartItem(userID, uuid.New(), 1, decimal.NewFromInt(10))
	require.NoError(t, err)

	cartRepo := new(MockCartRepository)
	cartRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	cartRepo.On("Delete", mock.Anything, item.ID).Return(nil)
	cartRepo.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{}, nil)

	router := newCartRouter(newCartHandler(cartRepo, new(MockProductRepository)), userID)
	rec := performJSON(t, router, http.MethodDelete, "/cart/items/"+item.ID.String(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	cartRepo.AssertExpectations(t)
}

func TestCartHandler_Clear(t *testing.T) {
	userID := uuid.New()
	cartRepo := new(MockCartRepository)
	cartRepo.On("DeleteByUser", mock.Anything, userID).Return(nil)

	router := newCartRouter(newCartHandler(cartRepo, new(MockProductRepository)), userID)
	rec := performJSON(t, router, http.MethodDelete, "/cart", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cartRepo.AssertExpectations(t)
}
