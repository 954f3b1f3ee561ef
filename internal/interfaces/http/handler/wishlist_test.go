package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	wishlistapp "github.com/storefront/backend/internal/application/wishlist"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/wishlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockWishlistRepository is a mock implementation of wishlist.WishlistRepository
type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]wishlist.WishlistItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wishlist.WishlistItem), args.Error(1)
}

func (m *MockWishlistRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*wishlist.WishlistItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wishlist.WishlistItem), args.Error(1)
}

func (m *MockWishlistRepository) ExistsByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWishlistRepository) Save(ctx context.Context, item *wishlist.WishlistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockWishlistRepository) DeleteByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockWishlistRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func newWishlistHandler(wishlistRepo *MockWishlistRepository, cartRepo *MockCartRepository, productRepo *MockProductRepository) *WishlistHandler {
	service := wishlistapp.NewWishlistService(wishlistRepo, cartRepo, productRepo, zap.NewNop())
	return NewWishlistHandler(service)
}

func newWishlistRouter(handler *WishlistHandler, userID uuid.UUID) *gin.Engine {
	router := gin.New()
	group := router.Group("/wishlist", withAuth(userID, false))
	group.GET("", handler.Get)
	group.POST("/:id", handler.Add)
	group.DELETE("/:id", handler.Remove)
	group.POST("/:id/move-to-cart", handler.MoveToCart)
	return router
}

func TestWishlistHandler_Get(t *testing.T) {
	userID := uuid.New()
	product := newTestProduct(t, "WIDGET-001")
	entry, err := wishlist.NewWishlistItem(userID, product.ID)
	require.NoError(t, err)

	wishlistRepo := new(MockWishlistRepository)
	wishlistRepo.On("FindByUser", mock.Anything, userID).Return([]wishlist.WishlistItem{*entry}, nil)
	productRepo := new(MockProductRepository)
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)

	router := newWishlistRouter(newWishlistHandler(wishlistRepo, new(MockCartRepository), productRepo), userID)
	rec := performJSON(t, router, http.MethodGet, "/wishlist", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sku":"WIDGET-001"`)
}

func TestWishlistHandler_Add_Idempotent(t *testing.T) {
	userID := uuid.New()
	product := newTestProduct(t, "WIDGET-001")

	wishlistRepo := new(MockWishlistRepository)
	wishlistRepo.On("ExistsByUserAndProduct", mock.Anything, userID, product.ID).Return(true, nil)
	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := newWishlistRouter(newWishlistHandler(wishlistRepo, new(MockCartRepository), productRepo), userID)
	rec := performJSON(t, router, http.MethodPost, "/wishlist/"+product.ID.String(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	wishlistRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestWishlistHandler_Add_ArchivedProduct(t *testing.T) {
	userID := uuid.New()
	product := newTestProduct(t, "WIDGET-001")
	require.NoError(t, product.Archive())

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := newWishlistRouter(newWishlistHandler(new(MockWishlistRepository), new(MockCartRepository), productRepo), userID)
	rec := performJSON(t, router, http.MethodPost, "/wishlist/"+product.ID.String(), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "PRODUCT_UNAVAILABLE")
}

func TestWishlistHandler_Remove_NotListed(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	wishlistRepo := new(MockWishlistRepository)
	wishlistRepo.On("ExistsByUserAndProduct", mock.Anything, userID, productID).Return(false, nil)

	router := newWishlistRouter(newWishlistHandler(wishlistRepo, new(MockCartRepository), new(MockProductRepository)), userID)
	rec := performJSON(t, router, http.MethodDelete, "/wishlist/"+productID.String(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "WISHLIST_ITEM_NOT_FOUND")
}

func TestWishlistHandler_MoveToCart_NewLine(t *testing.T) {
	userID := uuid.New()
	product := newTestProduct(t, "WIDGET-001")
	require.NoError(t, product.SetStock(5))

	wishlistRepo := new(MockWishlistRepository)
	wishlistRepo.On("ExistsByUserAndProduct", mock.Anything, userID, product.ID).Return(true, nil)
	wishlistRepo.On("DeleteByUserAndProduct", mock.Anything, userID, product.ID).Return(nil)

	cartRepo := new(MockCartRepository)
	cartRepo.On("FindByUserAndProduct", mock.Anything, userID, product.ID).Return(nil, shared.ErrNotFound)
	cartRepo.On("Merge", mock.Anything, mock.AnythingOfType("*cart.CartItem")).Return(nil)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := newWishlistRouter(newWishlistHandler(wishlistRepo, cartRepo, productRepo), userID)
	rec := performJSON(t, router, http.MethodPost, "/wishlist/"+product.ID.String()+"/move-to-cart", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	wishlistRepo.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
}

func TestWishlistHandler_MoveToCart_MergesExistingLine(t *testing.T) {
	userID := uuid.New()
	product := newTestProduct(t, "WIDGET-001")
	require.NoError(t, product.SetStock(5))
	line, err := cart.NewCartItem(userID, product.ID, 2, product.Price)
	require.NoError(t, err)

	wishlistRepo := new(MockWishlistRepository)
	wishlistRepo.On("ExistsByUserAndProduct", mock.Anything, userID, product.ID).Return(true, nil)
	wishlistRepo.On("DeleteByUserAndProduct", mock.Anything, userID, product.ID).Return(nil)

	cartRepo := new(MockCartRepository)
	cartRepo.On("FindByUserAndProduct", mock.Anything, userID, product.ID).Return(line, nil)
	cartRepo.On("Merge", mock.Anything, mock.AnythingOfType("*cart.CartItem")).Return(nil)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := newWishlistRouter(newWishlistHandler(wishlistRepo, cartRepo, productRepo), userID)
	rec := performJSON(t, router, http.MethodPost, "/wishlist/"+product.ID.String()+"/move-to-cart", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	cartRepo.AssertExpectations(t)
}

func TestWishlistHandler_MoveToCart_OutOfStock(t *testing.T) {
	userID := uuid.New()
	product := newTestProduct(t, "WIDGET-001")

	wishlistRepo := new(MockWishlistRepository)
	wishlistRepo.On("ExistsByUserAndProduct", mock.Anything, userID, product.ID).Return(true, nil)

	cartRepo := new(MockCartRepository)
	cartRepo.On("FindByUserAndProduct", mock.Anything, userID, product.ID).Return(nil, shared.ErrNotFound)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := newWishlistRouter(newWishlistHandler(wishlistRepo, cartRepo, productRepo), userID)
	rec := performJSON(t, router, http.MethodPost, "/wishlist/"+product.ID.String()+"/move-to-cart", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "INSUFFICIENT_STOCK")
}
