package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	domain "github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]domain.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindActive(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) HasProducts(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

// fakeImageStorage records calls and serves canned answers
type fakeImageStorage struct {
	uploadedKeys map[string]bool
	deletedKeys  []string
	lastKey      string
}

func newFakeImageStorage() *fakeImageStorage {
	return &fakeImageStorage{uploadedKeys: map[string]bool{}}
}

func (f *fakeImageStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	f.lastKey = storageKey
	return "https://storage.test/" + storageKey + "?sig=upload", time.Now().Add(expiresIn), nil
}

func (f *fakeImageStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/" + storageKey + "?sig=download", time.Now().Add(expiresIn), nil
}

func (f *fakeImageStorage) DeleteObject(_ context.Context, storageKey string) error {
	f.deletedKeys = append(f.deletedKeys, storageKey)
	return nil
}

func (f *fakeImageStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	return f.uploadedKeys[storageKey], nil
}

func newTestProduct(t *testing.T, sku string) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(sku, "Test Product", decimal.NewFromFloat(19.99))
	require.NoError(t, err)
	return product
}

func newProductService(productRepo *MockProductRepository, categoryRepo *MockCategoryRepository, storage ImageStorage) *ProductService {
	return NewProductService(productRepo, categoryRepo, storage, zap.NewNop())
}

func TestProductService_CreateProduct(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newProductService(productRepo, categoryRepo, nil)

	productRepo.On("ExistsBySKU", mock.Anything, "WIDGET-001").Return(false, nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	info, err := service.CreateProduct(context.Background(), CreateProductInput{
		SKU:         "WIDGET-001",
		Name:        "Widget",
		Description: "A fine widget",
		Price:       decimal.NewFromFloat(19.99),
		Stock:       5,
	})

	require.NoError(t, err)
	assert.Equal(t, "WIDGET-001", info.SKU)
	assert.Equal(t, 5, info.Stock)
	assert.True(t, info.InStock)
	assert.Equal(t, "active", info.Status)
	productRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_SKUTaken(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newProductService(productRepo, categoryRepo, nil)

	productRepo.On("ExistsBySKU", mock.Anything, "WIDGET-001").Return(true, nil)

	_, err := service.CreateProduct(context.Background(), CreateProductInput{
		SKU:   "WIDGET-001",
		Name:  "Widget",
		Price: decimal.NewFromFloat(19.99),
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SKU_TAKEN", domainErr.Code)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_CreateProduct_UnknownCategory(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newProductService(productRepo, categoryRepo, nil)

	categoryID := uuid.New()
	productRepo.On("ExistsBySKU", mock.Anything, "WIDGET-001").Return(false, nil)
	categoryRepo.On("FindByID", mock.Anything, categoryID).Return(nil, shared.ErrNotFound)

	_, err := service.CreateProduct(context.Background(), CreateProductInput{
		SKU:        "WIDGET-001",
		Name:       "Widget",
		CategoryID: &categoryID,
		Price:      decimal.NewFromFloat(19.99),
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CATEGORY_NOT_FOUND", domainErr.Code)
}

func TestProductService_GetProduct_HidesArchived(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newProductService(productRepo, categoryRepo, nil)

	product := newTestProduct(t, "WIDGET-001")
	require.NoError(t, product.Archive())
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	_, err := service.GetProduct(context.Background(), product.ID, false)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRODUCT_NOT_FOUND", domainErr.Code)

	info, err := service.GetProduct(context.Background(), product.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "archived", info.Status)
}

func TestProductService_ListProducts_PublicForcesActive(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newProductService(productRepo, categoryRepo, nil)

	product := newTestProduct(t, "WIDGET-001")
	matchActive := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "active" && f.Page == 1 && f.PageSize == 20
	})
	productRepo.On("FindAll", mock.Anything, matchActive).Return([]domain.Product{*product}, nil)
	productRepo.On("Count", mock.Anything, matchActive).Return(int64(1), nil)

	result, err := service.ListProducts(context.Background(), ListProductsInput{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "WIDGET-001", result.Products[0].SKU)
	productRepo.AssertExpectations(t)
}

func TestProductService_ListProducts_ByCategorySlug(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newProductService(productRepo, categoryRepo, nil)

	category, err := domain.NewCategory("gadgets", "Gadgets")
	require.NoError(t, err)
	categoryRepo.On("FindBySlug", mock.Anything, "gadgets").Return(category, nil)

	matchCategory := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["category_id"] == category.ID
	})
	productRepo.On("FindAll", mock.Anything, matchCategory).Return([]domain.Product{}, nil)
	productRepo.On("Count", mock.Anything, matchCategory).Return(int64(0), nil)

	result, err := service.ListProducts(context.Background(), ListProductsInput{CategorySlug: "gadgets"})

	require.NoError(t, err)
	assert.Empty(t, result.Products)
	productRepo.AssertExpectations(t)
}

func TestProductService_SetStock(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newProductService(productRepo, categoryRepo, nil)

	product := newTestProduct(t, "WIDGET-001")
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, product).Return(nil)

	err := service.SetStock(context.Background(), product.ID, 42)

	require.NoError(t, err)
	assert.Equal(t, 42, product.Stock)
}

func TestProductService_SetStock_Negative(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newProductService(productRepo, categoryRepo, nil)

	product := newTestProduct(t, "WIDGET-001")
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	err := service.SetStock(context.Background(), product.ID, -1)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STOCK", domainErr.Code)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_GenerateImageUploadURL(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	storage := newFakeImageStorage()
	service := newProductService(productRepo, categoryRepo, storage)

	product := newTestProduct(t, "WIDGET-001")
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	result, err := service.GenerateImageUploadURL(context.Background(), product.ID, "image/png")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.StorageKey, fmt.Sprintf("products/%s/", product.ID)))
	assert.True(t, strings.HasSuffix(result.StorageKey, ".png"))
	assert.Contains(t, result.UploadURL, result.StorageKey)
	assert.WithinDuration(t, time.Now().Add(imageUploadExpiry), result.ExpiresAt, 5*time.Second)
}

func TestProductService_GenerateImageUploadURL_UnsupportedType(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newProductService(productRepo, categoryRepo, newFakeImageStorage())

	_, err := service.GenerateImageUploadURL(context.Background(), uuid.New(), "application/pdf")

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNSUPPORTED_IMAGE_TYPE", domainErr.Code)
}

func TestProductService_ConfirmProductImage(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	storage := newFakeImageStorage()
	service := newProductService(productRepo, categoryRepo, storage)

	product := newTestProduct(t, "WIDGET-001")
	storageKey := fmt.Sprintf("products/%s/abc.png", product.ID)
	storage.uploadedKeys[storageKey] = true

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, product).Return(nil)

	err := service.ConfirmProductImage(context.Background(), product.ID, storageKey)

	require.NoError(t, err)
	assert.Equal(t, storageKey, product.ImageURL)
}

func TestProductService_ConfirmProductImage_NotUploaded(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	storage := newFakeImageStorage()
	service := newProductService(productRepo, categoryRepo, storage)

	product := newTestProduct(t, "WIDGET-001")
	storageKey := fmt.Sprintf("products/%s/abc.png", product.ID)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	err := service.ConfirmProductImage(context.Background(), product.ID, storageKey)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "IMAGE_NOT_UPLOADED", domainErr.Code)
}

func TestProductService_ConfirmProductImage_ForeignKey(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newProductService(productRepo, categoryRepo, newFakeImageStorage())

	err := service.ConfirmProductImage(context.Background(), uuid.New(), fmt.Sprintf("products/%s/abc.png", uuid.New()))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STORAGE_KEY", domainErr.Code)
}

func TestProductService_DeleteProduct_RemovesImage(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	storage := newFakeImageStorage()
	service := newProductService(productRepo, categoryRepo, storage)

	product := newTestProduct(t, "WIDGET-001")
	storageKey := fmt.Sprintf("products/%s/abc.png", product.ID)
	require.NoError(t, product.SetImageURL(storageKey))

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Delete", mock.Anything, product.ID).Return(nil)

	err := service.DeleteProduct(context.Background(), product.ID)

	require.NoError(t, err)
	assert.Equal(t, []string{storageKey}, storage.deletedKeys)
}
