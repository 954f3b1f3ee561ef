package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCouponHandler(couponRepo *MockCouponRepository, cartRepo *MockCartRepository, productRepo *MockProductRepository) *CouponHandler {
	couponService := promotionapp.NewCouponService(couponRepo, zap.NewNop())
	cartService := cartapp.NewCartService(cartRepo, productRepo, zap.NewNop())
	return NewCouponHandler(couponService, cartService)
}

// newActiveCoupon builds a 10% coupon valid for the next day
func newActiveCoupon(t *testing.T, code string) *promotion.Coupon {
	t.Helper()
	coupon, err := promotion.NewCoupon(
		code,
		promotion.CouponTypePercent,
		decimal.NewFromInt(10),
		decimal.Zero,
		0,
		time.Now().Add(-time.Hour),
		time.Now().Add(24*time.Hour),
	)
	require.NoError(t, err)
	coupon.ClearDomainEvents()
	return coupon
}

// newValidateFixture wires a validate route for a user whose cart
// holds one line at the given unit price and quantity
func newValidateFixture(t *testing.T, couponRepo *MockCouponRepository, unitPrice decimal.Decimal, quantity int) (*gin.Engine, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	product := newTestProduct(t, "WIDGET-001")
	require.NoError(t, product.SetStock(10))
	line, err := cart.NewCartItem(userID, product.ID, quantity, unitPrice)
	require.NoError(t, err)

	cartRepo := new(MockCartRepository)
	cartRepo.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{*line}, nil)
	productRepo := new(MockProductRepository)
	productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)

	handler := newCouponHandler(couponRepo, cartRepo, productRepo)
	router := gin.New()
	router.POST("/coupons/validate", withAuth(userID, false), handler.Validate)
	return router, userID
}

func TestCouponHandler_Create_Success(t *testing.T) {
	couponRepo := new(MockCouponRepository)
	couponRepo.On("ExistsByCode", mock.Anything, "SAVE10").Return(false, nil)
	couponRepo.On("Save", mock.Anything, mock.AnythingOfType("*promotion.Coupon")).Return(nil)

	handler := newCouponHandler(couponRepo, new(MockCartRepository), new(MockProductRepository))
	router := gin.New()
	router.POST("/admin/coupons", withAuth(uuid.New(), true), handler.Create)

	rec := performJSON(t, router, http.MethodPost, "/admin/coupons", gin.H{
		"code":       "SAVE10",
		"type":       "percent",
		"value":      "10",
		"starts_at":  time.Now().Format(time.RFC3339),
		"expires_at": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"SAVE10"`)
	couponRepo.AssertExpectations(t)
}

func TestCouponHandler_Create_CodeTaken(t *testing.T) {
	couponRepo := new(MockCouponRepository)
	couponRepo.On("ExistsByCode", mock.Anything, "SAVE10").Return(true, nil)

	handler := newCouponHandler(couponRepo, new(MockCartRepository), new(MockProductRepository))
	router := gin.New()
	router.POST("/admin/coupons", withAuth(uuid.New(), true), handler.Create)

	rec := performJSON(t, router, http.MethodPost, "/admin/coupons", gin.H{
		"code":       "SAVE10",
		"type":       "percent",
		"value":      "10",
		"starts_at":  time.Now().Format(time.RFC3339),
		"expires_at": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "CODE_TAKEN")
}

func TestCouponHandler_Create_InvalidType(t *testing.T) {
	handler := newCouponHandler(new(MockCouponRepository), new(MockCartRepository), new(MockProductRepository))
	router := gin.New()
	router.POST("/admin/coupons", withAuth(uuid.New(), true), handler.Create)

	rec := performJSON(t, router, http.MethodPost, "/admin/coupons", gin.H{
		"code":       "SAVE10",
		"type":       "bogus",
		"value":      "10",
		"starts_at":  time.Now().Format(time.RFC3339),
		"expires_at": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCouponHandler_Update_Success(t *testing.T) {
	coupon := newActiveCoupon(t, "SAVE10")
	couponRepo := new(MockCouponRepository)
	couponRepo.On("FindByID", mock.Anything, coupon.ID).Return(coupon, nil)
	couponRepo.On("Save", mock.Anything, mock.AnythingOfType("*promotion.Coupon")).Return(nil)

	handler := newCouponHandler(couponRepo, new(MockCartRepository), new(MockProductRepository))
	router := gin.New()
	router.PUT("/admin/coupons/:id", withAuth(uuid.New(), true), handler.Update)

	rec := performJSON(t, router, http.MethodPut, "/admin/coupons/"+coupon.ID.String(), gin.H{
		"code":         "IGNORED",
		"value":        "25",
		"min_subtotal": "100",
		"usage_limit":  50,
		"starts_at":    time.Now().Format(time.RFC3339),
		"expires_at":   time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"SAVE10"`)
	assert.True(t, decimal.NewFromInt(25).Equal(coupon.Value))
	assert.Equal(t, 50, coupon.UsageLimit)
	couponRepo.AssertExpectations(t)
}

func TestCouponHandler_Update_NotFound(t *testing.T) {
	couponRepo := new(MockCouponRepository)
	couponRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	handler := newCouponHandler(couponRepo, new(MockCartRepository), new(MockProductRepository))
	router := gin.New()
	router.PUT("/admin/coupons/:id", withAuth(uuid.New(), true), handler.Update)

	rec := performJSON(t, router, http.MethodPut, "/admin/coupons/"+uuid.New().String(), gin.H{
		"value":      "25",
		"starts_at":  time.Now().Format(time.RFC3339),
		"expires_at": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "COUPON_NOT_FOUND")
}

func TestCouponHandler_Update_InvalidValue(t *testing.T) {
	coupon := newActiveCoupon(t, "SAVE10")
	couponRepo := new(MockCouponRepository)
	couponRepo.On("FindByID", mock.Anything, coupon.ID).Return(coupon, nil)

	handler := newCouponHandler(couponRepo, new(MockCartRepository), new(MockProductRepository))
	router := gin.New()
	router.PUT("/admin/coupons/:id", withAuth(uuid.New(), true), handler.Update)

	rec := performJSON(t, router, http.MethodPut, "/admin/coupons/"+coupon.ID.String(), gin.H{
		"value":      "150",
		"starts_at":  time.Now().Format(time.RFC3339),
		"expires_at": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_COUPON_VALUE")
	couponRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCouponHandler_Validate_Applicable(t *testing.T) {
	coupon := newActiveCoupon(t, "SAVE10")
	couponRepo := new(MockCouponRepository)
	couponRepo.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)

	router, _ := newValidateFixture(t, couponRepo, decimal.NewFromInt(50), 2)

	rec := performJSON(t, router, http.MethodPost, "/coupons/validate", gin.H{
		"code": "SAVE10",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":true`)
	assert.Contains(t, rec.Body.String(), `"discount":"10"`)
}

func TestCouponHandler_Validate_UnknownCode(t *testing.T) {
	couponRepo := new(MockCouponRepository)
	couponRepo.On("FindByCode", mock.Anything, "GHOST").Return(nil, shared.ErrNotFound)

	router, _ := newValidateFixture(t, couponRepo, decimal.NewFromInt(50), 2)

	rec := performJSON(t, router, http.MethodPost, "/coupons/validate", gin.H{
		"code": "GHOST",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":false`)
	assert.Contains(t, rec.Body.String(), "COUPON_NOT_FOUND")
}

func TestCouponHandler_Validate_SubtotalComesFromCart(t *testing.T) {
	coupon, err := promotion.NewCoupon(
		"BIGSPEND",
		promotion.CouponTypeFixed,
		decimal.NewFromInt(20),
		decimal.NewFromInt(200),
		0,
		time.Now().Add(-time.Hour),
		time.Now().Add(24*time.Hour),
	)
	require.NoError(t, err)

	couponRepo := new(MockCouponRepository)
	couponRepo.On("FindByCode", mock.Anything, "BIGSPEND").Return(coupon, nil)

	// Cart subtotal is 50; a subtotal claimed in the request body must
	// not override it
	router, _ := newValidateFixture(t, couponRepo, decimal.NewFromInt(25), 2)

	rec := performJSON(t, router, http.MethodPost, "/coupons/validate", gin.H{
		"code":     "BIGSPEND",
		"subtotal": "500",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":false`)
	assert.Contains(t, rec.Body.String(), "COUPON_MIN_SUBTOTAL")
}

func TestCouponHandler_Validate_Unauthenticated(t *testing.T) {
	handler := newCouponHandler(new(MockCouponRepository), new(MockCartRepository), new(MockProductRepository))
	router := gin.New()
	router.POST("/coupons/validate", handler.Validate)

	rec := performJSON(t, router, http.MethodPost, "/coupons/validate", gin.H{
		"code": "SAVE10",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCouponHandler_Disable(t *testing.T) {
	coupon := newActiveCoupon(t, "SAVE10")
	couponRepo := new(MockCouponRepository)
	couponRepo.On("FindByID", mock.Anything, coupon.ID).Return(coupon, nil)
	couponRepo.On("Save", mock.Anything, mock.AnythingOfType("*promotion.Coupon")).Return(nil)

	handler := newCouponHandler(couponRepo, new(MockCartRepository), new(MockProductRepository))
	router := gin.New()
	router.POST("/admin/coupons/:id/disable", withAuth(uuid.New(), true), handler.Disable)

	rec := performJSON(t, router, http.MethodPost, "/admin/coupons/"+coupon.ID.String()+"/disable", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, promotion.CouponStatusDisabled, coupon.Status)
}

func TestCouponHandler_Delete_RedeemedRejected(t *testing.T) {
	coupon := newActiveCoupon(t, "SAVE10")
	require.NoError(t, coupon.RecordUsage())

	couponRepo := new(MockCouponRepository)
	couponRepo.On("FindByID", mock.Anything, coupon.ID).Return(coupon, nil)

	handler := newCouponHandler(couponRepo, new(MockCartRepository), new(MockProductRepository))
	router := gin.New()
	router.DELETE("/admin/coupons/:id", withAuth(uuid.New(), true), handler.Delete)

	rec := performJSON(t, router, http.MethodDelete, "/admin/coupons/"+coupon.ID.String(), nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "COUPON_IN_USE")
}
