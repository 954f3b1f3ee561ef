package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles catalog product endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// ListProductsRequest represents catalog browsing filters
type ListProductsRequest struct {
	dto.ListRequest
	Category string `form:"category"`
	Status   string `form:"status" binding:"omitempty,oneof=active archived"`
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	SKU         string          `json:"sku" binding:"required,min=1,max=50"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"omitempty,max=5000"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"omitempty,min=0"`
}

// UpdateProductRequest represents the request body for updating a product
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"omitempty,max=5000"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// SetStockRequest represents the request body for setting stock
type SetStockRequest struct {
	Stock int `json:"stock" binding:"min=0"`
}

// ImageUploadRequest represents the request body for requesting an image upload URL
type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// ConfirmImageRequest represents the request body for confirming an uploaded image
type ConfirmImageRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
}

// ProductResponse represents a product in responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	InStock       bool            `json:"in_stock"`
	ImageURL      string          `json:"image_url,omitempty"`
	Status        string          `json:"status"`
	RatingCount   int             `json:"rating_count"`
	AverageRating decimal.Decimal `json:"average_rating"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ImageUploadResponse represents a presigned upload grant
type ImageUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func toProductResponse(info catalogapp.ProductInfo) ProductResponse {
	return ProductResponse{
		ID:            info.ID,
		SKU:           info.SKU,
		Name:          info.Name,
		Description:   info.Description,
		CategoryID:    info.CategoryID,
		Price:         info.Price,
		Stock:         info.Stock,
		InStock:       info.InStock,
		ImageURL:      info.ImageURL,
		Status:        info.Status,
		RatingCount:   info.RatingCount,
		AverageRating: info.AverageRating,
		CreatedAt:     info.CreatedAt,
	}
}

// List godoc
// @Summary      Browse the catalog
// @Description  Public listings only include active products. Admin tokens may pass status=archived.
// @Tags         products
// @Produce      json
// @Success      200 {object} dto.Response{data=[]ProductResponse,meta=dto.Meta}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	input := catalogapp.ListProductsInput{
		Search:       req.Search,
		CategorySlug: req.Category,
		Page:         req.Page,
		PageSize:     req.PageSize,
	}

	// Only admins see beyond the active catalog
	if middleware.IsJWTAdmin(c) {
		input.IncludeAll = true
		input.Status = req.Status
	}

	result, err := h.productService.ListProducts(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	products := make([]ProductResponse, len(result.Products))
	for i, p := range result.Products {
		products[i] = toProductResponse(p)
	}

	h.SuccessWithMeta(c, products, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Success      200 {object} dto.Response{data=ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), productID, middleware.IsJWTAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProductResponse(*product))
}

// GetImage godoc
// @Summary      Get a presigned download URL for the product image
// @Tags         products
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/image [get]
func (h *ProductHandler) GetImage(c *gin.Context) {
	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	url, err := h.productService.GetImageURL(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"url": url})
}

// Create godoc
// @Summary      Create a product (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body CreateProductRequest true "Product fields"
// @Success      201 {object} dto.Response{data=ProductResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), catalogapp.CreateProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toProductResponse(*product))
}

// Update godoc
// @Summary      Update a product (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body UpdateProductRequest true "Product fields"
// @Success      200 {object} dto.Response{data=ProductResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), catalogapp.UpdateProductInput{
		ProductID:   productID,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProductResponse(*product))
}

// SetStock godoc
// @Summary      Set product stock (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body SetStockRequest true "New stock level"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products/{id}/stock [put]
func (h *ProductHandler) SetStock(c *gin.Context) {
	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.productService.SetStock(c.Request.Context(), productID, req.Stock); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Stock updated"})
}

// Archive godoc
// @Summary      Archive a product (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products/{id}/archive [post]
func (h *ProductHandler) Archive(c *gin.Context) {
	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.productService.ArchiveProduct(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Product archived"})
}

// Restore godoc
// @Summary      Restore an archived product (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products/{id}/restore [post]
func (h *ProductHandler) Restore(c *gin.Context) {
	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.productService.RestoreProduct(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Product restored"})
}

// Delete godoc
// @Summary      Permanently delete a product (admin)
// @Tags         admin
// @Success      204
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RequestImageUpload godoc
// @Summary      Request a presigned image upload URL (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body ImageUploadRequest true "Image content type"
// @Success      200 {object} dto.Response{data=ImageUploadResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id}/image/upload [post]
func (h *ProductHandler) RequestImageUpload(c *gin.Context) {
	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.productService.GenerateImageUploadURL(c.Request.Context(), productID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ImageUploadResponse{
		UploadURL:  result.UploadURL,
		StorageKey: result.StorageKey,
		ExpiresAt:  result.ExpiresAt,
	})
}

// ConfirmImage godoc
// @Summary      Confirm an uploaded product image (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body ConfirmImageRequest true "Storage key from the upload grant"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products/{id}/image/confirm [post]
func (h *ProductHandler) ConfirmImage(c *gin.Context) {
	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req ConfirmImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.productService.ConfirmProductImage(c.Request.Context(), productID, req.StorageKey); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Product image updated"})
}
