package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Slug        string `json:"slug" binding:"required,min=1,max=100"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateCategoryRequest represents the request body for updating a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	SortOrder   int    `json:"sort_order"`
}

// CategoryResponse represents a category in responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCategoryResponse(info catalogapp.CategoryInfo) CategoryResponse {
	return CategoryResponse{
		ID:          info.ID,
		Slug:        info.Slug,
		Name:        info.Name,
		Description: info.Description,
		SortOrder:   info.SortOrder,
		Status:      info.Status,
		CreatedAt:   info.CreatedAt,
	}
}

func toCategoryResponses(infos []catalogapp.CategoryInfo) []CategoryResponse {
	resp := make([]CategoryResponse, len(infos))
	for i, info := range infos {
		resp[i] = toCategoryResponse(info)
	}
	return resp
}

// List godoc
// @Summary      List active categories
// @Tags         categories
// @Produce      json
// @Success      200 {object} dto.Response{data=[]CategoryResponse}
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.ListActiveCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCategoryResponses(categories))
}

// GetBySlug godoc
// @Summary      Get a category by slug
// @Tags         categories
// @Produce      json
// @Success      200 {object} dto.Response{data=CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{slug} [get]
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Missing category slug")
		return
	}

	category, err := h.categoryService.GetCategoryBySlug(c.Request.Context(), slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCategoryResponse(*category))
}

// ListAll godoc
// @Summary      List all categories including inactive (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=[]CategoryResponse}
// @Security     BearerAuth
// @Router       /admin/categories [get]
func (h *CategoryHandler) ListAll(c *gin.Context) {
	categories, err := h.categoryService.ListAllCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCategoryResponses(categories))
}

// Create godoc
// @Summary      Create a category (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body CreateCategoryRequest true "Category fields"
// @Success      201 {object} dto.Response{data=CategoryResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), catalogapp.CreateCategoryInput{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toCategoryResponse(*category))
}

// Update godoc
// @Summary      Update a category (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body UpdateCategoryRequest true "Category fields"
// @Success      200 {object} dto.Response{data=CategoryResponse}
// @Security     BearerAuth
// @Router       /admin/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), catalogapp.UpdateCategoryInput{
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCategoryResponse(*category))
}

// Activate godoc
// @Summary      Activate a category (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/categories/{id}/activate [post]
func (h *CategoryHandler) Activate(c *gin.Context) {
	categoryID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.categoryService.ActivateCategory(c.Request.Context(), categoryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Category activated"})
}

// Deactivate godoc
// @Summary      Deactivate a category (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/categories/{id}/deactivate [post]
func (h *CategoryHandler) Deactivate(c *gin.Context) {
	categoryID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.categoryService.DeactivateCategory(c.Request.Context(), categoryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Category deactivated"})
}

// Delete godoc
// @Summary      Delete an empty category (admin)
// @Tags         admin
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
