package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ReviewHandler handles product review endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *catalogapp.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *catalogapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// ReviewRequest represents the request body for posting or editing a review
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"omitempty,max=200"`
	Comment string `json:"comment" binding:"omitempty,max=5000"`
}

// ReviewResponse represents a review in responses
type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewResponse(info catalogapp.ReviewInfo) ReviewResponse {
	return ReviewResponse{
		ID:        info.ID,
		ProductID: info.ProductID,
		UserID:    info.UserID,
		Rating:    info.Rating,
		Title:     info.Title,
		Comment:   info.Comment,
		CreatedAt: info.CreatedAt,
	}
}

// ListByProduct godoc
// @Summary      List reviews for a product
// @Tags         reviews
// @Produce      json
// @Success      200 {object} dto.Response{data=[]ReviewResponse,meta=dto.Meta}
// @Router       /products/{id}/reviews [get]
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.reviewService.ListReviews(c.Request.Context(), productID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	reviews := make([]ReviewResponse, len(result.Reviews))
	for i, r := range result.Reviews {
		reviews[i] = toReviewResponse(r)
	}

	h.SuccessWithMeta(c, reviews, result.Total, result.Page, result.PageSize)
}

// Create godoc
// @Summary      Post a review for a product
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        request body ReviewRequest true "Review fields"
// @Success      201 {object} dto.Response{data=ReviewResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), catalogapp.CreateReviewInput{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toReviewResponse(*review))
}

// Update godoc
// @Summary      Edit own review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        request body ReviewRequest true "Review fields"
// @Success      200 {object} dto.Response{data=ReviewResponse}
// @Security     BearerAuth
// @Router       /reviews/{id} [put]
func (h *ReviewHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), catalogapp.UpdateReviewInput{
		ReviewID: reviewID,
		UserID:   userID,
		Rating:   req.Rating,
		Title:    req.Title,
		Comment:  req.Comment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toReviewResponse(*review))
}

// Delete godoc
// @Summary      Delete a review
// @Description  Users may delete their own reviews. Admins may delete any review.
// @Tags         reviews
// @Success      204
// @Security     BearerAuth
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	err = h.reviewService.DeleteReview(c.Request.Context(), reviewID, userID, middleware.IsJWTAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
