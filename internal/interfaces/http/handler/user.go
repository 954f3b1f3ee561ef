package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// UserHandler handles profile and account management endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
	authService *identityapp.AuthService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService, authService *identityapp.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// UpdateProfileRequest represents the request body for profile updates
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"omitempty,max=100"`
	Avatar      string `json:"avatar" binding:"omitempty,url,max=500"`
}

// ChangeEmailRequest represents the request body for changing the account email
type ChangeEmailRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// ListUsersRequest represents admin filters for listing accounts
type ListUsersRequest struct {
	dto.ListRequest
	Status  string `form:"status" binding:"omitempty,oneof=active deactivated"`
	IsAdmin *bool  `form:"is_admin"`
}

// GetProfile godoc
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Success      200 {object} dto.Response{data=UserResponse}
// @Security     BearerAuth
// @Router       /profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(*user))
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} dto.Response{data=UserResponse}
// @Security     BearerAuth
// @Router       /profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), identityapp.UpdateProfileInput{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(*user))
}

// ChangeEmail godoc
// @Summary      Change account email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body ChangeEmailRequest true "New email"
// @Success      200 {object} dto.Response{data=UserResponse}
// @Security     BearerAuth
// @Router       /profile/email [put]
func (h *UserHandler) ChangeEmail(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.ChangeEmail(c.Request.Context(), identityapp.ChangeEmailInput{
		UserID: userID,
		Email:  req.Email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(*user))
}

// ChangePassword godoc
// @Summary      Change account password
// @Description  Changing the password invalidates all previously issued tokens
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Old and new password"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /profile/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	err = h.userService.ChangePassword(c.Request.Context(), identityapp.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// Force re-login everywhere with the new credentials
	if err := h.authService.ForceLogout(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password changed successfully"})
}

// ListUsers godoc
// @Summary      List accounts (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=[]UserResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.userService.ListUsers(c.Request.Context(), identityapp.ListUsersInput{
		Keyword:  req.Search,
		Status:   req.Status,
		IsAdmin:  req.IsAdmin,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	users := make([]UserResponse, len(result.Users))
	for i, u := range result.Users {
		users[i] = toUserResponse(u)
	}

	h.SuccessWithMeta(c, users, result.Total, result.Page, result.PageSize)
}

// DeactivateUser godoc
// @Summary      Deactivate an account (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/users/{id}/deactivate [post]
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	userID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.DeactivateUser(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	// Deactivated accounts must not keep usable sessions
	if err := h.authService.ForceLogout(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "User deactivated"})
}

// ReactivateUser godoc
// @Summary      Reactivate an account (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/users/{id}/reactivate [post]
func (h *UserHandler) ReactivateUser(c *gin.Context) {
	userID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.ReactivateUser(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "User reactivated"})
}
