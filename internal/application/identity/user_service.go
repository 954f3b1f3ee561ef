package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles profile and admin account operations
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile returns the account information for a user
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	info := NewUserInfo(user)
	return &info, nil
}

// UpdateProfile updates the user's display name and avatar
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.SetDisplayName(input.DisplayName); err != nil {
		return nil, err
	}
	if err := user.SetAvatar(input.Avatar); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}

	info := NewUserInfo(user)
	return &info, nil
}

// ChangeEmail updates the account email after a uniqueness check
func (s *UserService) ChangeEmail(ctx context.Context, input ChangeEmailInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if user.Email != input.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			s.logger.Error("Failed to check email uniqueness", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change email")
		}
		if exists {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already registered")
		}
	}

	if err := user.ChangeEmail(input.Email); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to change email", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change email")
	}

	s.logger.Info("Email changed", zap.String("user_id", user.ID.String()))

	info := NewUserInfo(user)
	return &info, nil
}

// ChangePassword verifies the old password and sets a new one
func (s *UserService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	s.logger.Info("Password changed", zap.String("user_id", input.UserID.String()))
	return nil
}

// ListUsers returns a page of accounts matching the filter (admin)
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) (*ListUsersResult, error) {
	filter := identity.UserFilter{
		Keyword:  input.Keyword,
		IsAdmin:  input.IsAdmin,
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if input.Status != "" {
		status := identity.UserStatus(input.Status)
		filter.Status = &status
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	infos := make([]UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, NewUserInfo(user))
	}

	return &ListUsersResult{
		Users:    infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// DeactivateUser disables an account (admin)
func (s *UserService) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.Deactivate(); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to deactivate user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate user")
	}

	s.logger.Info("User deactivated", zap.String("user_id", userID.String()))
	return nil
}

// ReactivateUser re-enables a deactivated account (admin)
func (s *UserService) ReactivateUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.Reactivate(); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to reactivate user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reactivate user")
	}

	s.logger.Info("User reactivated", zap.String("user_id", userID.String()))
	return nil
}
