package identity

import (
	"time"

	"github.com/google/uuid"
	domain "github.com/storefront/backend/internal/domain/identity"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic account information returned to clients
type UserInfo struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	Email       string
	Avatar      string
	IsAdmin     bool
	Status      string
	CreatedAt   time.Time
}

// NewUserInfo maps a user aggregate to its client representation
func NewUserInfo(user *domain.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.GetDisplayNameOrUsername(),
		Email:       user.Email,
		Avatar:      user.Avatar,
		IsAdmin:     user.IsAdmin,
		Status:      string(user.Status),
		CreatedAt:   user.CreatedAt,
	}
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string        // JWT ID of the access token to blacklist
	TokenTTL time.Duration // Remaining lifetime of that token
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateProfileInput contains the input for profile updates
type UpdateProfileInput struct {
	UserID      uuid.UUID
	DisplayName string
	Avatar      string
}

// ChangeEmailInput contains the input for changing the account email
type ChangeEmailInput struct {
	UserID uuid.UUID
	Email  string
}

// ListUsersInput contains admin filters for listing accounts
type ListUsersInput struct {
	Keyword  string
	Status   string
	IsAdmin  *bool
	Page     int
	PageSize int
}

// ListUsersResult contains a page of accounts
type ListUsersResult struct {
	Users    []UserInfo
	Total    int64
	Page     int
	PageSize int
}

// AddressInfo is the client representation of a saved address
type AddressInfo struct {
	ID         uuid.UUID
	Recipient  string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
	CreatedAt  time.Time
}

// NewAddressInfo maps an address aggregate to its client representation
func NewAddressInfo(a *domain.Address) AddressInfo {
	return AddressInfo{
		ID:         a.ID,
		Recipient:  a.Recipient,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt,
	}
}

// CreateAddressInput contains the input for adding an address
type CreateAddressInput struct {
	UserID     uuid.UUID
	Recipient  string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

// UpdateAddressInput contains the input for updating an address
type UpdateAddressInput struct {
	UserID     uuid.UUID
	AddressID  uuid.UUID
	Recipient  string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}
