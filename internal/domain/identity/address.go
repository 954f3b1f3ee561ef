package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Address represents a shipping address belonging to a user.
// A user may keep several addresses and mark one of them as the default.
type Address struct {
	shared.BaseAggregateRoot
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Recipient  string    `gorm:"type:varchar(200);not null"`
	Phone      string    `gorm:"type:varchar(50);not null"`
	Line1      string    `gorm:"type:varchar(255);not null"`
	Line2      string    `gorm:"type:varchar(255)"`
	City       string    `gorm:"type:varchar(100);not null"`
	State      string    `gorm:"type:varchar(100)"`
	PostalCode string    `gorm:"type:varchar(20);not null"`
	Country    string    `gorm:"type:varchar(100);not null"`
	IsDefault  bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "addresses"
}

// AddressInput holds the fields needed to create or update an address
type AddressInput struct {
	Recipient  string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// NewAddress creates a new address for a user
func NewAddress(userID uuid.UUID, input AddressInput) (*Address, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}

	return &Address{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Recipient:         strings.TrimSpace(input.Recipient),
		Phone:             strings.TrimSpace(input.Phone),
		Line1:             strings.TrimSpace(input.Line1),
		Line2:             strings.TrimSpace(input.Line2),
		City:              strings.TrimSpace(input.City),
		State:             strings.TrimSpace(input.State),
		PostalCode:        strings.TrimSpace(input.PostalCode),
		Country:           strings.TrimSpace(input.Country),
	}, nil
}

// Update replaces the address fields
func (a *Address) Update(input AddressInput) error {
	if err := validateAddressInput(input); err != nil {
		return err
	}

	a.Recipient = strings.TrimSpace(input.Recipient)
	a.Phone = strings.TrimSpace(input.Phone)
	a.Line1 = strings.TrimSpace(input.Line1)
	a.Line2 = strings.TrimSpace(input.Line2)
	a.City = strings.TrimSpace(input.City)
	a.State = strings.TrimSpace(input.State)
	a.PostalCode = strings.TrimSpace(input.PostalCode)
	a.Country = strings.TrimSpace(input.Country)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// MarkDefault marks this address as the user's default
func (a *Address) MarkDefault() {
	a.IsDefault = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// ClearDefault removes the default flag
func (a *Address) ClearDefault() {
	a.IsDefault = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// BelongsTo returns true if the address belongs to the given user
func (a *Address) BelongsTo(userID uuid.UUID) bool {
	return a.UserID == userID
}

// validateAddressInput validates the address fields
func validateAddressInput(input AddressInput) error {
	if strings.TrimSpace(input.Recipient) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Recipient name cannot be empty")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Phone cannot be empty")
	}
	if strings.TrimSpace(input.Line1) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Address line cannot be empty")
	}
	if strings.TrimSpace(input.City) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "City cannot be empty")
	}
	if strings.TrimSpace(input.PostalCode) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Postal code cannot be empty")
	}
	if strings.TrimSpace(input.Country) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Country cannot be empty")
	}
	if len(input.Line1) > 255 || len(input.Line2) > 255 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address line cannot exceed 255 characters")
	}
	return nil
}
