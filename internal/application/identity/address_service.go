package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AddressService manages a user's shipping address book
type AddressService struct {
	addressRepo identity.AddressRepository
	logger      *zap.Logger
}

// NewAddressService creates a new address service
func NewAddressService(addressRepo identity.AddressRepository, logger *zap.Logger) *AddressService {
	return &AddressService{
		addressRepo: addressRepo,
		logger:      logger,
	}
}

// ListAddresses returns all addresses for a user, default first
func (s *AddressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressInfo, error) {
	addresses, err := s.addressRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list addresses", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list addresses")
	}

	infos := make([]AddressInfo, 0, len(addresses))
	for i := range addresses {
		infos = append(infos, NewAddressInfo(&addresses[i]))
	}
	return infos, nil
}

// GetAddress returns one address, verifying ownership
func (s *AddressService) GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*AddressInfo, error) {
	address, err := s.findOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	info := NewAddressInfo(address)
	return &info, nil
}

// CreateAddress adds an address to the user's address book.
// The first address automatically becomes the default.
func (s *AddressService) CreateAddress(ctx context.Context, input CreateAddressInput) (*AddressInfo, error) {
	address, err := identity.NewAddress(input.UserID, identity.AddressInput{
		Recipient:  input.Recipient,
		Phone:      input.Phone,
		Line1:      input.Line1,
		Line2:      input.Line2,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		Country:    input.Country,
	})
	if err != nil {
		return nil, err
	}

	makeDefault := input.IsDefault
	if !makeDefault {
		if _, err := s.addressRepo.FindDefault(ctx, input.UserID); errors.Is(err, shared.ErrNotFound) {
			makeDefault = true
		}
	}

	if makeDefault {
		if err := s.addressRepo.ClearDefault(ctx, input.UserID); err != nil {
			s.logger.Error("Failed to clear default address", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save address")
		}
		address.MarkDefault()
	}

	if err := s.addressRepo.Save(ctx, address); err != nil {
		s.logger.Error("Failed to save address", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save address")
	}

	info := NewAddressInfo(address)
	return &info, nil
}

// UpdateAddress replaces the fields of an existing address
func (s *AddressService) UpdateAddress(ctx context.Context, input UpdateAddressInput) (*AddressInfo, error) {
	address, err := s.findOwned(ctx, input.UserID, input.AddressID)
	if err != nil {
		return nil, err
	}

	if err := address.Update(identity.AddressInput{
		Recipient:  input.Recipient,
		Phone:      input.Phone,
		Line1:      input.Line1,
		Line2:      input.Line2,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		Country:    input.Country,
	}); err != nil {
		return nil, err
	}

	if err := s.addressRepo.Save(ctx, address); err != nil {
		s.logger.Error("Failed to update address", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update address")
	}

	info := NewAddressInfo(address)
	return &info, nil
}

// SetDefaultAddress marks one address as the user's default
func (s *AddressService) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.findOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}

	if address.IsDefault {
		return nil
	}

	if err := s.addressRepo.ClearDefault(ctx, userID); err != nil {
		s.logger.Error("Failed to clear default address", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to set default address")
	}

	address.MarkDefault()
	if err := s.addressRepo.Save(ctx, address); err != nil {
		s.logger.Error("Failed to save default address", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to set default address")
	}

	return nil
}

// DeleteAddress removes an address from the user's address book
func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.findOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}

	if err := s.addressRepo.Delete(ctx, address.ID); err != nil {
		s.logger.Error("Failed to delete address", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete address")
	}

	return nil
}

// findOwned loads an address and verifies it belongs to the user
func (s *AddressService) findOwned(ctx context.Context, userID, addressID uuid.UUID) (*identity.Address, error) {
	address, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		return nil, shared.NewDomainError("ADDRESS_NOT_FOUND", "Address not found")
	}
	if !address.BelongsTo(userID) {
		return nil, shared.NewDomainError("ADDRESS_NOT_FOUND", "Address not found")
	}
	return address, nil
}
