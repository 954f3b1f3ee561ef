package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validAddressInput() AddressInput {
	return AddressInput{
		Recipient:  "Alice W.",
		Phone:      "+1-555-0101",
		Line1:      "1 Main St",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62704",
		Country:    "US",
	}
}

func TestNewAddress_Success(t *testing.T) {
	userID := uuid.New()

	addr, err := NewAddress(userID, validAddressInput())

	assert.NoError(t, err)
	assert.Equal(t, userID, addr.UserID)
	assert.Equal(t, "Alice W.", addr.Recipient)
	assert.False(t, addr.IsDefault)
	assert.True(t, addr.BelongsTo(userID))
	assert.False(t, addr.BelongsTo(uuid.New()))
}

func TestNewAddress_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AddressInput)
	}{
		{"missing recipient", func(in *AddressInput) { in.Recipient = "" }},
		{"missing phone", func(in *AddressInput) { in.Phone = "" }},
		{"missing line1", func(in *AddressInput) { in.Line1 = "" }},
		{"missing city", func(in *AddressInput) { in.City = "" }},
		{"missing postal code", func(in *AddressInput) { in.PostalCode = "" }},
		{"missing country", func(in *AddressInput) { in.Country = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validAddressInput()
			tt.mutate(&input)
			_, err := NewAddress(uuid.New(), input)
			assert.Error(t, err)
		})
	}
}

func TestNewAddress_NilUser(t *testing.T) {
	_, err := NewAddress(uuid.Nil, validAddressInput())
	assert.Error(t, err)
}

func TestAddress_Update(t *testing.T) {
	addr, _ := NewAddress(uuid.New(), validAddressInput())
	version := addr.Version

	input := validAddressInput()
	input.City = "Portland"
	err := addr.Update(input)

	assert.NoError(t, err)
	assert.Equal(t, "Portland", addr.City)
	assert.Equal(t, version+1, addr.Version)
}

func TestAddress_DefaultFlag(t *testing.T) {
	addr, _ := NewAddress(uuid.New(), validAddressInput())

	addr.MarkDefault()
	assert.True(t, addr.IsDefault)

	addr.ClearDefault()
	assert.False(t, addr.IsDefault)
}
