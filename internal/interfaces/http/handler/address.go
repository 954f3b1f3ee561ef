package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/storefront/backend/internal/application/identity"
)

// AddressHandler handles address book endpoints
type AddressHandler struct {
	BaseHandler
	addressService *identityapp.AddressService
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(addressService *identityapp.AddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
	}
}

// AddressRequest represents the request body for creating or updating an address
type AddressRequest struct {
	Recipient  string `json:"recipient" binding:"required,max=100"`
	Phone      string `json:"phone" binding:"required,max=30"`
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"omitempty,max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"omitempty,max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,len=2"`
	IsDefault  bool   `json:"is_default"`
}

// AddressResponse represents an address in responses
type AddressResponse struct {
	ID         uuid.UUID `json:"id"`
	Recipient  string    `json:"recipient"`
	Phone      string    `json:"phone"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state,omitempty"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAddressResponse(a identityapp.AddressInfo) AddressResponse {
	return AddressResponse{
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

// List godoc
// @Summary      List own addresses
// @Tags         addresses
// @Produce      json
// @Success      200 {object} dto.Response{data=[]AddressResponse}
// @Security     BearerAuth
// @Router       /addresses [get]
func (h *AddressHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	addresses, err := h.addressService.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]AddressResponse, len(addresses))
	for i, a := range addresses {
		resp[i] = toAddressResponse(a)
	}

	h.Success(c, resp)
}

// Get godoc
// @Summary      Get one of own addresses
// @Tags         addresses
// @Produce      json
// @Success      200 {object} dto.Response{data=AddressResponse}
// @Security     BearerAuth
// @Router       /addresses/{id} [get]
func (h *AddressHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	addressID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	address, err := h.addressService.GetAddress(c.Request.Context(), userID, addressID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAddressResponse(*address))
}

// Create godoc
// @Summary      Add an address
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        request body AddressRequest true "Address fields"
// @Success      201 {object} dto.Response{data=AddressResponse}
// @Security     BearerAuth
// @Router       /addresses [post]
func (h *AddressHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	address, err := h.addressService.CreateAddress(c.Request.Context(), identityapp.CreateAddressInput{
		UserID:     userID,
		Recipient:  req.Recipient,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAddressResponse(*address))
}

// Update godoc
// @Summary      Update an address
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        request body AddressRequest true "Address fields"
// @Success      200 {object} dto.Response{data=AddressResponse}
// @Security     BearerAuth
// @Router       /addresses/{id} [put]
func (h *AddressHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	addressID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	address, err := h.addressService.UpdateAddress(c.Request.Context(), identityapp.UpdateAddressInput{
		UserID:     userID,
		AddressID:  addressID,
		Recipient:  req.Recipient,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAddressResponse(*address))
}

// SetDefault godoc
// @Summary      Mark an address as the default
// @Tags         addresses
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /addresses/{id}/default [post]
func (h *AddressHandler) SetDefault(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	addressID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.addressService.SetDefaultAddress(c.Request.Context(), userID, addressID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Default address updated"})
}

// Delete godoc
// @Summary      Remove an address
// @Tags         addresses
// @Success      204
// @Security     BearerAuth
// @Router       /addresses/{id} [delete]
func (h *AddressHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	addressID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.addressService.DeleteAddress(c.Request.Context(), userID, addressID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
