package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locadora/rental-system/internal/core/ports"
)

// AddressHandler resolves postal codes through the external postal service.
type AddressHandler struct {
	postal ports.PostalLookup
}

func NewAddressHandler(postal ports.PostalLookup) *AddressHandler {
	return &AddressHandler{postal: postal}
}

type addressLookupResponse struct {
	Found   bool             `json:"found"`
	Address *addressResponse `json:"address,omitempty"`
}

// Lookup handles GET /v1/addresses/:zip. Unknown or malformed codes are not
// errors; the response just reports found=false so the caller can fall back
// to manual entry.
//
// @Summary      Resolve a postal code
// @Tags         addresses
// @Produce      json
// @Security     BearerAuth
// @Param        zip  path      string  true  "Postal code, digits only or 00000-000"
// @Success      200  {object}  addressLookupResponse
// @Router       /v1/addresses/{zip} [get]
func (h *AddressHandler) Lookup(c echo.Context) error {
	address, err := h.postal.AddressByZipCode(c.Request().Context(), c.Param("zip"))
	if err != nil || address == nil {
		return c.JSON(http.StatusOK, addressLookupResponse{Found: false})
	}

	return c.JSON(http.StatusOK, addressLookupResponse{
		Found: true,
		Address: &addressResponse{
			ZipCode:      address.ZipCode,
			Street:       address.Street,
			Neighborhood: address.Neighborhood,
			City:         address.City,
			State:        address.State,
		},
	})
}
