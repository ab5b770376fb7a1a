package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-rental-market/models"
	"github.com/go-chi/chi/v5"
)

const (
	msgAddressAdded   = "Address added successfully."
	msgAddressUpdated = "Address updated successfully."
	msgAddressDeleted = "Address deleted successfully."
)

func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	addresses := h.services.AddressService.List(r.Context(), identity)
	h.list(w, r, len(addresses), map[string]any{"addresses": addresses})
}

func (h *Handler) addAddress(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var input models.AddressInput
	if err = decodeJSON(r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}

	address, err := h.services.AddressService.Add(r.Context(), identity, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK, msgAddressAdded, map[string]any{"address": address})
}

func (h *Handler) updateAddress(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var input models.AddressInput
	if err = decodeJSON(r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}

	address, err := h.services.AddressService.Update(r.Context(), identity, chi.URLParam(r, "addressId"), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK, msgAddressUpdated, map[string]any{"address": address})
}

func (h *Handler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err = h.services.AddressService.Delete(r.Context(), identity, chi.URLParam(r, "addressId")); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK, msgAddressDeleted, nil)
}

func (h *Handler) addressFromCoordinates(w http.ResponseWriter, r *http.Request) {
	point, err := pointFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	address, err := h.services.AddressService.ReverseGeocode(r.Context(), point)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK, "", map[string]any{"address": address})
}

// pointFromQuery reads the lng and lat query parameters. Range checks are
// left to the service.
func pointFromQuery(r *http.Request) (models.Point, error) {
	query := r.URL.Query()

	lng, err := strconv.ParseFloat(query.Get("lng"), 64)
	if err != nil {
		return models.Point{}, ErrMissingLocation
	}
	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		return models.Point{}, ErrMissingLocation
	}

	return models.NewPoint(lng, lat), nil
}
