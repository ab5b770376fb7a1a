package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-rental-market/models"
	"github.com/go-chi/chi/v5"
)

const (
	msgProductCreated  = "Product created successfully."
	msgProductApproved = "Product approved successfully."
)

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	vendor, err := identityFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var request models.CreateProductRequest
	if err = decodeJSON(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.services.ProductService.Create(r.Context(), vendor, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusCreated, msgProductCreated, map[string]any{"product": product})
}

// nearbyProducts answers an empty result with 200 and zero results.
func (h *Handler) nearbyProducts(w http.ResponseWriter, r *http.Request) {
	center, err := pointFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	query := models.NearbyQuery{Center: center}
	if raw := r.URL.Query().Get("radius"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			h.writeError(w, r, ErrInvalidRadius)
			return
		}
		query.RadiusKm = radius
	}

	products, err := h.services.ProductService.Nearby(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.list(w, r, len(products), map[string]any{"products": products})
}

func (h *Handler) approveProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.services.ProductService.Approve(r.Context(), chi.URLParam(r, "productId")); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK, msgProductApproved, nil)
}
