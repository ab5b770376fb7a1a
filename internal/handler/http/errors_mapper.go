package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/service"
	"github.com/MKhiriev/go-rental-market/internal/store"
	"github.com/MKhiriev/go-rental-market/internal/validators"
	"github.com/MKhiriev/go-rental-market/models"
)

// genericServerError replaces 5xx messages in production.
const genericServerError = "something went wrong"

// errorStatuses is matched in order with errors.Is; the first hit wins.
var errorStatuses = []struct {
	target error
	status int
}{
	{service.ErrEmailDeliveryFailed, http.StatusInternalServerError},
	{service.ErrSMSDeliveryFailed, http.StatusInternalServerError},
	{service.ErrStorageFailed, http.StatusInternalServerError},

	{validators.ErrValidation, http.StatusBadRequest},
	{store.ErrDuplicateEmail, http.StatusBadRequest},
	{store.ErrDuplicatePhone, http.StatusBadRequest},
	{store.ErrInvalidRecord, http.StatusBadRequest},
	{service.ErrInvalidOrExpiredOTP, http.StatusBadRequest},
	{service.ErrInvalidOrExpiredToken, http.StatusBadRequest},
	{service.ErrAlreadyVerified, http.StatusBadRequest},
	{service.ErrPasswordReused, http.StatusBadRequest},
	{service.ErrDeletionAlreadyRequested, http.StatusBadRequest},
	{service.ErrGeocodingFailed, http.StatusBadRequest},
	{service.ErrTermsNotAccepted, http.StatusBadRequest},
	{service.ErrMissingDocuments, http.StatusBadRequest},

	{service.ErrEmailNotVerified, http.StatusUnauthorized},
	{service.ErrUnauthenticated, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrStalePassword, http.StatusUnauthorized},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrIncorrectPassword, http.StatusUnauthorized},
	{service.ErrAccountDeleted, http.StatusUnauthorized},

	{service.ErrForbidden, http.StatusForbidden},

	{store.ErrIdentityNotFound, http.StatusNotFound},
	{store.ErrProductNotFound, http.StatusNotFound},
	{service.ErrAddressNotFound, http.StatusNotFound},
	{service.ErrLocationNotFound, http.StatusNotFound},

	{store.ErrVersionConflict, http.StatusConflict},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps err onto its status and writes the fail or error envelope.
// Server errors are logged; their text is replaced in production.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)

	response := models.Response{Status: models.StatusFail, Message: err.Error()}
	if status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Msg("request failed")
		response.Status = models.StatusError
		if h.production {
			response.Message = genericServerError
		}
	}

	h.respond(w, r, status, response)
}
