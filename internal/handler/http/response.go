package http

import (
	"net/http"

	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/utils"
	"github.com/MKhiriev/go-rental-market/models"
)

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, response models.Response) {
	if _, err := utils.WriteJSON(w, response, status); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}

func (h *Handler) success(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	h.respond(w, r, status, models.Response{Status: models.StatusSuccess, Message: message, Data: data})
}

// list writes data together with its element count.
func (h *Handler) list(w http.ResponseWriter, r *http.Request, count int, data any) {
	h.respond(w, r, http.StatusOK, models.Response{Status: models.StatusSuccess, Results: &count, Data: data})
}

// session writes a fresh token both in the body and as the jwt cookie.
func (h *Handler) session(w http.ResponseWriter, r *http.Request, message string, result *models.AuthResult) {
	h.setSessionCookie(w, result.Token.String())
	h.respond(w, r, http.StatusOK, models.Response{
		Status:  models.StatusSuccess,
		Message: message,
		Token:   result.Token.String(),
		Data:    map[string]any{"user": result.Identity},
	})
}
