package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-rental-market/models"
)

// loggedOutTTL is how long the overwritten cookie lives after logout.
const loggedOutTTL = 10 * time.Second

func (h *Handler) setSessionCookie(w http.ResponseWriter, value string) {
	h.writeCookie(w, value, h.cookieTTL)
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	h.writeCookie(w, models.LoggedOutToken, loggedOutTTL)
}

func (h *Handler) writeCookie(w http.ResponseWriter, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteLaxMode,
	})
}
