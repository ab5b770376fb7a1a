package http

import (
	"time"

	"github.com/MKhiriev/go-rental-market/internal/config"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/service"
)

const (
	// maxMultipartMemory is the part of a multipart form kept in memory;
	// larger files spill to temporary files.
	maxMultipartMemory = 10 << 20

	// maxUploadBytes caps the whole multipart body.
	maxUploadBytes = 50 << 20
)

type Handler struct {
	services *service.Services

	// production hides 5xx details and marks the session cookie Secure.
	production bool

	// cookieTTL is the lifetime of the jwt session cookie.
	cookieTTL time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:   services,
		production: cfg.IsProduction(),
		cookieTTL:  time.Duration(cfg.CookieExpiryDays) * 24 * time.Hour,
		logger:     logger,
	}
}
