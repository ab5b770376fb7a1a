package adapter

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-rental-market/internal/config"
	"github.com/MKhiriev/go-rental-market/internal/logger"
)

// Adapters groups the outbound adapters handed to the service layer.
type Adapters struct {
	Geocoder Geocoder
	Objects  ObjectStorage
	Mailer   Mailer
	SMS      SMSPublisher
}

// NewAdapters builds every adapter from cfg.
func NewAdapters(ctx context.Context, cfg *config.StructuredConfig, logger *logger.Logger) (*Adapters, error) {
	geocoder, err := NewGoogleGeocoder(cfg.Geo, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating geocoder: %w", err)
	}

	objects, err := NewS3ObjectStorage(ctx, cfg.Storage.Objects, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating object storage: %w", err)
	}

	return &Adapters{
		Geocoder: geocoder,
		Objects:  objects,
		Mailer:   NewSMTPMailer(cfg.Mail, logger),
		SMS:      NewKafkaSMSPublisher(cfg.Broker, logger),
	}, nil
}

// Close releases adapters that hold connections.
func (a *Adapters) Close() error {
	if a.SMS == nil {
		return nil
	}
	return a.SMS.Close()
}
