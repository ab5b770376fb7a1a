// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter holds the outbound adapters of the rental-market backend:
// geocoding, object storage, transactional email and the SMS OTP publisher.
//
// Services depend only on the interfaces declared here. Each concrete adapter
// wraps one third-party transport (resty for the Google Geocoding API,
// aws-sdk-go-v2 for S3, net/smtp for mail, kafka-go for SMS) and maps its
// failures onto the sentinel values in errors.go so callers can use
// [errors.Is] without knowing the transport.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-rental-market/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// Geocoder converts postal addresses into coordinates and back.
type Geocoder interface {
	// Geocode returns the [lng, lat] point of the best match for address.
	// Returns ErrNoResults when the provider finds nothing.
	Geocode(ctx context.Context, address string) (models.Point, error)

	// ReverseGeocode returns the formatted address closest to point.
	ReverseGeocode(ctx context.Context, point models.Point) (string, error)
}

// ObjectStorage stores uploaded files and hands out their public URLs.
type ObjectStorage interface {
	// Upload stores file under prefix and returns its public URL.
	Upload(ctx context.Context, prefix string, file models.Upload) (string, error)

	// DeleteObjects removes the objects behind the given public URLs. URLs that
	// do not point into the bucket are ignored.
	DeleteObjects(ctx context.Context, urls []string) error

	// KeyFromURL extracts the object key from a public URL. The second return
	// value is false for URLs that are not managed by this storage, such as
	// the default avatar.
	KeyFromURL(url string) (string, bool)
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMSPublisher hands one-time codes to the SMS gateway.
type SMSPublisher interface {
	PublishOTP(ctx context.Context, phone, otp string) error
	Close() error
}
