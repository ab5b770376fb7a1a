// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"

	"github.com/MKhiriev/go-rental-market/internal/validators"
)

// Request decoding errors. All of them map to 400.
var (
	ErrInvalidJSON      = fmt.Errorf("%w: invalid JSON was passed", validators.ErrValidation)
	ErrInvalidForm      = fmt.Errorf("%w: invalid multipart form", validators.ErrValidation)
	ErrInvalidAddresses = fmt.Errorf("%w: addresses must be a JSON array", validators.ErrValidation)
	ErrMissingLocation  = fmt.Errorf("%w: lat and lng query parameters are required", validators.ErrValidation)
	ErrInvalidRadius    = fmt.Errorf("%w: radius must be a positive number", validators.ErrValidation)
)
