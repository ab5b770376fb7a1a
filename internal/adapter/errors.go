// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

var (
	ErrNoResults = errors.New("geocoder returned no results")

	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")

	ErrUploadFailed  = errors.New("object upload failed")
	ErrDeleteFailed  = errors.New("object deletion failed")
	ErrMailFailed    = errors.New("mail delivery failed")
	ErrPublishFailed = errors.New("message publish failed")
)
