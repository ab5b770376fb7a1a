// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-rental-market/internal/validators"
)

// Client errors. The HTTP layer maps each of these to a 4xx status and uses
// the error text as the response message.
var (
	ErrMissingCredentials       = fmt.Errorf("%w: please provide email and password", validators.ErrValidation)
	ErrPasswordUpdateNotAllowed = fmt.Errorf("%w: this route is not for password updates, please use /updatemypassword", validators.ErrValidation)
	ErrMissingAvatar            = fmt.Errorf("%w: please upload a profile picture", validators.ErrValidation)
	ErrMissingProductLocation   = fmt.Errorf("%w: product location or vendor address is required", validators.ErrValidation)
	ErrInvalidUpdateValue       = fmt.Errorf("%w: profile fields must be strings", validators.ErrValidation)
	ErrMissingSecret            = fmt.Errorf("%w: token is required", validators.ErrValidation)

	ErrInvalidOrExpiredOTP      = errors.New("OTP is invalid or has expired")
	ErrInvalidOrExpiredToken    = errors.New("token is invalid or has expired")
	ErrAlreadyVerified          = errors.New("this email is already verified")
	ErrPasswordReused           = errors.New("you cannot use a password that you have used before")
	ErrDeletionAlreadyRequested = errors.New("account deletion already requested")
	ErrGeocodingFailed          = errors.New("could not resolve the address location")
	ErrTermsNotAccepted         = errors.New("you must accept the terms and conditions")
	ErrMissingDocuments         = errors.New("required documents are missing")

	ErrEmailNotVerified   = errors.New("please verify your email first")
	ErrUnauthenticated    = errors.New("you are not logged in, please log in to get access")
	ErrInvalidToken       = errors.New("invalid or expired session token, please log in again")
	ErrIdentityGone       = fmt.Errorf("%w: the account belonging to this token no longer exists", ErrUnauthenticated)
	ErrStalePassword      = errors.New("password was changed recently, please log in again")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrIncorrectPassword  = errors.New("your current password is incorrect")
	ErrAccountDeleted     = errors.New("your account has been deleted")

	ErrForbidden = errors.New("you do not have permission to perform this action")

	ErrAddressNotFound  = errors.New("address not found")
	ErrLocationNotFound = errors.New("no address found for the given coordinates")
)

// Server errors. Their text is hidden from clients in production.
var (
	ErrEmailDeliveryFailed = errors.New("there was an error sending the email, try again later")
	ErrSMSDeliveryFailed   = errors.New("there was an error sending the OTP, try again later")
	ErrStorageFailed       = errors.New("file storage failed")

	ErrTokenCreationFailed   = errors.New("token creation failed")
	ErrSecretCreationFailed  = errors.New("secret creation failed")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
