// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "io"

// SignupRequest is the body of the signup endpoint.
type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// VerifyEmailRequest is the body of the email verification endpoint.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// LoginRequest is the body of the email/password login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmailRequest carries only an email address (forgot password, resend verification).
type EmailRequest struct {
	Email string `json:"email"`
}

// PasswordResetRequest is the body of the reset-password endpoint.
type PasswordResetRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// PasswordUpdateRequest is the body of the authenticated password change endpoint.
type PasswordUpdateRequest struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// MobileOTPRequest is the body of the mobile OTP endpoints. OTP is empty when
// requesting a code.
type MobileOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}

// Upload is a file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CompleteProfileRequest is the decoded multipart form of the profile
// completion endpoint.
type CompleteProfileRequest struct {
	FirstName          string
	LastName           string
	PhoneNumber        string
	CompanyName        string
	AdditionalRemarks  string
	TermsAndConditions bool
	Addresses          []AddressInput

	Avatar    *Upload
	Documents map[Document][]Upload
}

// CreateProductRequest is the body of the product creation endpoint.
type CreateProductRequest struct {
	ModelName   string  `json:"modelName"`
	Description string  `json:"description"`
	PricePerDay float64 `json:"pricePerDay"`
	Location    *Point  `json:"location"`

	// AddressID selects one of the vendor's stored addresses as the product
	// location when Location is absent.
	AddressID string `json:"addressId"`
}
