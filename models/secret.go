// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SecretPurpose names one of the three independent secrets an identity can
// hold at the same time.
type SecretPurpose string

const (
	SecretEmailConfirm  SecretPurpose = "email_confirm"
	SecretPasswordReset SecretPurpose = "password_reset"
	SecretMobileOTP     SecretPurpose = "mobile_otp"
)

// SecretKind selects the shape of the plaintext handed to the user.
type SecretKind int

const (
	// SecretOTP is a 6-digit numeric code.
	SecretOTP SecretKind = iota
	// SecretToken is 32 random bytes, hex encoded.
	SecretToken
)

// Secret is a freshly issued single-use secret. Plain is transmitted to the
// user and never stored; Hash and ExpiresAt are persisted.
type Secret struct {
	Plain     string
	Hash      string
	ExpiresAt time.Time
}

// SecretState is the persisted form of a secret on an identity.
type SecretState struct {
	Hash      string
	ExpiresAt *time.Time
}

// Set stores the digest and expiry of secret.
func (s *SecretState) Set(secret Secret) {
	expires := secret.ExpiresAt
	s.Hash = secret.Hash
	s.ExpiresAt = &expires
}

// Clear removes both the digest and the expiry.
func (s *SecretState) Clear() {
	s.Hash = ""
	s.ExpiresAt = nil
}

// IsSet reports whether a secret is currently stored.
func (s SecretState) IsSet() bool {
	return s.Hash != ""
}

// Secret returns the state for the given purpose.
func (i *Identity) Secret(purpose SecretPurpose) *SecretState {
	switch purpose {
	case SecretPasswordReset:
		return &i.PasswordReset
	case SecretMobileOTP:
		return &i.MobileOTP
	default:
		return &i.EmailConfirm
	}
}
