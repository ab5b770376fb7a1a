// Package utils provides general-purpose helpers used across the
// application: typed context keys, hashing and secret generation, password
// hashing, JSON response writing, the outbound HTTP client, JWT token
// generation and validation, and id generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-rental-market/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// IdentityCtxKey is the key under which the authenticated identity is stored
// by the authorization middleware.
var IdentityCtxKey = contextKey("identity")

// TokenCtxKey is the key under which the verified session token is stored.
var TokenCtxKey = contextKey("token")

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, IdentityCtxKey, identity)
}

// GetIdentityFromContext retrieves the authenticated identity.
//
// ok is false when the value is missing, nil, or of an unexpected type.
func GetIdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(IdentityCtxKey).(*models.Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

// WithToken returns a copy of ctx carrying the verified session token.
func WithToken(ctx context.Context, token models.Token) context.Context {
	return context.WithValue(ctx, TokenCtxKey, token)
}

// GetTokenFromContext retrieves the verified session token.
func GetTokenFromContext(ctx context.Context) (models.Token, bool) {
	token, ok := ctx.Value(TokenCtxKey).(models.Token)
	return token, ok
}
