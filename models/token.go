package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoggedOutToken is the cookie value written on logout. It is never a valid
// session token.
const LoggedOutToken = "loggedout"

// SessionClaims is the claim set of a session token: the standard registered
// claims (sub = identity id, iat, exp, iss) plus the identity's role.
type SessionClaims struct {
	jwt.RegisteredClaims

	Role Role `json:"role"`
}

// Token wraps a signed session token together with its decoded claims.
type Token struct {
	// Token is the underlying JWT, kept for claim inspection.
	*jwt.Token `json:"-"`

	SessionClaims

	// SignedString is the compact JWS form sent to clients.
	SignedString string `json:"-"`
}

// IdentityID returns the "sub" claim.
func (t *Token) IdentityID() string {
	return t.Subject
}

// IssuedTime returns the "iat" claim or the zero time.
func (t *Token) IssuedTime() time.Time {
	if t.IssuedAt == nil {
		return time.Time{}
	}
	return t.IssuedAt.Time
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
