package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-rental-market/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWTToken creates a signed HMAC-SHA256 session token.
//
// The token carries the standard claims iss, sub (identity id), iat and exp
// (iat + tokenDuration) plus the identity role. All parameters are required;
// an empty issuer, identity id or sign key, or a zero duration is rejected.
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken("rental-market", id, models.RoleUser, time.Hour, "secret", time.Now())
func GenerateJWTToken(issuer, identityID string, role models.Role, tokenDuration time.Duration, signKey string, now time.Time) (models.Token, error) {
	if issuer == "" || identityID == "" || tokenDuration == 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT Token")
	}

	claims := models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identityID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return models.Token{Token: token, SessionClaims: claims, SignedString: tokenString}, nil
}

// ValidateAndParseJWTToken verifies the signature (HS256 only), issuer and
// expiry of tokenString and returns its decoded claims.
//
// A token without a subject or without an issued-at claim is rejected, since
// both are needed to resolve the identity and compare against its last
// password change.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	var claims models.SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Subject == "" {
		return models.Token{}, errors.New("empty subject error")
	}
	if claims.IssuedAt == nil {
		return models.Token{}, errors.New("empty issued at error")
	}

	return models.Token{Token: token, SessionClaims: claims, SignedString: tokenString}, nil
}
