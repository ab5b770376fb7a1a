package utils

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-rental-market/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIdentityID = "0190f1d2-7c4e-7a3b-9c1d-2e3f4a5b6c7d"

func TestGenerateJWTToken_Success(t *testing.T) {
	now := time.Now()

	token, err := GenerateJWTToken("test-issuer", testIdentityID, models.RoleVendor, time.Hour, "secret-key", now)

	require.NoError(t, err)
	assert.NotEmpty(t, token.SignedString)
	require.NotNil(t, token.Token)
	assert.Equal(t, "test-issuer", token.Issuer)
	assert.Equal(t, testIdentityID, token.IdentityID())
	assert.Equal(t, models.RoleVendor, token.Role)
	assert.Equal(t, now.Truncate(time.Second).Unix(), token.IssuedTime().Unix())
	assert.Equal(t, now.Add(time.Hour).Unix(), token.ExpiresAt.Unix())
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		id       string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", testIdentityID, time.Hour, "key"},
		{"empty identity", "iss", "", time.Hour, "key"},
		{"zero duration", "iss", testIdentityID, 0, "key"},
		{"empty key", "iss", testIdentityID, time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, tt.id, models.RoleUser, tt.duration, tt.key, time.Now())
			assert.Error(t, err)
		})
	}
}

func TestValidateAndParseJWTToken_Success(t *testing.T) {
	genToken, err := GenerateJWTToken("test-issuer", testIdentityID, models.RoleAdmin, 5*time.Minute, "secret-key", time.Now())
	require.NoError(t, err)

	parsed, err := ValidateAndParseJWTToken(genToken.SignedString, "secret-key", "test-issuer")

	require.NoError(t, err)
	assert.Equal(t, testIdentityID, parsed.IdentityID())
	assert.Equal(t, models.RoleAdmin, parsed.Role)
	assert.False(t, parsed.IssuedTime().IsZero())
}

func TestValidateAndParseJWTToken_Rejections(t *testing.T) {
	valid, err := GenerateJWTToken("real-issuer", testIdentityID, models.RoleUser, time.Hour, "key", time.Now())
	require.NoError(t, err)
	expired, err := GenerateJWTToken("real-issuer", testIdentityID, models.RoleUser, time.Minute, "key", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		key    string
		issuer string
	}{
		{"wrong key", valid.SignedString, "other-key", "real-issuer"},
		{"wrong issuer", valid.SignedString, "key", "fake-issuer"},
		{"expired", expired.SignedString, "key", "real-issuer"},
		{"malformed", "not.a.token", "key", "real-issuer"},
		{"logout sentinel", models.LoggedOutToken, "key", "real-issuer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAndParseJWTToken(tt.token, tt.key, tt.issuer)
			assert.Error(t, err)
		})
	}
}

func TestValidateAndParseJWTToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "iss",
			Subject:   testIdentityID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("key"))
	require.NoError(t, err)

	_, err = ValidateAndParseJWTToken(signed, "key", "iss")
	assert.Error(t, err)
}

func TestValidateAndParseJWTToken_RequiresSubject(t *testing.T) {
	claims := models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "iss",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("key"))
	require.NoError(t, err)

	_, err = ValidateAndParseJWTToken(signed, "key", "iss")
	assert.Error(t, err)
}
