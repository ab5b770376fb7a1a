package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-rental-market/internal/config"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/utils"
	"github.com/MKhiriev/go-rental-market/models"
)

// SecretTTL is the lifetime of every OTP and reset token.
const SecretTTL = 10 * time.Minute

// tokenService signs session tokens with HS256 and digests ephemeral secrets
// with HMAC-SHA256 before they reach the store.
type tokenService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// secretHashKey keys the digest of OTPs and reset tokens.
	secretHashKey string

	now func() time.Time

	logger *logger.Logger
}

// NewTokenService constructs a TokenService populated with the security
// parameters from cfg. The returned service is safe for concurrent use.
func NewTokenService(cfg config.App, logger *logger.Logger) TokenService {
	return &tokenService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		secretHashKey: cfg.SecretHashKey,
		now:           time.Now,
		logger:        logger,
	}
}

// IssueSession signs a token carrying the identity id and role.
func (t *tokenService) IssueSession(ctx context.Context, identity *models.Identity) (models.Token, error) {
	token, err := utils.GenerateJWTToken(t.tokenIssuer, identity.ID, identity.Role, t.tokenDuration, t.tokenSignKey, t.now())
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// VerifySession validates and parses a raw JWT string. Every validation
// failure is normalised to ErrInvalidToken so callers do not need to inspect
// low-level JWT errors.
func (t *tokenService) VerifySession(ctx context.Context, raw string) (models.Token, error) {
	if raw == "" || raw == models.LoggedOutToken {
		return models.Token{}, ErrInvalidToken
	}

	token, err := utils.ValidateAndParseJWTToken(raw, t.tokenSignKey, t.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("session token rejected")
		return models.Token{}, ErrInvalidToken
	}

	return token, nil
}

// IssueSecret generates a fresh secret of the given kind together with its
// digest and expiry. Only the digest is ever persisted.
func (t *tokenService) IssueSecret(kind models.SecretKind) (models.Secret, error) {
	var (
		plain string
		err   error
	)
	switch kind {
	case models.SecretToken:
		plain, err = utils.GenerateHexToken()
	default:
		plain, err = utils.GenerateOTP()
	}
	if err != nil {
		return models.Secret{}, fmt.Errorf("%w: %w", ErrSecretCreationFailed, err)
	}

	return models.Secret{
		Plain:     plain,
		Hash:      t.DigestSecret(plain),
		ExpiresAt: t.now().Add(SecretTTL),
	}, nil
}

func (t *tokenService) VerifySecret(plain, hash string, expiresAt *time.Time) bool {
	if plain == "" || hash == "" || expiresAt == nil {
		return false
	}
	if !t.now().Before(*expiresAt) {
		return false
	}
	return utils.EqualHashes(t.DigestSecret(plain), hash)
}

func (t *tokenService) DigestSecret(plain string) string {
	return utils.HashString(plain, t.secretHashKey)
}
