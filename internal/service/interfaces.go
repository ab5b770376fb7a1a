// Package service holds the business workflows of the rental-market server:
// the account lifecycle, session and secret handling, profile and address
// management and the product listing operations built on top of them.
package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-rental-market/models"
)

// TokenService issues and verifies session tokens and ephemeral secrets.
type TokenService interface {
	IssueSession(ctx context.Context, identity *models.Identity) (models.Token, error)
	// VerifySession returns ErrInvalidToken for a bad signature, an expired
	// or foreign token and the logged-out placeholder.
	VerifySession(ctx context.Context, raw string) (models.Token, error)

	IssueSecret(kind models.SecretKind) (models.Secret, error)
	// VerifySecret compares plain against hash in constant time and checks
	// that expiresAt is still in the future.
	VerifySecret(plain, hash string, expiresAt *time.Time) bool
	DigestSecret(plain string) string
}

// AuthService drives the account lifecycle: signup, verification, login and
// password management.
type AuthService interface {
	Signup(ctx context.Context, kind models.Kind, request models.SignupRequest) error
	ResendVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, request models.VerifyEmailRequest) (*models.AuthResult, error)

	Login(ctx context.Context, request models.LoginRequest) (*models.AuthResult, error)
	SendMobileOTP(ctx context.Context, request models.MobileOTPRequest) error
	VerifyMobileOTP(ctx context.Context, request models.MobileOTPRequest) (*models.AuthResult, error)

	ForgotPassword(ctx context.Context, kind models.Kind, email string) error
	ResetPassword(ctx context.Context, secret string, request models.PasswordResetRequest) (*models.AuthResult, error)
	UpdatePassword(ctx context.Context, identity *models.Identity, request models.PasswordUpdateRequest) (*models.AuthResult, error)

	// RequestAccountDeletion returns the moment after which the account is removed.
	RequestAccountDeletion(ctx context.Context, identity *models.Identity) (time.Time, error)

	// Authenticate resolves a raw session token to its live identity.
	Authenticate(ctx context.Context, raw string) (*models.Identity, models.Token, error)

	ApproveVendor(ctx context.Context, vendorID string) error
}

// ProfileService manages the profile of an authenticated identity.
type ProfileService interface {
	CompleteProfile(ctx context.Context, identity *models.Identity, request models.CompleteProfileRequest) (*models.Identity, error)
	UpdateProfilePic(ctx context.Context, identity *models.Identity, avatar *models.Upload) (string, error)
	UpdateMe(ctx context.Context, identity *models.Identity, fields map[string]any) (*models.Identity, error)
}

// AddressService manages the address book of an authenticated identity.
type AddressService interface {
	List(ctx context.Context, identity *models.Identity) []models.Address
	Add(ctx context.Context, identity *models.Identity, input models.AddressInput) (models.Address, error)
	Update(ctx context.Context, identity *models.Identity, addressID string, input models.AddressInput) (models.Address, error)
	Delete(ctx context.Context, identity *models.Identity, addressID string) error

	ReverseGeocode(ctx context.Context, point models.Point) (string, error)
}

// ProductService manages vendor listings.
type ProductService interface {
	Create(ctx context.Context, vendor *models.Identity, request models.CreateProductRequest) (*models.Product, error)
	Nearby(ctx context.Context, query models.NearbyQuery) ([]models.Product, error)
	Approve(ctx context.Context, productID string) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
