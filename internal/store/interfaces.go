// Package store is the PostgreSQL persistence layer of the rental-market
// server. Identities of both kinds share one table so email uniqueness holds
// across kinds; every read takes an explicit [Scope].
package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-rental-market/models"
)

// IdentityRepository persists users and vendors.
type IdentityRepository interface {
	// Create inserts a new identity. The ID is generated when empty and
	// Version is set to 1 on success.
	Create(ctx context.Context, identity *models.Identity, mode SaveMode) error

	FindByID(ctx context.Context, id string, scope Scope) (*models.Identity, error)
	FindByEmail(ctx context.Context, email string, scope Scope) (*models.Identity, error)
	FindByPhone(ctx context.Context, phone string, scope Scope) (*models.Identity, error)

	// FindByEmailAndSecret returns the identity with the given email whose
	// secret for purpose has digest hash and expires after now.
	FindByEmailAndSecret(ctx context.Context, email string, purpose models.SecretPurpose, hash string, now time.Time, scope Scope) (*models.Identity, error)
	// FindBySecret is FindByEmailAndSecret without the email filter.
	FindBySecret(ctx context.Context, purpose models.SecretPurpose, hash string, now time.Time, scope Scope) (*models.Identity, error)

	// Save writes every column of identity guarded by its Version and bumps
	// the version. A stale version yields ErrVersionConflict.
	Save(ctx context.Context, identity *models.Identity, mode SaveMode) error

	Delete(ctx context.Context, id string) error
	DeleteUnverifiedByEmail(ctx context.Context, email string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)

	// FindExpiredDeletions returns identities whose deletion grace period
	// ended at or before now, regardless of the active flag.
	FindExpiredDeletions(ctx context.Context, now time.Time) ([]models.Identity, error)

	PhoneTaken(ctx context.Context, phone string, exceptID string) (bool, error)
	ApproveVendor(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}

// ProductRepository persists vendor listings.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindNearby(ctx context.Context, query models.NearbyQuery) ([]models.Product, error)
	Approve(ctx context.Context, id string) error
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
