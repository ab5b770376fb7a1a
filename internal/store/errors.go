package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrIdentityNotFound is returned when no identity matches the lookup
	// within the requested scope.
	ErrIdentityNotFound = errors.New("no account was found")

	// ErrDuplicateEmail is returned when the email is already registered by
	// an identity of either kind.
	ErrDuplicateEmail = errors.New("email is already in use")

	// ErrDuplicatePhone is returned when the phone number belongs to another identity.
	ErrDuplicatePhone = errors.New("phone number is already in use")

	// ErrProductNotFound is returned when a product id matches no row.
	ErrProductNotFound = errors.New("product was not found")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the record changed since it was read.
	ErrVersionConflict = errors.New("record was modified concurrently, retry the request")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT, UPDATE or
	// DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingColumn is returned when a JSONB column cannot be encoded or decoded.
	ErrEncodingColumn = errors.New("failed to encode jsonb column")

	// ErrInvalidRecord is returned when full validation rejects an identity
	// before it is written.
	ErrInvalidRecord = errors.New("invalid record")
)
