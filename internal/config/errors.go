package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates missing signing keys or a non-positive
	// token duration, grace period or cookie lifetime.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates an empty DSN or bucket.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates a missing HTTP address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidMailConfigs indicates an SMTP host or sender is missing.
	ErrInvalidMailConfigs = errors.New("invalid mail configuration")
	// ErrInvalidBrokerConfigs indicates an empty broker list or topic.
	ErrInvalidBrokerConfigs = errors.New("invalid broker configuration")
	// ErrInvalidGeoConfigs indicates a missing geocoding API key.
	ErrInvalidGeoConfigs = errors.New("invalid geo configuration")
	// ErrInvalidWorkerConfigs indicates a zero reaper interval.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
