// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// EnvProduction is the App.Env value that switches the server into
// production behavior (secure cookies, generic 5xx messages).
const EnvProduction = "production"

// StructuredConfig is the top-level configuration container for the
// rental-market backend. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as signing keys, token
	// lifetime, cookie policy and the deletion grace period.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the relational database and the
	// object store used for avatars and vendor documents.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP and
	// gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// Mail holds SMTP settings for transactional email.
	Mail Mail `envPrefix:"MAIL_"`

	// Broker holds Kafka settings for the SMS OTP publisher.
	Broker Broker `envPrefix:"BROKER_"`

	// Geo holds the geocoding provider settings.
	Geo Geo `envPrefix:"GEO_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Env is the deployment environment name. "production" enables secure
	// cookies and hides internal error details.
	// Env: APP_ENV
	Env string `env:"ENV"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// TokenSignKey is the HS256 key used to sign and verify session tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every session token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a session token remains valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// SecretHashKey is the HMAC key used to digest OTPs and reset tokens
	// before they are stored.
	// Env: APP_SECRET_HASH_KEY
	SecretHashKey string `env:"SECRET_HASH_KEY"`

	// CookieExpiryDays is the lifetime of the jwt session cookie.
	// Env: APP_COOKIE_EXPIRY_DAYS
	CookieExpiryDays int `env:"COOKIE_EXPIRY_DAYS"`

	// DeletionGracePeriod is how long a deletion request can be rescinded
	// by logging in again.
	// Env: APP_DELETION_GRACE_PERIOD
	DeletionGracePeriod time.Duration `env:"DELETION_GRACE_PERIOD"`

	// DefaultAvatarURL is assigned when a profile is completed without an avatar.
	// Env: APP_DEFAULT_AVATAR_URL
	DefaultAvatarURL string `env:"DEFAULT_AVATAR_URL"`

	// PublicBaseURL prefixes links sent by email (e.g. password reset).
	// Env: APP_PUBLIC_BASE_URL
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

// IsProduction reports whether the app runs in the production environment.
func (a App) IsProduction() bool {
	return a.Env == EnvProduction
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Objects holds the S3-compatible object store settings.
	Objects Objects `envPrefix:"OBJECTS_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the PostgreSQL connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Objects holds settings for the S3-compatible bucket.
type Objects struct {
	// Env: STORAGE_OBJECTS_BUCKET
	Bucket string `env:"BUCKET"`
	// Env: STORAGE_OBJECTS_REGION
	Region string `env:"REGION"`
	// Endpoint overrides the AWS endpoint, e.g. for MinIO.
	// Env: STORAGE_OBJECTS_ENDPOINT
	Endpoint string `env:"ENDPOINT"`
	// Env: STORAGE_OBJECTS_ACCESS_KEY_ID
	AccessKeyID string `env:"ACCESS_KEY_ID"`
	// Env: STORAGE_OBJECTS_SECRET_ACCESS_KEY
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	// PublicURL is the base URL under which uploaded keys are served.
	// Env: STORAGE_OBJECTS_PUBLIC_URL
	PublicURL string `env:"PUBLIC_URL"`
	// Env: STORAGE_OBJECTS_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health server. Optional.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Mail holds SMTP settings.
type Mail struct {
	Host     string        `env:"HOST"`
	Port     int           `env:"PORT"`
	Username string        `env:"USERNAME"`
	Password string        `env:"PASSWORD"`
	From     string        `env:"FROM"`
	Timeout  time.Duration `env:"TIMEOUT"`
}

// Broker holds Kafka producer settings.
type Broker struct {
	// Brokers is a comma separated list in the environment.
	// Env: BROKER_BROKERS
	Brokers      []string      `env:"BROKERS" envSeparator:","`
	SMSTopic     string        `env:"SMS_TOPIC"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT"`
}

// Geo holds geocoding provider settings.
type Geo struct {
	APIKey  string        `env:"API_KEY"`
	BaseURL string        `env:"BASE_URL"`
	Timeout time.Duration `env:"TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// ReaperInterval is the tick of the expired-deletion sweep.
	// Env: WORKERS_REAPER_INTERVAL
	ReaperInterval time.Duration `env:"REAPER_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Defaults are applied to fields left empty by every source before validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
	if err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}
