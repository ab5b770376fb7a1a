// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// startup requirements. The first failing group is reported.
func (cfg *StructuredConfig) validate() error {
	app := cfg.App
	if app.TokenSignKey == "" || app.TokenIssuer == "" || app.SecretHashKey == "" {
		return fmt.Errorf("%w: token sign key, token issuer and secret hash key are required", ErrInvalidAppConfigs)
	}
	if app.TokenDuration <= 0 || app.DeletionGracePeriod <= 0 || app.CookieExpiryDays <= 0 {
		return fmt.Errorf("%w: durations must be positive", ErrInvalidAppConfigs)
	}
	if app.PublicBaseURL == "" {
		return fmt.Errorf("%w: public base url is required", ErrInvalidAppConfigs)
	}

	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database dsn is required", ErrInvalidStorageConfigs)
	}
	if cfg.Storage.Objects.Bucket == "" || cfg.Storage.Objects.PublicURL == "" {
		return fmt.Errorf("%w: bucket and public url are required", ErrInvalidStorageConfigs)
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Mail.Host == "" || cfg.Mail.From == "" || cfg.Mail.Port <= 0 {
		return ErrInvalidMailConfigs
	}

	if len(cfg.Broker.Brokers) == 0 || cfg.Broker.SMSTopic == "" {
		return ErrInvalidBrokerConfigs
	}

	if cfg.Geo.APIKey == "" || cfg.Geo.BaseURL == "" {
		return ErrInvalidGeoConfigs
	}

	if cfg.Workers.ReaperInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
