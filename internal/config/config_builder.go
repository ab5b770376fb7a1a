package config

import (
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
)

const (
	defaultTokenDuration       = 24 * time.Hour
	defaultCookieExpiryDays    = 90
	defaultDeletionGracePeriod = 2 * time.Minute
	defaultReaperInterval      = time.Minute
	defaultExternalTimeout     = 10 * time.Second
	defaultRequestTimeout      = 30 * time.Second
	defaultHTTPAddress         = "localhost:8080"
	defaultGeoBaseURL          = "https://maps.googleapis.com"
	defaultSMSTopic            = "sms-otp"
	defaultMailPort            = 587
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

// build merges the collected configs in order, later sources overriding
// earlier non-zero fields, and fills the remaining gaps with defaults.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	config.applyDefaults()
	return config, nil
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flagsCfg, err := ParseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flagsCfg)
	return b
}

func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, jsonCfg)

	return b
}

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = defaultTokenDuration
	}
	if cfg.App.CookieExpiryDays == 0 {
		cfg.App.CookieExpiryDays = defaultCookieExpiryDays
	}
	if cfg.App.DeletionGracePeriod == 0 {
		cfg.App.DeletionGracePeriod = defaultDeletionGracePeriod
	}
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Storage.Objects.Timeout == 0 {
		cfg.Storage.Objects.Timeout = defaultExternalTimeout
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = defaultMailPort
	}
	if cfg.Mail.Timeout == 0 {
		cfg.Mail.Timeout = defaultExternalTimeout
	}
	if cfg.Broker.SMSTopic == "" {
		cfg.Broker.SMSTopic = defaultSMSTopic
	}
	if cfg.Broker.WriteTimeout == 0 {
		cfg.Broker.WriteTimeout = defaultExternalTimeout
	}
	if cfg.Geo.BaseURL == "" {
		cfg.Geo.BaseURL = defaultGeoBaseURL
	}
	if cfg.Geo.Timeout == 0 {
		cfg.Geo.Timeout = defaultExternalTimeout
	}
	if cfg.Workers.ReaperInterval == 0 {
		cfg.Workers.ReaperInterval = defaultReaperInterval
	}
}
