package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with snake_case JSON keys
// and string durations.
type StructuredJSONConfig struct {
	App struct {
		Env                 string   `json:"env"`
		Version             string   `json:"version"`
		TokenSignKey        string   `json:"token_sign_key"`
		TokenIssuer         string   `json:"token_issuer"`
		TokenDuration       Duration `json:"token_duration"`
		SecretHashKey       string   `json:"secret_hash_key"`
		CookieExpiryDays    int      `json:"cookie_expiry_days"`
		DeletionGracePeriod Duration `json:"deletion_grace_period"`
		DefaultAvatarURL    string   `json:"default_avatar_url"`
		PublicBaseURL       string   `json:"public_base_url"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Objects struct {
			Bucket          string   `json:"bucket"`
			Region          string   `json:"region"`
			Endpoint        string   `json:"endpoint"`
			AccessKeyID     string   `json:"access_key_id"`
			SecretAccessKey string   `json:"secret_access_key"`
			PublicURL       string   `json:"public_url"`
			Timeout         Duration `json:"timeout"`
		} `json:"objects,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Mail struct {
		Host     string   `json:"host"`
		Port     int      `json:"port"`
		Username string   `json:"username"`
		Password string   `json:"password"`
		From     string   `json:"from"`
		Timeout  Duration `json:"timeout"`
	} `json:"mail,omitempty"`

	Broker struct {
		Brokers      []string `json:"brokers"`
		SMSTopic     string   `json:"sms_topic"`
		WriteTimeout Duration `json:"write_timeout"`
	} `json:"broker,omitempty"`

	Geo struct {
		APIKey  string   `json:"api_key"`
		BaseURL string   `json:"base_url"`
		Timeout Duration `json:"timeout"`
	} `json:"geo,omitempty"`

	Workers struct {
		ReaperInterval Duration `json:"reaper_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var j StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&j); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Env:                 j.App.Env,
			Version:             j.App.Version,
			TokenSignKey:        j.App.TokenSignKey,
			TokenIssuer:         j.App.TokenIssuer,
			TokenDuration:       time.Duration(j.App.TokenDuration),
			SecretHashKey:       j.App.SecretHashKey,
			CookieExpiryDays:    j.App.CookieExpiryDays,
			DeletionGracePeriod: time.Duration(j.App.DeletionGracePeriod),
			DefaultAvatarURL:    j.App.DefaultAvatarURL,
			PublicBaseURL:       j.App.PublicBaseURL,
		},
		Storage: Storage{
			DB: DB{
				DSN: j.Storage.DB.DSN,
			},
			Objects: Objects{
				Bucket:          j.Storage.Objects.Bucket,
				Region:          j.Storage.Objects.Region,
				Endpoint:        j.Storage.Objects.Endpoint,
				AccessKeyID:     j.Storage.Objects.AccessKeyID,
				SecretAccessKey: j.Storage.Objects.SecretAccessKey,
				PublicURL:       j.Storage.Objects.PublicURL,
				Timeout:         time.Duration(j.Storage.Objects.Timeout),
			},
		},
		Server: Server{
			HTTPAddress:    j.Server.HTTPAddress,
			GRPCAddress:    j.Server.GRPCAddress,
			RequestTimeout: time.Duration(j.Server.RequestTimeout),
		},
		Mail: Mail{
			Host:     j.Mail.Host,
			Port:     j.Mail.Port,
			Username: j.Mail.Username,
			Password: j.Mail.Password,
			From:     j.Mail.From,
			Timeout:  time.Duration(j.Mail.Timeout),
		},
		Broker: Broker{
			Brokers:      j.Broker.Brokers,
			SMSTopic:     j.Broker.SMSTopic,
			WriteTimeout: time.Duration(j.Broker.WriteTimeout),
		},
		Geo: Geo{
			APIKey:  j.Geo.APIKey,
			BaseURL: j.Geo.BaseURL,
			Timeout: time.Duration(j.Geo.Timeout),
		},
		Workers: Workers{
			ReaperInterval: time.Duration(j.Workers.ReaperInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
