package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-rental-market/internal/config"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/utils"
	"github.com/MKhiriev/go-rental-market/models"
)

const (
	geocodePath  = "/maps/api/geocode/json"
	geocodeOKKey = "OK"
)

type googleGeocoder struct {
	client *utils.HTTPClient
	apiKey string
	logger *logger.Logger
}

// geocodeResponse is the subset of the Google Geocoding API response the
// adapter reads.
type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// NewGoogleGeocoder constructs a [Geocoder] backed by the Google Geocoding
// API. The base URL from cfg is normalised; requests are bounded by
// cfg.Timeout.
//
// Returns an error if cfg.BaseURL cannot be parsed as a valid URL.
func NewGoogleGeocoder(cfg config.Geo, logger *logger.Logger) (Geocoder, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid geocoder base url: %w", err)
	}

	return &googleGeocoder{
		client: utils.NewHTTPClient(baseURL, cfg.Timeout),
		apiKey: cfg.APIKey,
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Geocode implements [Geocoder].
func (g *googleGeocoder) Geocode(ctx context.Context, address string) (models.Point, error) {
	result, err := g.query(ctx, map[string]string{"address": address})
	if err != nil {
		return models.Point{}, err
	}

	loc := result.Results[0].Geometry.Location
	return models.NewPoint(loc.Lng, loc.Lat), nil
}

// ReverseGeocode implements [Geocoder].
func (g *googleGeocoder) ReverseGeocode(ctx context.Context, point models.Point) (string, error) {
	latlng := strconv.FormatFloat(point.Lat(), 'f', -1, 64) + "," + strconv.FormatFloat(point.Lng(), 'f', -1, 64)

	result, err := g.query(ctx, map[string]string{"latlng": latlng})
	if err != nil {
		return "", err
	}

	return result.Results[0].FormattedAddress, nil
}

func (g *googleGeocoder) query(ctx context.Context, params map[string]string) (*geocodeResponse, error) {
	log := logger.FromContext(ctx)

	var result geocodeResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("key", g.apiKey).
		SetResult(&result).
		Get(geocodePath)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	if result.Status != geocodeOKKey || len(result.Results) == 0 {
		log.Debug().
			Str("func", "googleGeocoder.query").
			Str("status", result.Status).
			Str("error_message", result.ErrorMessage).
			Msg("geocoder returned no usable result")
		return nil, fmt.Errorf("%w: status %s", ErrNoResults, result.Status)
	}

	return &result, nil
}
