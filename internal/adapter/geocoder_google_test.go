package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-rental-market/internal/config"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(t *testing.T, serverURL string) Geocoder {
	t.Helper()
	g, err := NewGoogleGeocoder(config.Geo{APIKey: "test-key", BaseURL: serverURL, Timeout: time.Second}, logger.Nop())
	require.NoError(t, err)
	return g
}

func TestGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, geocodePath, r.URL.Path)
		assert.Equal(t, "Berlin, Germany", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"Berlin","geometry":{"location":{"lat":52.52,"lng":13.405}}}]}`))
	}))
	defer srv.Close()

	got, err := newTestGeocoder(t, srv.URL).Geocode(context.Background(), "Berlin, Germany")

	require.NoError(t, err)
	assert.Equal(t, models.NewPoint(13.405, 52.52), got)
}

func TestGeocode_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer srv.Close()

	_, err := newTestGeocoder(t, srv.URL).Geocode(context.Background(), "nowhere")

	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGeocode_OKWithoutResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[]}`))
	}))
	defer srv.Close()

	_, err := newTestGeocoder(t, srv.URL).Geocode(context.Background(), "nowhere")

	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGeocode_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("key rejected"))
	}))
	defer srv.Close()

	_, err := newTestGeocoder(t, srv.URL).Geocode(context.Background(), "Berlin")

	require.ErrorIs(t, err, ErrForbidden)
	assert.Contains(t, err.Error(), "key rejected")
}

func TestReverseGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "52.52,13.405", r.URL.Query().Get("latlng"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"Pariser Platz, Berlin","geometry":{"location":{"lat":52.52,"lng":13.405}}}]}`))
	}))
	defer srv.Close()

	got, err := newTestGeocoder(t, srv.URL).ReverseGeocode(context.Background(), models.NewPoint(13.405, 52.52))

	require.NoError(t, err)
	assert.Equal(t, "Pariser Platz, Berlin", got)
}

func TestNewGoogleGeocoder_InvalidBaseURL(t *testing.T) {
	_, err := NewGoogleGeocoder(config.Geo{BaseURL: "  "}, logger.Nop())
	assert.Error(t, err)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "adds scheme", raw: "maps.googleapis.com", want: "https://maps.googleapis.com"},
		{name: "keeps scheme", raw: "http://127.0.0.1:9000/", want: "http://127.0.0.1:9000"},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
