package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-rental-market/internal/adapter"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/models"
	"golang.org/x/sync/errgroup"
)

// resolveConcurrency bounds the number of geocoder calls in flight for one
// ResolveAll call.
const resolveConcurrency = 4

var ErrEmptyAddress = errors.New("address has no geocodable lines")

// Resolver resolves addresses to points through a [adapter.Geocoder].
type Resolver struct {
	geocoder adapter.Geocoder
	timeout  time.Duration
}

// NewResolver returns a Resolver that bounds every geocoder call by timeout.
// A non-positive timeout leaves the caller's deadline in charge.
func NewResolver(geocoder adapter.Geocoder, timeout time.Duration) *Resolver {
	return &Resolver{geocoder: geocoder, timeout: timeout}
}

// Resolve returns the location of input. An explicit CurrentLocation is
// returned unchanged without calling the geocoder.
func (r *Resolver) Resolve(ctx context.Context, input models.AddressInput) (models.Point, error) {
	if input.CurrentLocation != nil {
		return *input.CurrentLocation, nil
	}

	query := GeocodingQuery(input)
	if query == "" {
		return models.Point{}, ErrEmptyAddress
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	point, err := r.geocoder.Geocode(ctx, query)
	if err != nil {
		return models.Point{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	return point, nil
}

// ResolveAll resolves every input with at most four geocoder calls in
// flight. Results keep the order of inputs. When fallback is true a failed
// lookup yields [0, 0] and is logged; otherwise the first failure is
// returned.
func (r *Resolver) ResolveAll(ctx context.Context, inputs []models.AddressInput, fallback bool) ([]models.Point, error) {
	log := logger.FromContext(ctx)

	points := make([]models.Point, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)

	for i, input := range inputs {
		g.Go(func() error {
			point, err := r.Resolve(gctx, input)
			if err == nil {
				points[i] = point
				return nil
			}
			if !fallback {
				return fmt.Errorf("address at index %d: %w", i, err)
			}

			log.Warn().
				Str("func", "Resolver.ResolveAll").
				Int("index", i).
				Err(err).
				Msg("geocoding failed, storing address at [0,0]")
			points[i] = models.Point{}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// GeocodingQuery joins the postal lines of input with ", " and drops the
// first segment, which usually carries a house or flat designation the
// geocoder cannot match. A single-segment address is returned as is.
func GeocodingQuery(input models.AddressInput) string {
	joined := strings.Join(input.Lines(), ", ")

	_, rest, found := strings.Cut(joined, ",")
	if !found {
		return joined
	}
	return strings.TrimSpace(rest)
}
