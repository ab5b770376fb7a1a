package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-rental-market/internal/adapter"
	"github.com/MKhiriev/go-rental-market/internal/geo"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/store"
	"github.com/MKhiriev/go-rental-market/internal/utils"
	"github.com/MKhiriev/go-rental-market/internal/validators"
	"github.com/MKhiriev/go-rental-market/models"
)

// addressService edits the address list embedded in an identity. Unlike
// profile completion, an address that cannot be geocoded is rejected.
type addressService struct {
	identities store.IdentityRepository
	geocoder   adapter.Geocoder
	resolver   *geo.Resolver
	validator  validators.Validator

	// geoTimeout bounds reverse geocoding calls.
	geoTimeout time.Duration

	logger *logger.Logger
}

func NewAddressService(
	identities store.IdentityRepository,
	geocoder adapter.Geocoder,
	resolver *geo.Resolver,
	validator validators.Validator,
	geoTimeout time.Duration,
	logger *logger.Logger,
) AddressService {
	return &addressService{
		identities: identities,
		geocoder:   geocoder,
		resolver:   resolver,
		validator:  validator,
		geoTimeout: geoTimeout,
		logger:     logger,
	}
}

func (s *addressService) List(ctx context.Context, identity *models.Identity) []models.Address {
	if identity.Addresses == nil {
		return []models.Address{}
	}
	return identity.Addresses
}

// Add geocodes input, unless it carries a current location, and appends it
// to the identity's addresses.
func (s *addressService) Add(ctx context.Context, identity *models.Identity, input models.AddressInput) (models.Address, error) {
	if err := s.validator.Validate(ctx, input); err != nil {
		return models.Address{}, err
	}

	point, err := s.resolve(ctx, input)
	if err != nil {
		return models.Address{}, err
	}
	address := input.ToAddress(utils.NewID(), point)

	updated := *identity
	updated.Addresses = append(slices.Clone(identity.Addresses), address)
	if err = s.identities.Save(ctx, &updated, store.PartialValidation); err != nil {
		return models.Address{}, err
	}

	*identity = updated
	return address, nil
}

// Update patches the address with the given id. The location is resolved
// again only when the patch carries a location or changes a postal line.
func (s *addressService) Update(ctx context.Context, identity *models.Identity, addressID string, input models.AddressInput) (models.Address, error) {
	idx := identity.FindAddress(addressID)
	if idx < 0 {
		return models.Address{}, ErrAddressNotFound
	}
	if err := s.validator.Validate(ctx, input, validators.FieldAddressType, validators.FieldCurrentLocation); err != nil {
		return models.Address{}, err
	}

	current := identity.Addresses[idx]
	point := current.Location
	if input.CurrentLocation != nil || len(input.Lines()) > 0 {
		var err error
		point, err = s.resolve(ctx, current.Patched(input))
		if err != nil {
			return models.Address{}, err
		}
	}

	updated := *identity
	updated.Addresses = slices.Clone(identity.Addresses)
	input.Merge(&updated.Addresses[idx], point)

	if err := s.identities.Save(ctx, &updated, store.PartialValidation); err != nil {
		return models.Address{}, err
	}

	*identity = updated
	return identity.Addresses[idx], nil
}

func (s *addressService) Delete(ctx context.Context, identity *models.Identity, addressID string) error {
	idx := identity.FindAddress(addressID)
	if idx < 0 {
		return ErrAddressNotFound
	}

	updated := *identity
	updated.Addresses = slices.Delete(slices.Clone(identity.Addresses), idx, idx+1)
	if err := s.identities.Save(ctx, &updated, store.PartialValidation); err != nil {
		return err
	}

	*identity = updated
	return nil
}

// ReverseGeocode returns the formatted address closest to point.
func (s *addressService) ReverseGeocode(ctx context.Context, point models.Point) (string, error) {
	if !point.Valid() {
		return "", validators.ErrInvalidCoordinates
	}

	if s.geoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.geoTimeout)
		defer cancel()
	}

	address, err := s.geocoder.ReverseGeocode(ctx, point)
	if errors.Is(err, adapter.ErrNoResults) {
		return "", ErrLocationNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reverse geocoding failed: %w", err)
	}
	return address, nil
}

func (s *addressService) resolve(ctx context.Context, input models.AddressInput) (models.Point, error) {
	point, err := s.resolver.Resolve(ctx, input)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("address could not be geocoded")
		return models.Point{}, fmt.Errorf("%w: %w", ErrGeocodingFailed, err)
	}
	return point, nil
}
