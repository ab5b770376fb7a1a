package service

import (
	"github.com/MKhiriev/go-rental-market/internal/adapter"
	"github.com/MKhiriev/go-rental-market/internal/config"
	"github.com/MKhiriev/go-rental-market/internal/geo"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/store"
	"github.com/MKhiriev/go-rental-market/internal/validators"
)

type Services struct {
	TokenService   TokenService
	AuthService    AuthService
	ProfileService ProfileService
	AddressService AddressService
	ProductService ProductService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, adapters *adapter.Adapters, cfg *config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	validator := validators.NewIdentityValidator()
	resolver := geo.NewResolver(adapters.Geocoder, cfg.Geo.Timeout)
	tokens := NewTokenService(cfg.App, logger)

	return &Services{
		TokenService:   tokens,
		AuthService:    NewAuthService(storages.IdentityRepository, tokens, adapters, validator, cfg.App, logger),
		ProfileService: NewProfileService(storages.IdentityRepository, adapters.Objects, resolver, validator, cfg.App, logger),
		AddressService: NewAddressService(storages.IdentityRepository, adapters.Geocoder, resolver, validator, cfg.Geo.Timeout, logger),
		ProductService: NewProductService(storages.ProductRepository, validator, logger),
		AppInfoService: appInfo,
	}, nil
}
