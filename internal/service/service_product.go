package service

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/store"
	"github.com/MKhiriev/go-rental-market/internal/utils"
	"github.com/MKhiriev/go-rental-market/internal/validators"
	"github.com/MKhiriev/go-rental-market/models"
)

type productService struct {
	products  store.ProductRepository
	validator validators.Validator
	logger    *logger.Logger
}

func NewProductService(products store.ProductRepository, validator validators.Validator, logger *logger.Logger) ProductService {
	return &productService{
		products:  products,
		validator: validator,
		logger:    logger,
	}
}

// Create lists a new, unapproved product for vendor.
//
// The location is taken from the request, then from the vendor address named
// by AddressID, then from the vendor's first address.
func (s *productService) Create(ctx context.Context, vendor *models.Identity, request models.CreateProductRequest) (*models.Product, error) {
	if err := s.validator.Validate(ctx, request); err != nil {
		return nil, err
	}

	location, err := productLocation(vendor, request)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          utils.NewID(),
		VendorID:    vendor.ID,
		ModelName:   strings.TrimSpace(request.ModelName),
		Description: request.Description,
		PricePerDay: request.PricePerDay,
		Location:    location,
	}
	if err = s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().
		Str("product_id", product.ID).
		Str("vendor_id", vendor.ID).
		Msg("product created")

	return product, nil
}

func productLocation(vendor *models.Identity, request models.CreateProductRequest) (models.Point, error) {
	switch {
	case request.Location != nil:
		return *request.Location, nil
	case request.AddressID != "":
		idx := vendor.FindAddress(request.AddressID)
		if idx < 0 {
			return models.Point{}, ErrAddressNotFound
		}
		return vendor.Addresses[idx].Location, nil
	case len(vendor.Addresses) > 0:
		return vendor.Addresses[0].Location, nil
	}
	return models.Point{}, ErrMissingProductLocation
}

// Nearby returns approved products within the query radius, newest first.
func (s *productService) Nearby(ctx context.Context, query models.NearbyQuery) ([]models.Product, error) {
	if !query.Center.Valid() {
		return nil, validators.ErrInvalidCoordinates
	}
	if query.RadiusKm <= 0 {
		query.RadiusKm = models.DefaultSearchRadiusKm
	}

	products, err := s.products.FindNearby(ctx, query)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *productService) Approve(ctx context.Context, productID string) error {
	if err := s.products.Approve(ctx, productID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info().Str("product_id", productID).Msg("product approved")
	return nil
}
