package service

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/mock"
	"github.com/MKhiriev/go-rental-market/internal/store"
	"github.com/MKhiriev/go-rental-market/internal/validators"
	"github.com/MKhiriev/go-rental-market/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newProductFixture(t *testing.T) (ProductService, *mock.MockProductRepository) {
	t.Helper()
	repo := mock.NewMockProductRepository(gomock.NewController(t))
	return NewProductService(repo, validators.NewIdentityValidator(), logger.Nop()), repo
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	vendor := identityWithAddress(t)
	vendor.Addresses = append(vendor.Addresses, models.Address{ID: "addr-2", Type: models.AddressWork, Location: models.NewPoint(2.35, 48.85)})

	explicit := models.NewPoint(9.99, 53.55)

	tests := []struct {
		name    string
		vendor  *models.Identity
		request models.CreateProductRequest
		want    models.Point
		wantErr error
	}{
		{
			name:    "explicit location",
			vendor:  vendor,
			request: models.CreateProductRequest{ModelName: "Drill", PricePerDay: 5, Location: &explicit, AddressID: "addr-2"},
			want:    explicit,
		},
		{
			name:    "named address",
			vendor:  vendor,
			request: models.CreateProductRequest{ModelName: "Drill", PricePerDay: 5, AddressID: "addr-2"},
			want:    models.NewPoint(2.35, 48.85),
		},
		{
			name:    "first address",
			vendor:  vendor,
			request: models.CreateProductRequest{ModelName: "Drill", PricePerDay: 5},
			want:    models.NewPoint(13.4, 52.5),
		},
		{
			name:    "unknown address",
			vendor:  vendor,
			request: models.CreateProductRequest{ModelName: "Drill", PricePerDay: 5, AddressID: "nope"},
			wantErr: ErrAddressNotFound,
		},
		{
			name:    "no location at all",
			vendor:  &models.Identity{ID: "v2"},
			request: models.CreateProductRequest{ModelName: "Drill", PricePerDay: 5},
			wantErr: ErrMissingProductLocation,
		},
		{
			name:    "invalid price",
			vendor:  vendor,
			request: models.CreateProductRequest{ModelName: "Drill"},
			wantErr: validators.ErrInvalidProductPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newProductFixture(t)
			if tt.wantErr == nil {
				repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
			}

			product, err := svc.Create(ctx, tt.vendor, tt.request)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, product.Location)
			assert.Equal(t, tt.vendor.ID, product.VendorID)
			assert.False(t, product.Approved)
			assert.NotEmpty(t, product.ID)
		})
	}
}

func TestProductService_Nearby(t *testing.T) {
	ctx := context.Background()
	center := models.NewPoint(13.4, 52.5)

	t.Run("applies default radius", func(t *testing.T) {
		svc, repo := newProductFixture(t)
		repo.EXPECT().FindNearby(ctx, models.NearbyQuery{Center: center, RadiusKm: models.DefaultSearchRadiusKm}).Return(nil, nil)

		got, err := svc.Nearby(ctx, models.NearbyQuery{Center: center})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("invalid center", func(t *testing.T) {
		svc, _ := newProductFixture(t)
		_, err := svc.Nearby(ctx, models.NearbyQuery{Center: models.NewPoint(181, 0)})
		assert.ErrorIs(t, err, validators.ErrInvalidCoordinates)
	})
}

func TestProductService_Approve(t *testing.T) {
	svc, repo := newProductFixture(t)
	repo.EXPECT().Approve(gomock.Any(), "p1").Return(nil)
	repo.EXPECT().Approve(gomock.Any(), "p2").Return(store.ErrProductNotFound)

	assert.NoError(t, svc.Approve(context.Background(), "p1"))
	assert.ErrorIs(t, svc.Approve(context.Background(), "p2"), store.ErrProductNotFound)
}
