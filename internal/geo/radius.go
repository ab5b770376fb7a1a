package geo

import (
	"math"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-rental-market/models"
)

// EarthRadiusKm is the equatorial earth radius used by the distance predicate.
const EarthRadiusKm = 6378.1

// Placeholders are cast so the planner cannot infer an integer type for them.
const haversineSQL = "CAST(? AS DOUBLE PRECISION) * 2 * ASIN(LEAST(1, SQRT(" +
	"POWER(SIN(RADIANS(latitude - CAST(? AS DOUBLE PRECISION)) / 2), 2) + " +
	"COS(RADIANS(CAST(? AS DOUBLE PRECISION))) * COS(RADIANS(latitude)) * " +
	"POWER(SIN(RADIANS(longitude - CAST(? AS DOUBLE PRECISION)) / 2), 2)" +
	"))) <= CAST(? AS DOUBLE PRECISION)"

// WithinRadius returns a predicate matching rows whose longitude and
// latitude columns lie within radiusKm of center by great-circle distance.
// A non-positive radius selects models.DefaultSearchRadiusKm.
func WithinRadius(center models.Point, radiusKm float64) sq.Sqlizer {
	if radiusKm <= 0 {
		radiusKm = models.DefaultSearchRadiusKm
	}
	return sq.Expr(haversineSQL, EarthRadiusKm, center.Lat(), center.Lat(), center.Lng(), radiusKm)
}

// DistanceKm returns the great-circle distance between a and b computed the
// same way as the WithinRadius predicate.
func DistanceKm(a, b models.Point) float64 {
	dLat := radians(b.Lat() - a.Lat())
	dLng := radians(b.Lng() - a.Lng())

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(radians(a.Lat()))*math.Cos(radians(b.Lat()))*math.Pow(math.Sin(dLng/2), 2)

	return EarthRadiusKm * 2 * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
