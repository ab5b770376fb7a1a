package models

import "time"

// DefaultSearchRadiusKm is used by nearby product search when the caller
// does not pass a radius.
const DefaultSearchRadiusKm = 30.0

// Product is a rental listing owned by a vendor. Only approved products are
// visible to nearby search.
type Product struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendorId"`
	ModelName   string    `json:"modelName"`
	Description string    `json:"description,omitempty"`
	PricePerDay float64   `json:"pricePerDay"`
	Approved    bool      `json:"approved"`
	Location    Point     `json:"location"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NearbyQuery describes a bounded-radius search around Center.
type NearbyQuery struct {
	Center   Point
	RadiusKm float64
}
