package models

import "strings"

// AddressType classifies an embedded address.
type AddressType string

const (
	AddressHome  AddressType = "home"
	AddressWork  AddressType = "work"
	AddressOther AddressType = "other"
)

// Valid reports whether t is a known address type.
func (t AddressType) Valid() bool {
	switch t {
	case AddressHome, AddressWork, AddressOther:
		return true
	}
	return false
}

// Point is a geographic coordinate pair stored longitude first.
type Point [2]float64

// NewPoint builds a Point from longitude and latitude.
func NewPoint(lng, lat float64) Point {
	return Point{lng, lat}
}

func (p Point) Lng() float64 { return p[0] }
func (p Point) Lat() float64 { return p[1] }

// Valid reports whether both coordinates are within range.
func (p Point) Valid() bool {
	return p[0] >= -180 && p[0] <= 180 && p[1] >= -90 && p[1] <= 90
}

// Address is owned by exactly one identity and is stored embedded in it.
// ID only addresses the entry within its owner.
type Address struct {
	ID           string      `json:"id"`
	Type         AddressType `json:"type"`
	Alias        string      `json:"alias"`
	AddressLine1 string      `json:"addressLine1"`
	AddressLine2 string      `json:"addressLine2,omitempty"`
	City         string      `json:"city"`
	State        string      `json:"state"`
	Country      string      `json:"country"`
	Pincode      string      `json:"pincode"`
	Location     Point       `json:"location"`
}

// AddressInput is an address as submitted by a client. CurrentLocation, when
// present, takes precedence over geocoding the postal lines.
type AddressInput struct {
	Type            AddressType `json:"type"`
	Alias           string      `json:"alias"`
	AddressLine1    string      `json:"addressLine1"`
	AddressLine2    string      `json:"addressLine2"`
	City            string      `json:"city"`
	State           string      `json:"state"`
	Country         string      `json:"country"`
	Pincode         string      `json:"pincode"`
	CurrentLocation *Point      `json:"currentLocation,omitempty"`
}

// Lines returns the postal lines in geocoding order, skipping empty ones.
func (a AddressInput) Lines() []string {
	parts := []string{a.AddressLine1, a.AddressLine2, a.City, a.State, a.Country, a.Pincode}
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}
	return lines
}

// ToAddress converts the input into a stored address with the given id and location.
func (a AddressInput) ToAddress(id string, location Point) Address {
	return Address{
		ID:           id,
		Type:         a.Type,
		Alias:        a.Alias,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		Country:      a.Country,
		Pincode:      a.Pincode,
		Location:     location,
	}
}

// Merge overwrites the non-empty fields of a onto dst and sets its location.
func (a AddressInput) Merge(dst *Address, location Point) {
	if a.Type != "" {
		dst.Type = a.Type
	}
	if a.Alias != "" {
		dst.Alias = a.Alias
	}
	if a.AddressLine1 != "" {
		dst.AddressLine1 = a.AddressLine1
	}
	if a.AddressLine2 != "" {
		dst.AddressLine2 = a.AddressLine2
	}
	if a.City != "" {
		dst.City = a.City
	}
	if a.State != "" {
		dst.State = a.State
	}
	if a.Country != "" {
		dst.Country = a.Country
	}
	if a.Pincode != "" {
		dst.Pincode = a.Pincode
	}
	dst.Location = location
}

// Patched returns the postal fields of a with the non-empty fields of patch
// applied, keeping the CurrentLocation of patch.
func (a Address) Patched(patch AddressInput) AddressInput {
	patch.Merge(&a, a.Location)

	return AddressInput{
		Type:            a.Type,
		Alias:           a.Alias,
		AddressLine1:    a.AddressLine1,
		AddressLine2:    a.AddressLine2,
		City:            a.City,
		State:           a.State,
		Country:         a.Country,
		Pincode:         a.Pincode,
		CurrentLocation: patch.CurrentLocation,
	}
}
