// Package geo turns submitted addresses into coordinates and builds the
// radius predicates used by nearby product search.
//
// Coordinates are [models.Point] values, longitude first.
package geo
