// Package maps is the geocoding and routing collaborator. The core consumes
// only the Geocoder interface; the Google Maps implementation lives behind it.
package maps

import (
	"context"
	"errors"
)

// ErrNoResults is returned when the provider cannot resolve the request.
var ErrNoResults = errors.New("no results for the requested location")

// LatLng is a geographic coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Route describes the distance and travel time between two addresses.
type Route struct {
	DistanceMeters  int    `json:"distanceMeters"`
	DurationSeconds int    `json:"durationSeconds"`
	DistanceText    string `json:"distanceText"`
	DurationText    string `json:"durationText"`
}

// Geocoder resolves addresses to coordinates and routes.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (LatLng, error)
	Distance(ctx context.Context, origin, destination string) (Route, error)
	Autocomplete(ctx context.Context, input string) ([]string, error)
}
