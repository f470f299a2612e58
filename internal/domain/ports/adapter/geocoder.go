package adapter

import "context"

// Geocoder resolves coordinates to a human-readable address. Implementations
// must return a placeholder string on failure and never propagate an error to
// the caller; a missing address degrades to "confirm on call".
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) string
}
