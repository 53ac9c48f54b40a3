// Package geocoding resolves free-text addresses to WGS84 coordinates.
//
// Two backends exist: Nominatim (free, the default) and the Google Maps
// Geocoding API (used exclusively when an API key is configured). Selection
// happens once at startup; there is no runtime failover between them. A
// commercial outage is surfaced as a service error rather than silently
// answered by a provider with different result quality.
package geocoding

import (
	"context"
	"errors"
	"os"
	"time"
)

var (
	// ErrAddressNotFound means the backend answered but found no match.
	ErrAddressNotFound = errors.New("address not found")

	// ErrService covers transport failures, non-200 responses, and
	// malformed payloads from the geocoding backend.
	ErrService = errors.New("geocoding service error")
)

// Geocoder converts a free-form address into latitude/longitude.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, address string) (lat, lon float64, err error)
}

// Config holds geocoder configuration, threaded explicitly into constructors
// so the core stays testable without environment mutation.
type Config struct {
	// APIKey enables the Google backend when non-empty.
	APIKey string

	// NominatimURL overrides the Nominatim endpoint (tests, self-hosted
	// instances). Empty means the public openstreetmap.org instance.
	NominatimURL string

	// Timeout bounds each outbound geocoding call.
	Timeout time.Duration
}

const defaultTimeout = 10 * time.Second

// LoadFromEnv reads geocoder configuration from environment variables:
//
//   - GEOCODING_API_KEY: Google Maps API key (optional)
//   - NOMINATIM_URL: Nominatim endpoint override (optional)
func LoadFromEnv() Config {
	return Config{
		APIKey:       os.Getenv("GEOCODING_API_KEY"),
		NominatimURL: os.Getenv("NOMINATIM_URL"),
		Timeout:      defaultTimeout,
	}
}

// NewFromConfig selects the backend: Google when an API key is configured,
// Nominatim otherwise.
func NewFromConfig(cfg Config) Geocoder {
	if cfg.APIKey != "" {
		return NewGoogleClient(cfg)
	}
	return NewNominatimClient(cfg)
}
