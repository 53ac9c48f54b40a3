// Package geo answers point-in-polygon questions against stored district
// boundaries. Two interchangeable backends exist: a PostGIS-backed one that
// pushes containment into the database, and an in-process one that scans
// boundaries with planar geometry. Both answer the same contract: the same
// matched id set for the same boundary rows and query point.
package geo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUnknownBackend = errors.New("unknown geo backend")

// BoundaryProvider is the containment-query contract.
//
// ContainingDistricts takes latitude then longitude at the API surface;
// implementations flip to (lon, lat) at the geometry layer per GeoJSON
// coordinate order.
type BoundaryProvider interface {
	// Name returns the backend name for logging purposes.
	Name() string

	// ContainingDistricts returns the ids of all districts whose stored
	// boundary contains the point. No match is an empty slice, not an error.
	ContainingDistricts(ctx context.Context, lat, lon float64) ([]uuid.UUID, error)

	// StoreBoundary stores raw GeoJSON as the district's boundary. Returns
	// false when no district with that id exists.
	StoreBoundary(ctx context.Context, districtID uuid.UUID, geojson []byte) (bool, error)
}

// BackendType identifies which containment backend to use.
type BackendType string

const (
	BackendPostGIS BackendType = "postgis"
	BackendLocal   BackendType = "local"
)

// Config holds boundary-backend configuration.
type Config struct {
	Backend BackendType
}

// LoadFromEnv reads GEO_BACKEND ("postgis" or "local", default "postgis").
func LoadFromEnv() Config {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("GEO_BACKEND")))

	cfg := Config{Backend: BackendPostGIS}
	if backend == string(BackendLocal) {
		cfg.Backend = BackendLocal
	}
	return cfg
}

// backendRegistry holds registered backend constructors, populated by init()
// in each backend file so new backends slot in without touching this one.
var backendRegistry = make(map[BackendType]func(Config, *gorm.DB) (BoundaryProvider, error))

func RegisterBackend(backend BackendType, constructor func(Config, *gorm.DB) (BoundaryProvider, error)) {
	backendRegistry[backend] = constructor
}

// NewProvider creates the configured BoundaryProvider over the given DB.
func NewProvider(cfg Config, db *gorm.DB) (BoundaryProvider, error) {
	constructor, ok := backendRegistry[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
	return constructor(cfg, db)
}
