package geo

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"gorm.io/gorm"
)

func init() {
	RegisterBackend(BackendLocal, func(cfg Config, db *gorm.DB) (BoundaryProvider, error) {
		return &LocalProvider{db: db}, nil
	})
}

// LocalProvider answers containment queries in application code: it loads
// every district with a boundary, parses the stored GeoJSON, and tests the
// point against each geometry. Used where the database has no spatial
// extension (sqlite in development, plain Postgres). A row whose boundary
// fails to parse is logged and skipped; it never aborts the query.
type LocalProvider struct {
	db *gorm.DB
}

func (p *LocalProvider) Name() string { return "local" }

type boundaryRow struct {
	ID       uuid.UUID
	Boundary []byte
}

func (p *LocalProvider) ContainingDistricts(ctx context.Context, lat, lon float64) ([]uuid.UUID, error) {
	var rows []boundaryRow
	if err := p.db.WithContext(ctx).
		Table("districts").
		Select("id", "boundary").
		Where("boundary IS NOT NULL").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load boundaries: %w", err)
	}

	// GeoJSON is lon/lat; the API surface is lat/lon.
	pt := orb.Point{lon, lat}

	var ids []uuid.UUID
	for _, row := range rows {
		geoms, err := decodeGeometries(row.Boundary)
		if err != nil {
			log.Printf("[geo] skipping district %s: %v", row.ID, err)
			continue
		}
		for _, g := range geoms {
			if geometryContains(g, pt) {
				ids = append(ids, row.ID)
				break
			}
		}
	}

	return ids, nil
}

func (p *LocalProvider) StoreBoundary(ctx context.Context, districtID uuid.UUID, geojson []byte) (bool, error) {
	result := p.db.WithContext(ctx).
		Table("districts").
		Where("id = ?", districtID).
		Update("boundary", string(geojson))
	if result.Error != nil {
		return false, fmt.Errorf("store boundary: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
