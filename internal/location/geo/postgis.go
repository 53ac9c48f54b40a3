package geo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func init() {
	RegisterBackend(BackendPostGIS, func(cfg Config, db *gorm.DB) (BoundaryProvider, error) {
		return &PostGISProvider{db: db}, nil
	})
}

// PostGISProvider pushes point-in-polygon testing into the database. It
// understands the three stored boundary shapes: a FeatureCollection is
// unnested and matched feature by feature, a Feature contributes its
// geometry member, and anything else is treated as a bare geometry.
type PostGISProvider struct {
	db *gorm.DB
}

func (p *PostGISProvider) Name() string { return "postgis" }

// containmentQuery builds the point as lon/lat (GeoJSON order) in WGS84.
const containmentQuery = `
	SELECT DISTINCT d.id
	FROM districts d,
	     ST_SetSRID(ST_MakePoint(?, ?), 4326) AS pt
	WHERE d.boundary IS NOT NULL
	  AND CASE
	    WHEN jsonb_typeof(d.boundary->'features') = 'array' THEN EXISTS (
	      SELECT 1
	      FROM jsonb_array_elements(d.boundary->'features') AS f(feature)
	      WHERE f.feature->>'geometry' IS NOT NULL
	        AND ST_Contains(
	          ST_SetSRID(ST_GeomFromGeoJSON(f.feature->>'geometry'), 4326),
	          pt
	        )
	    )
	    ELSE ST_Contains(
	      ST_SetSRID(ST_GeomFromGeoJSON(
	        COALESCE(d.boundary->>'geometry', d.boundary::text)
	      ), 4326),
	      pt
	    )
	  END
`

func (p *PostGISProvider) ContainingDistricts(ctx context.Context, lat, lon float64) ([]uuid.UUID, error) {
	rows, err := p.db.WithContext(ctx).Raw(containmentQuery, lon, lat).Rows()
	if err != nil {
		return nil, fmt.Errorf("containment query failed: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan district id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (p *PostGISProvider) StoreBoundary(ctx context.Context, districtID uuid.UUID, geojson []byte) (bool, error) {
	result := p.db.WithContext(ctx).
		Table("districts").
		Where("id = ?", districtID).
		Update("boundary", string(geojson))
	if result.Error != nil {
		return false, fmt.Errorf("store boundary: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
