package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

var errNoGeometry = errors.New("boundary contains no usable geometry")

// decodeGeometries extracts every geometry from a stored boundary document:
// a bare GeoJSON Geometry, a single Feature, or a FeatureCollection. Inside a
// FeatureCollection, a feature that fails to parse is logged and skipped so
// one malformed feature cannot poison its siblings. The document itself being
// unparseable is an error.
func decodeGeometries(raw []byte) ([]orb.Geometry, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("parse boundary: %w", err)
	}

	switch probe.Type {
	case "FeatureCollection":
		var fc struct {
			Features []json.RawMessage `json:"features"`
		}
		if err := json.Unmarshal(raw, &fc); err != nil {
			return nil, fmt.Errorf("parse feature collection: %w", err)
		}
		var geoms []orb.Geometry
		for i, rawFeature := range fc.Features {
			f, err := geojson.UnmarshalFeature(rawFeature)
			if err != nil || f.Geometry == nil {
				log.Printf("[geo] skipping unparseable feature %d in boundary: %v", i, err)
				continue
			}
			geoms = append(geoms, f.Geometry)
		}
		return geoms, nil

	case "Feature":
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			return nil, fmt.Errorf("parse feature: %w", err)
		}
		if f.Geometry == nil {
			return nil, errNoGeometry
		}
		return []orb.Geometry{f.Geometry}, nil

	default:
		g, err := geojson.UnmarshalGeometry(raw)
		if err != nil {
			return nil, fmt.Errorf("parse geometry: %w", err)
		}
		return []orb.Geometry{g.Geometry()}, nil
	}
}

// ValidateBoundary is the strict import-time check: the document must parse
// and every feature in it must carry a valid geometry. Used to reject bad
// GeoJSON synchronously before it is stored.
func ValidateBoundary(raw []byte) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("invalid GeoJSON: %w", err)
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(raw)
		if err != nil {
			return fmt.Errorf("invalid FeatureCollection: %w", err)
		}
		if len(fc.Features) == 0 {
			return errNoGeometry
		}
		for i, f := range fc.Features {
			if f.Geometry == nil {
				return fmt.Errorf("feature %d has no geometry", i)
			}
		}
		return nil

	case "Feature":
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			return fmt.Errorf("invalid Feature: %w", err)
		}
		if f.Geometry == nil {
			return errNoGeometry
		}
		return nil

	default:
		if _, err := geojson.UnmarshalGeometry(raw); err != nil {
			return fmt.Errorf("invalid geometry: %w", err)
		}
		return nil
	}
}

// geometryContains tests planar containment of pt in g. Non-areal geometries
// never contain a point.
func geometryContains(g orb.Geometry, pt orb.Point) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(geom, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(geom, pt)
	case orb.Collection:
		for _, sub := range geom {
			if geometryContains(sub, pt) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
