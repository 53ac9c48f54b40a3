// Package location maps a citizen's address to the representatives serving
// that physical location: geocode the address, test which stored district
// boundaries contain the point, then fetch the entities for the matched
// districts grouped by owning jurisdiction.
package location

import (
	"context"
	"fmt"
	"sort"

	"github.com/OpenAdvocacy/OA-Backend/internal/advocacy"
	"github.com/OpenAdvocacy/OA-Backend/internal/location/geo"
	"github.com/OpenAdvocacy/OA-Backend/internal/location/geocoding"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JurisdictionEntities is one jurisdiction's slice of a lookup response.
type JurisdictionEntities struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Level       string            `json:"level"`
	Description string            `json:"description,omitempty"`
	Entities    []advocacy.Entity `json:"entities"`
}

// LookupResponse is the full address-lookup result. Coordinates are
// [latitude, longitude] and are populated even when nothing matches, so
// callers can distinguish "resolved but nowhere" from "unresolvable".
type LookupResponse struct {
	Address       string                 `json:"address"`
	Coordinates   [2]float64             `json:"coordinates"`
	Jurisdictions []JurisdictionEntities `json:"jurisdictions"`
}

// Resolver composes the geocoder, the boundary store, and the entity tables.
type Resolver struct {
	Geocoder   geocoding.Geocoder
	Boundaries geo.BoundaryProvider
	DB         *gorm.DB
}

// Lookup resolves an address to the representatives serving it. Geocoding
// failures propagate (callers map ErrAddressNotFound and ErrService to
// distinct responses); zero containing districts or zero entities yield an
// empty-but-valid response.
func (r *Resolver) Lookup(ctx context.Context, address string) (*LookupResponse, error) {
	lat, lon, err := r.Geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	resp := &LookupResponse{
		Address:       address,
		Coordinates:   [2]float64{lat, lon},
		Jurisdictions: []JurisdictionEntities{},
	}

	districtIDs, err := r.Boundaries.ContainingDistricts(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("containment lookup: %w", err)
	}
	if len(districtIDs) == 0 {
		return resp, nil
	}

	var districts []advocacy.District
	if err := r.DB.WithContext(ctx).
		Select("id", "name", "jurisdiction_id").
		Where("id IN ?", districtIDs).
		Find(&districts).Error; err != nil {
		return nil, fmt.Errorf("fetch districts: %w", err)
	}

	districtNames := make(map[uuid.UUID]string, len(districts))
	jurisdictionIDs := make([]uuid.UUID, 0, len(districts))
	seenJurisdiction := make(map[uuid.UUID]bool)
	for _, d := range districts {
		districtNames[d.ID] = d.Name
		if !seenJurisdiction[d.JurisdictionID] {
			seenJurisdiction[d.JurisdictionID] = true
			jurisdictionIDs = append(jurisdictionIDs, d.JurisdictionID)
		}
	}

	// One batched IN query for all matched districts' entities.
	var entities []advocacy.Entity
	if err := r.DB.WithContext(ctx).
		Where("district_id IN ?", districtIDs).
		Order("name").
		Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("fetch entities: %w", err)
	}

	entitiesByJurisdiction := make(map[uuid.UUID][]advocacy.Entity)
	for _, e := range entities {
		e.DistrictName = districtNames[e.DistrictID]
		entitiesByJurisdiction[e.JurisdictionID] = append(entitiesByJurisdiction[e.JurisdictionID], e)
	}

	var jurisdictions []advocacy.Jurisdiction
	if err := r.DB.WithContext(ctx).
		Where("id IN ?", jurisdictionIDs).
		Find(&jurisdictions).Error; err != nil {
		return nil, fmt.Errorf("fetch jurisdictions: %w", err)
	}

	sort.Slice(jurisdictions, func(i, j int) bool {
		return jurisdictions[i].Name < jurisdictions[j].Name
	})

	for _, j := range jurisdictions {
		ents := entitiesByJurisdiction[j.ID]
		if ents == nil {
			ents = []advocacy.Entity{}
		}
		resp.Jurisdictions = append(resp.Jurisdictions, JurisdictionEntities{
			ID:          j.ID,
			Name:        j.Name,
			Level:       j.Level,
			Description: j.Description,
			Entities:    ents,
		})
	}

	return resp, nil
}
