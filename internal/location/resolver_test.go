package location

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/OpenAdvocacy/OA-Backend/internal/advocacy"
	"github.com/OpenAdvocacy/OA-Backend/internal/location/geo"
	"github.com/OpenAdvocacy/OA-Backend/internal/location/geocoding"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeGeocoder returns canned coordinates keyed by address.
type fakeGeocoder struct {
	coords map[string][2]float64
}

func (f *fakeGeocoder) Name() string { return "fake" }

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	c, ok := f.coords[address]
	if !ok {
		return 0, 0, geocoding.ErrAddressNotFound
	}
	return c[0], c[1], nil
}

func openLocationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&advocacy.Jurisdiction{}, &advocacy.District{}, &advocacy.Entity{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// cityHallSquare covers longitudes -88..-87, latitudes 41..42.
const cityHallSquare = `{"type":"Feature","properties":{},"geometry":` +
	`{"type":"Polygon","coordinates":[[[-88,41],[-87,41],[-87,42],[-88,42],[-88,41]]]}}`

// newTestResolver builds a resolver over sqlite with the in-process geo
// backend and one ward containing Chicago City Hall.
func newTestResolver(t *testing.T) (*Resolver, advocacy.Jurisdiction, advocacy.District, advocacy.Entity) {
	t.Helper()

	db := openLocationDB(t)
	provider, err := geo.NewProvider(geo.Config{Backend: geo.BackendLocal}, db)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	jur := advocacy.Jurisdiction{Name: "Chicago City Council", Level: "city_council"}
	if err := db.Create(&jur).Error; err != nil {
		t.Fatalf("create jurisdiction: %v", err)
	}
	district := advocacy.District{Name: "Ward 42", Code: "42", JurisdictionID: jur.ID}
	if err := db.Create(&district).Error; err != nil {
		t.Fatalf("create district: %v", err)
	}
	entity := advocacy.Entity{
		Name:           "Brendan Reilly",
		Title:          "Alderperson",
		EntityType:     "alderperson",
		JurisdictionID: jur.ID,
		DistrictID:     district.ID,
	}
	if err := db.Create(&entity).Error; err != nil {
		t.Fatalf("create entity: %v", err)
	}

	stored, err := provider.StoreBoundary(context.Background(), district.ID, []byte(cityHallSquare))
	if err != nil || !stored {
		t.Fatalf("store boundary: stored=%v err=%v", stored, err)
	}

	r := &Resolver{
		Geocoder: &fakeGeocoder{coords: map[string][2]float64{
			"121 N LaSalle St, Chicago, IL": {41.8837, -87.6324},
			"middle of Lake Michigan":       {43.5, -87.2},
		}},
		Boundaries: provider,
		DB:         db,
	}
	return r, jur, district, entity
}

func TestResolverLookup(t *testing.T) {
	r, jur, district, entity := newTestResolver(t)

	resp, err := r.Lookup(context.Background(), "121 N LaSalle St, Chicago, IL")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	if resp.Coordinates != [2]float64{41.8837, -87.6324} {
		t.Errorf("unexpected coordinates %v", resp.Coordinates)
	}
	if len(resp.Jurisdictions) != 1 {
		t.Fatalf("expected 1 jurisdiction, got %d", len(resp.Jurisdictions))
	}

	got := resp.Jurisdictions[0]
	if got.ID != jur.ID || got.Name != jur.Name || got.Level != jur.Level {
		t.Errorf("unexpected jurisdiction %+v", got)
	}
	if len(got.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(got.Entities))
	}
	if got.Entities[0].ID != entity.ID {
		t.Errorf("expected entity %s, got %s", entity.ID, got.Entities[0].ID)
	}
	if got.Entities[0].DistrictName != district.Name {
		t.Errorf("expected district name %q, got %q", district.Name, got.Entities[0].DistrictName)
	}
}

func TestResolverLookup_NoDistrictsAtPoint(t *testing.T) {
	r, _, _, _ := newTestResolver(t)

	resp, err := r.Lookup(context.Background(), "middle of Lake Michigan")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	// Coordinates stay populated even with no match, so clients can show
	// "resolved, but nothing represents this point".
	if resp.Coordinates != [2]float64{43.5, -87.2} {
		t.Errorf("unexpected coordinates %v", resp.Coordinates)
	}
	if resp.Jurisdictions == nil {
		t.Error("expected an empty slice, not nil")
	}
	if len(resp.Jurisdictions) != 0 {
		t.Errorf("expected no jurisdictions, got %+v", resp.Jurisdictions)
	}
}

func TestResolverLookup_AddressNotFound(t *testing.T) {
	r, _, _, _ := newTestResolver(t)

	_, err := r.Lookup(context.Background(), "asdfghjkl")
	if !errors.Is(err, geocoding.ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound, got %v", err)
	}
}

func TestResolverLookup_MultipleJurisdictions(t *testing.T) {
	r, _, _, _ := newTestResolver(t)

	// Overlay a state house district covering the same area under a second
	// jurisdiction; the lookup must group entities per jurisdiction.
	state := advocacy.Jurisdiction{Name: "Illinois House", Level: "state_house"}
	if err := r.DB.Create(&state).Error; err != nil {
		t.Fatalf("create jurisdiction: %v", err)
	}
	houseDistrict := advocacy.District{Name: "District 6", Code: "6", JurisdictionID: state.ID}
	if err := r.DB.Create(&houseDistrict).Error; err != nil {
		t.Fatalf("create district: %v", err)
	}
	rep := advocacy.Entity{
		Name:           "Sonya Harper",
		EntityType:     "state_representative",
		JurisdictionID: state.ID,
		DistrictID:     houseDistrict.ID,
	}
	if err := r.DB.Create(&rep).Error; err != nil {
		t.Fatalf("create entity: %v", err)
	}
	if _, err := r.Boundaries.StoreBoundary(context.Background(), houseDistrict.ID, []byte(cityHallSquare)); err != nil {
		t.Fatalf("store boundary: %v", err)
	}

	resp, err := r.Lookup(context.Background(), "121 N LaSalle St, Chicago, IL")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	if len(resp.Jurisdictions) != 2 {
		t.Fatalf("expected 2 jurisdictions, got %d", len(resp.Jurisdictions))
	}
	// Sorted by jurisdiction name.
	if resp.Jurisdictions[0].Name != "Chicago City Council" || resp.Jurisdictions[1].Name != "Illinois House" {
		t.Errorf("unexpected order: %q, %q", resp.Jurisdictions[0].Name, resp.Jurisdictions[1].Name)
	}
	for _, j := range resp.Jurisdictions {
		if len(j.Entities) != 1 {
			t.Errorf("expected 1 entity in %q, got %d", j.Name, len(j.Entities))
		}
	}
}
