package geo

import (
	"context"
	"os"
	"sort"
	"testing"

	"github.com/OpenAdvocacy/OA-Backend/internal/advocacy"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestPostGISParity checks that the PostGIS backend and the in-process
// backend return the same district set for the same rows and query points.
// Requires a real database; set TEST_DATABASE_URL to run it.
func TestPostGISParity(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS postgis").Error; err != nil {
		t.Skipf("postgis extension unavailable: %v", err)
	}
	if err := db.AutoMigrate(&advocacy.District{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	jurisdictionID := uuid.New()
	boundaries := map[string]string{
		"bare":       squareGeometry,
		"feature":    squareFeature,
		"collection": squareCollection,
	}

	ctx := context.Background()
	postgisP := &PostGISProvider{db: db}
	localP := &LocalProvider{db: db}

	created := make([]uuid.UUID, 0, len(boundaries))
	for name, boundary := range boundaries {
		d := advocacy.District{Name: "parity " + name, JurisdictionID: jurisdictionID}
		if err := db.Create(&d).Error; err != nil {
			t.Fatalf("create district: %v", err)
		}
		created = append(created, d.ID)
		if _, err := postgisP.StoreBoundary(ctx, d.ID, []byte(boundary)); err != nil {
			t.Fatalf("store boundary: %v", err)
		}
	}
	t.Cleanup(func() {
		db.Delete(&advocacy.District{}, "id IN ?", created)
	})

	points := []struct {
		name     string
		lat, lon float64
		inside   bool
	}{
		{"inside", 5, 5, true},
		{"outside", 15, 15, false},
		{"other hemisphere", -5, -5, false},
	}

	for _, pt := range points {
		t.Run(pt.name, func(t *testing.T) {
			fromPostGIS, err := postgisP.ContainingDistricts(ctx, pt.lat, pt.lon)
			if err != nil {
				t.Fatalf("postgis: %v", err)
			}
			fromLocal, err := localP.ContainingDistricts(ctx, pt.lat, pt.lon)
			if err != nil {
				t.Fatalf("local: %v", err)
			}

			// Only compare rows this test created; the table may be shared.
			mine := func(ids []uuid.UUID) []string {
				set := make(map[uuid.UUID]bool, len(created))
				for _, id := range created {
					set[id] = true
				}
				var out []string
				for _, id := range ids {
					if set[id] {
						out = append(out, id.String())
					}
				}
				sort.Strings(out)
				return out
			}

			gotPostGIS, gotLocal := mine(fromPostGIS), mine(fromLocal)
			if len(gotPostGIS) != len(gotLocal) {
				t.Fatalf("backends disagree: postgis=%v local=%v", gotPostGIS, gotLocal)
			}
			for i := range gotPostGIS {
				if gotPostGIS[i] != gotLocal[i] {
					t.Fatalf("backends disagree: postgis=%v local=%v", gotPostGIS, gotLocal)
				}
			}

			wantMatches := 0
			if pt.inside {
				wantMatches = len(created)
			}
			if len(gotLocal) != wantMatches {
				t.Errorf("expected %d matches, got %v", wantMatches, gotLocal)
			}
		})
	}
}
