// Command import-boundaries loads district boundaries from a GeoJSON
// FeatureCollection into an existing jurisdiction. Each feature is keyed on a
// configurable property (Chicago's ward file uses "ward"); districts are
// created when missing and their boundaries stored through the active geo
// backend.
//
// Usage:
//
//	import-boundaries -file data/chicago-wards.geojson -jurisdiction "Chicago City Council"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/OpenAdvocacy/OA-Backend/internal/advocacy"
	"github.com/OpenAdvocacy/OA-Backend/internal/db"
	"github.com/OpenAdvocacy/OA-Backend/internal/location"
	"github.com/OpenAdvocacy/OA-Backend/internal/location/geo"
	"github.com/joho/godotenv"
)

func main() {
	file := flag.String("file", "", "path to a GeoJSON FeatureCollection (required)")
	jurisdictionName := flag.String("jurisdiction", "", "name of the owning jurisdiction (required)")
	property := flag.String("property", "ward", "feature property holding the district code")
	namePrefix := flag.String("name-prefix", "Ward ", "prefix for generated district names")
	flag.Parse()

	if *file == "" || *jurisdictionName == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load(".env.local")
	db.Connect()
	advocacy.Init()
	location.Init()

	if err := run(*file, *jurisdictionName, *property, *namePrefix); err != nil {
		log.Fatal(err)
	}
}

func run(file, jurisdictionName, property, namePrefix string) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	// Decode twice: once for properties, once to keep each feature's raw
	// bytes so boundaries are stored exactly as imported.
	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse GeoJSON: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return fmt.Errorf("expected a FeatureCollection, got %q", fc.Type)
	}
	var rawFeatures struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(raw, &rawFeatures); err != nil {
		return fmt.Errorf("parse GeoJSON features: %w", err)
	}

	var jurisdiction advocacy.Jurisdiction
	if err := db.DB.First(&jurisdiction, "name = ?", jurisdictionName).Error; err != nil {
		return fmt.Errorf("jurisdiction %q not found", jurisdictionName)
	}

	ctx := context.Background()
	imported := 0
	for i, feature := range fc.Features {
		codeValue, ok := feature.Properties[property]
		if !ok {
			log.Printf("skipping feature %d: no %q property", i, property)
			continue
		}
		code := fmt.Sprintf("%v", codeValue)
		name := namePrefix + code

		var district advocacy.District
		err := db.DB.
			Where("jurisdiction_id = ? AND code = ?", jurisdiction.ID, code).
			First(&district).Error
		if err != nil {
			district = advocacy.District{
				Name:           name,
				Code:           code,
				JurisdictionID: jurisdiction.ID,
			}
			if err := db.DB.Create(&district).Error; err != nil {
				return fmt.Errorf("create district %q: %w", name, err)
			}
			log.Printf("created district %s", name)
		} else {
			log.Printf("updating boundary for existing district %s", district.Name)
		}

		if err := geo.ValidateBoundary(rawFeatures.Features[i]); err != nil {
			log.Printf("skipping feature %d (%s): %v", i, name, err)
			continue
		}

		stored, err := location.Provider.StoreBoundary(ctx, district.ID, rawFeatures.Features[i])
		if err != nil {
			return fmt.Errorf("store boundary for %q: %w", name, err)
		}
		if !stored {
			return fmt.Errorf("district %q vanished during import", name)
		}
		imported++
	}

	log.Printf("Imported %d boundaries into %s", imported, jurisdiction.Name)
	return nil
}
