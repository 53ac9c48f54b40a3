package location

import (
	"log"

	"github.com/OpenAdvocacy/OA-Backend/internal/db"
	"github.com/OpenAdvocacy/OA-Backend/internal/location/geo"
	"github.com/OpenAdvocacy/OA-Backend/internal/location/geocoding"
)

// Provider is the active boundary backend; Geocoder the active address
// backend. Both are selected once at startup from environment configuration.
var (
	Provider        geo.BoundaryProvider
	Geocoder        geocoding.Geocoder
	DefaultResolver *Resolver
)

func Init() {
	geoCfg := geo.LoadFromEnv()
	provider, err := geo.NewProvider(geoCfg, db.DB)
	if err != nil {
		log.Fatal("Failed to initialize geo backend: ", err)
	}
	Provider = provider

	Geocoder = geocoding.NewFromConfig(geocoding.LoadFromEnv())

	DefaultResolver = &Resolver{
		Geocoder:   Geocoder,
		Boundaries: Provider,
		DB:         db.DB,
	}

	log.Printf("[location] geo backend %q, geocoder %q", Provider.Name(), Geocoder.Name())
}
