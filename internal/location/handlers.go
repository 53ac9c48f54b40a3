package location

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/OpenAdvocacy/OA-Backend/internal/location/geo"
	"github.com/OpenAdvocacy/OA-Backend/internal/location/geocoding"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// LookupHandler resolves an address to its representatives.
//
// Error mapping: empty address is a 400, no geocode match a 404, a geocoder
// failure a 502. "Resolved but no representatives here" is a 200 with empty
// jurisdictions, not an error.
func LookupHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	address := strings.TrimSpace(input.Address)
	if address == "" {
		http.Error(w, "Address is required", http.StatusBadRequest)
		return
	}

	resp, err := DefaultResolver.Lookup(r.Context(), address)
	if err != nil {
		switch {
		case errors.Is(err, geocoding.ErrAddressNotFound):
			http.Error(w, "Address not found", http.StatusNotFound)
		case errors.Is(err, geocoding.ErrService):
			http.Error(w, "Geocoding service error", http.StatusBadGateway)
		default:
			http.Error(w, "Lookup failed: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, resp)
}

// StoreBoundaryHandler stores raw GeoJSON as a district's boundary through
// the active geo backend. Invalid GeoJSON is rejected before anything is
// written; it is never silently coerced.
func StoreBoundaryHandler(w http.ResponseWriter, r *http.Request) {
	districtID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid district id", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 32<<20)) // boundaries can be large but not unbounded
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	if err := geo.ValidateBoundary(body); err != nil {
		http.Error(w, "Invalid GeoJSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	stored, err := Provider.StoreBoundary(r.Context(), districtID, body)
	if err != nil {
		http.Error(w, "Failed to store boundary: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if !stored {
		http.Error(w, "District not found", http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]bool{"stored": true})
}
