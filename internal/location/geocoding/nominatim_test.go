package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNominatimGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "121 N LaSalle St, Chicago, IL" {
			t.Errorf("unexpected q param: %q", got)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("unexpected format param: %q", got)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected an identifying User-Agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"41.8837","lon":"-87.6324"}]`))
	}))
	defer srv.Close()

	c := NewNominatimClient(Config{NominatimURL: srv.URL})

	lat, lon, err := c.Geocode(context.Background(), "121 N LaSalle St, Chicago, IL")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if lat != 41.8837 || lon != -87.6324 {
		t.Errorf("expected (41.8837, -87.6324), got (%v, %v)", lat, lon)
	}
}

func TestNominatimGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewNominatimClient(Config{NominatimURL: srv.URL})

	_, _, err := c.Geocode(context.Background(), "nowhere at all")
	if !errors.Is(err, ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound, got %v", err)
	}
}

func TestNominatimGeocode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewNominatimClient(Config{NominatimURL: srv.URL})

	_, _, err := c.Geocode(context.Background(), "anywhere")
	if !errors.Is(err, ErrService) {
		t.Errorf("expected ErrService, got %v", err)
	}
}

func TestNominatimGeocode_BadCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"not-a-number","lon":"-87.6324"}]`))
	}))
	defer srv.Close()

	c := NewNominatimClient(Config{NominatimURL: srv.URL})

	_, _, err := c.Geocode(context.Background(), "anywhere")
	if !errors.Is(err, ErrService) {
		t.Errorf("expected ErrService, got %v", err)
	}
}

func TestNewFromConfig_BackendSelection(t *testing.T) {
	if g := NewFromConfig(Config{}); g.Name() != "nominatim" {
		t.Errorf("expected nominatim without an API key, got %q", g.Name())
	}
	if g := NewFromConfig(Config{APIKey: "k"}); g.Name() != "google" {
		t.Errorf("expected google with an API key, got %q", g.Name())
	}
}
