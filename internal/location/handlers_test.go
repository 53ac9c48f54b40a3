package location

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/OpenAdvocacy/OA-Backend/internal/advocacy"
	"github.com/google/uuid"
)

// newLookupServer wires the package globals the handlers read and returns the
// location router.
func newLookupServer(t *testing.T) (http.Handler, advocacy.District) {
	t.Helper()

	resolver, _, district, _ := newTestResolver(t)

	prevResolver, prevProvider, prevGeocoder := DefaultResolver, Provider, Geocoder
	DefaultResolver = resolver
	Provider = resolver.Boundaries
	Geocoder = resolver.Geocoder
	t.Cleanup(func() {
		DefaultResolver, Provider, Geocoder = prevResolver, prevProvider, prevGeocoder
	})

	return SetupRoutes(), district
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestLookupHandler(t *testing.T) {
	h, _ := newLookupServer(t)

	rr := do(t, h, http.MethodPost, "/lookup", `{"address": "121 N LaSalle St, Chicago, IL"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Brendan Reilly") {
		t.Errorf("expected the ward's alderperson in the response: %s", rr.Body.String())
	}
}

func TestLookupHandler_Errors(t *testing.T) {
	h, _ := newLookupServer(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"empty address", `{"address": "   "}`, http.StatusBadRequest},
		{"bad json", `{"address"`, http.StatusBadRequest},
		{"unknown address", `{"address": "asdfghjkl"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rr := do(t, h, http.MethodPost, "/lookup", tc.body); rr.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestStoreBoundaryHandler(t *testing.T) {
	h, district := newLookupServer(t)

	rr := do(t, h, http.MethodPut, "/districts/"+district.ID.String()+"/boundary", cityHallSquare)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"stored":true`) {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestStoreBoundaryHandler_Rejections(t *testing.T) {
	h, district := newLookupServer(t)

	if rr := do(t, h, http.MethodPut, "/districts/not-a-uuid/boundary", cityHallSquare); rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad id, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPut, "/districts/"+district.ID.String()+"/boundary", `{not geojson`); rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid GeoJSON, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPut, "/districts/"+uuid.NewString()+"/boundary", cityHallSquare); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown district, got %d", rr.Code)
	}
}
