package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OpenAdvocacy/OA-Backend/internal/middleware"
)

func callWithOrigin(t *testing.T, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	middleware.CORSMiddleware(inner).ServeHTTP(rec, req)
	return rec
}

func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	rec := callWithOrigin(t, http.MethodGet, "https://app.openadvocacy.org")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.openadvocacy.org" {
		t.Errorf("expected the origin echoed back, got %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Errorf("expected Vary: Origin, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestCORSMiddleware_UnknownOrigin(t *testing.T) {
	rec := callWithOrigin(t, http.MethodGet, "https://evil.example.com")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header for unknown origin, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("request itself should still pass through, got %d", rec.Code)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	rec := callWithOrigin(t, http.MethodOptions, "http://localhost:5173")

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("expected allowed methods on preflight response")
	}
}
