package location

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/lookup", LookupHandler)
	r.Put("/districts/{id}/boundary", StoreBoundaryHandler)

	return r
}
