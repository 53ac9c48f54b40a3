package advocacy

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/projects", ListProjects)
	r.Post("/projects", CreateProject)
	r.Get("/projects/{id}", GetProject)
	r.Put("/projects/{id}", UpdateProject)
	r.Delete("/projects/{id}", DeleteProject)
	r.Get("/projects/{id}/distribution", GetProjectDistribution)

	r.Get("/jurisdictions", ListJurisdictions)
	r.Post("/jurisdictions", CreateJurisdiction)
	r.Get("/jurisdictions/{id}", GetJurisdiction)

	r.Get("/districts", ListDistricts)
	r.Post("/districts", CreateDistrict)
	r.Get("/districts/{id}", GetDistrict)

	r.Get("/entities", ListEntities)
	r.Post("/entities", CreateEntity)
	r.Get("/entities/search", SearchEntities)
	r.Get("/entities/{id}", GetEntity)

	r.Get("/status", ListStatusRecords)
	r.Post("/status", CreateStatusRecord)
	r.Put("/status/{id}", UpdateStatusRecord)
	r.Delete("/status/{id}", DeleteStatusRecord)

	r.Get("/groups", ListGroups)
	r.Post("/groups", CreateGroup)
	r.Get("/groups/{id}", GetGroup)

	return r
}
