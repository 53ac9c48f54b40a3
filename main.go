package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/OpenAdvocacy/OA-Backend/internal/advocacy"
	"github.com/OpenAdvocacy/OA-Backend/internal/db"
	"github.com/OpenAdvocacy/OA-Backend/internal/location"
	"github.com/OpenAdvocacy/OA-Backend/internal/metrics"
	"github.com/OpenAdvocacy/OA-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	advocacy.Init()
	location.Init()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(metrics.Middleware)
	r.Get("/", RootHandler)
	r.Handle("/metrics", metrics.Handler())

	r.Mount("/api", advocacy.SetupRoutes())
	r.Mount("/api/location", location.SetupRoutes())

	fmt.Printf("Server listening on port :%s...\n", port)

	http.ListenAndServe("0.0.0.0:"+port, r)
}
