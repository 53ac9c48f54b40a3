package main

import (
	"flag"
	"log"

	"github.com/OpenAdvocacy/OA-Backend/internal/advocacy"
	"github.com/OpenAdvocacy/OA-Backend/internal/db"
	"github.com/OpenAdvocacy/OA-Backend/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	file := flag.String("file", "data/seed.yaml", "path to the YAML fixture file")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	db.Connect()
	advocacy.Init()

	if err := seeds.SeedFromFile(*file); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
