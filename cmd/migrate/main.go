package main

import (
	"log"

	"github.com/Arghadee4102H/ASEarnHub/internal/config"
	"github.com/Arghadee4102H/ASEarnHub/internal/database"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Apply schema
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Println("Migrations applied successfully")
}
