package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/wallie-app/backend/internal/router"
	"github.com/wallie-app/backend/internal/stream"
	"github.com/wallie-app/backend/pkg/config"
	"github.com/wallie-app/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Broadcast hub for the live post stream
	hub := stream.NewHub()
	go hub.Run()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, cfg, hub)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
