package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/wallie-app/backend/internal/handlers"
	"github.com/wallie-app/backend/internal/mail"
	"github.com/wallie-app/backend/internal/middleware"
	"github.com/wallie-app/backend/internal/models"
	"github.com/wallie-app/backend/internal/repositories"
	"github.com/wallie-app/backend/internal/stream"
	"github.com/wallie-app/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, cfg *config.Config, hub *stream.Hub) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Love{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	loveRepo := repositories.NewPostgresLoveRepository(pgdb)

	// --- Mailer ---
	var mailer mail.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = mail.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom)
	} else {
		mailer = mail.LogMailer{}
		log.Println("SENDGRID_API_KEY not set, activation links will be logged.")
	}

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, mailer, cfg.JWTSecret, cfg.FrontendURL)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Live post stream (websocket, joins the global group on connect) ---
	streamHandler := handlers.NewStreamHandler(hub)
	streamHandler.RegisterStreamRoutes(e.Group("/api/v1"))
	log.Println("Post stream route configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// Profile routes
	profileHandler := handlers.NewProfileHandler(userRepo)
	profileHandler.RegisterProfileRoutes(api)
	log.Println("Profile routes configured.")

	// Feed and post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo, hub, cfg.PageSize)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Love routes
	loveHandler := handlers.NewLoveHandler(loveRepo, postRepo, hub)
	loveHandler.RegisterLoveRoutes(api)
	log.Println("Love routes configured.")

	log.Println("All routes configured.")
}
