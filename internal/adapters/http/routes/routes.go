package routes

import (
	"shelfwise/internal/adapters/http/handlers"
	"shelfwise/internal/adapters/http/middleware"
	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/config"
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/upload"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	journeyRepo := repositories.NewJourneyRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, sessionRepo, cfg)
	inventoryService := services.NewInventoryService(db)
	catalogService := services.NewCatalogService(bookRepo, userRepo, loanRepo, reviewRepo)
	profileService := services.NewProfileService(userRepo, loanRepo, journeyRepo, bookRepo)
	adminService := services.NewAdminService(db, bookRepo, userRepo, loanRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	bookHandler := handlers.NewBookHandler(catalogService, inventoryService, profileService)
	profileHandler := handlers.NewProfileHandler(profileService, inventoryService)
	adminHandler := handlers.NewAdminHandler(adminService, inventoryService, cfg)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded cover images
	app.Static(upload.PublicPrefix, cfg.UploadDir)

	// Public catalog routes
	app.Get("/books", catalogHandler.ListBooks)
	app.Get("/book/:id", catalogHandler.BookDetail)
	app.Get("/tv", catalogHandler.TV)

	// Auth routes (public, stricter rate limit)
	app.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	app.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	app.Get("/logout", authHandler.Logout)

	// Member routes (authenticated)
	requireAuth := middleware.RequireAuth(authService)
	app.Get("/profile", requireAuth, profileHandler.Profile)
	app.Post("/return/:loanId", requireAuth, profileHandler.Return)
	app.Post("/book/:id/review", requireAuth, bookHandler.AddReview)
	app.Post("/book/:id/borrow", requireAuth, bookHandler.Borrow)
	app.Post("/book/:id/journey", requireAuth, bookHandler.UpsertJourney)

	// Admin routes
	adminRoutes := app.Group("/admin")
	adminRoutes.Use(requireAuth)
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Get("/", adminHandler.Dashboard)
	adminRoutes.Post("/add-book", adminHandler.AddBook)
	adminRoutes.Post("/book/:id/add-copy", adminHandler.AddCopy)
	adminRoutes.Post("/book/:id/remove-copy", adminHandler.RemoveCopy)
	adminRoutes.Post("/book/:id/delete", adminHandler.DeleteBook)
	adminRoutes.Post("/user/:id/delete", adminHandler.DeleteUser)
}
