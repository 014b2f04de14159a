package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/soltixdb/pindex/internal/config"
	"github.com/soltixdb/pindex/internal/handlers"
	"github.com/soltixdb/pindex/internal/logging"
	"github.com/soltixdb/pindex/internal/middleware"
	"github.com/soltixdb/pindex/internal/services"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, service *services.AnalysisService, cfg config.AuthConfig) *handlers.Handler {
	h := handlers.New(logger, service)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger, logging.DefaultMiddlewareConfig()))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	v1 := app.Group("/v1", middleware.APIKeyAuth(logger, cfg))

	// Index lookups
	v1.Get("/crimes", h.ListCrimes)
	v1.Get("/crimes/:crime/neighbourhoods", h.ListNeighbourhoods)
	v1.Get("/crimes/:crime/neighbourhoods/:neighbourhood", h.GetSeries)
	v1.Get("/crimes/:crime/frames", h.GetFrames)

	// Aggregates
	v1.Get("/averages", h.GetAverages)
	v1.Get("/crimes/:crime/averages", h.GetCrimeAverages)

	v1.Post("/rebuild", h.Rebuild)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, service *services.AnalysisService, cfg config.AuthConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "P-Index API",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, service, cfg)

	return app
}
