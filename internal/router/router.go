package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/soltixdb/demandcast/internal/config"
	"github.com/soltixdb/demandcast/internal/handlers"
	"github.com/soltixdb/demandcast/internal/logging"
	"github.com/soltixdb/demandcast/internal/middleware"
	"github.com/soltixdb/demandcast/internal/services"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, forecastService *services.ForecastService,
	configService *services.ConfigService, cfg config.Config, version string,
) *handlers.Handler {
	h := handlers.New(logger, forecastService, configService, cfg.Forecast.Location(), version)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger, "/health"))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	v1 := app.Group("/v1", middleware.APIKeyAuth(logger, cfg.Auth))

	// Forecast Routes
	v1.Post("/forecasts", h.Forecast)
	v1.Post("/forecasts/bulk", h.BulkForecast)
	v1.Post("/forecasts/groups", h.Groups)
	v1.Get("/forecasts/:product_id", h.GetForecast)
	v1.Get("/forecasts/:product_id/plan", h.Plan)

	// Trend Routes
	v1.Get("/trends", h.Trends)
	v1.Get("/trends/:product_id", h.GetTrend)

	// Configuration Routes
	v1.Get("/config", h.GetConfig)
	v1.Patch("/config", h.UpdateConfig)
	v1.Put("/config/seasonal-factors", h.PutSeasonalFactor)
	v1.Delete("/config/seasonal-factors/:name", h.DeleteSeasonalFactor)
	v1.Put("/config/external-factors", h.PutExternalFactors)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, forecastService *services.ForecastService,
	configService *services.ConfigService, cfg config.Config, version string,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Demandcast Forecaster",
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyLimitMB * 1024 * 1024,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, forecastService, configService, cfg, version)

	return app
}
