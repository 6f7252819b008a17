package handlers

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/demandcast/internal/logging"
	"github.com/soltixdb/demandcast/internal/middleware"
	"github.com/soltixdb/demandcast/internal/models"
	"github.com/soltixdb/demandcast/internal/services"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger          *logging.Logger
	forecastService *services.ForecastService
	configService   *services.ConfigService
	location        *time.Location // Calendar timezone for request dates
	version         string
}

// New creates a new handler instance
func New(logger *logging.Logger, forecastService *services.ForecastService,
	configService *services.ConfigService, location *time.Location, version string,
) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		logger:          logger,
		forecastService: forecastService,
		configService:   configService,
		location:        location,
		version:         version,
	}
}

// writeError renders a service error, or a generic 500 for any other error
func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		return c.Status(middleware.StatusForCode(svcErr.Code)).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    svcErr.Code,
				Message: svcErr.Message,
				Details: svcErr.Details,
			},
		})
	}

	h.logger.WithContext(c.UserContext()).Error("Request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "FORECAST_FAILED",
			Message: err.Error(),
		},
	})
}

// badRequest renders a 400 with the given code
func badRequest(c *fiber.Ctx, code, message string, err error) error {
	detail := models.ErrorDetail{
		Code:    code,
		Message: message,
	}
	if err != nil {
		detail.Details = map[string]interface{}{"error": err.Error()}
	}
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: detail})
}

// invalidJSON renders the body parse failure response
func invalidJSON(c *fiber.Ctx, err error) error {
	return badRequest(c, "INVALID_JSON", "Failed to parse JSON body", err)
}

// pathParam returns the URL-decoded route parameter
func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if value, err := url.PathUnescape(raw); err == nil {
		return value
	}
	return raw
}
