package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/demandcast/internal/logging"
	"github.com/soltixdb/demandcast/internal/models"
	"github.com/soltixdb/demandcast/internal/services"
)

// StatusForCode maps a service error code to its HTTP status
func StatusForCode(code string) int {
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return fiber.StatusBadRequest
	case code == services.CodeNoForecast, strings.HasSuffix(code, "_NOT_FOUND"):
		return fiber.StatusNotFound
	case code == services.CodeCancelled:
		return fiber.StatusRequestTimeout
	case strings.HasSuffix(code, "_UNAVAILABLE"):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders errors that escape handlers: service errors keep
// their code, fiber errors keep their status, anything else is a 500.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		detail := models.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "Internal Server Error",
		}
		status := fiber.StatusInternalServerError

		var svcErr *services.ServiceError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &svcErr):
			status = StatusForCode(svcErr.Code)
			detail.Code = svcErr.Code
			detail.Message = svcErr.Message
			detail.Details = svcErr.Details
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			detail.Code = "ERROR"
			detail.Message = fiberErr.Message
		}

		logger.WithContext(c.UserContext()).Error("Request error",
			"path", c.Path(),
			"method", c.Method(),
			"status", status,
			"error", err)

		return c.Status(status).JSON(models.ErrorResponse{Error: detail})
	}
}
