package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/demandcast/internal/models"
	"github.com/soltixdb/demandcast/internal/services"
	"github.com/soltixdb/demandcast/internal/utils"
)

// Forecast generates a forecast for one product
// POST /v1/forecasts
func (h *Handler) Forecast(c *fiber.Ctx) error {
	var body models.ForecastRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	observations, err := models.ToObservations(body.Observations, h.location)
	if err != nil {
		return badRequest(c, services.CodeInvalidRequest, "Invalid observations", err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), utils.DefaultRequestTimeout)
	defer cancel()

	f, err := h.forecastService.Forecast(ctx, &services.ForecastRequest{
		ProductID:    body.ProductID,
		Observations: observations,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(f)
}

// BulkForecast generates forecasts for many products
// POST /v1/forecasts/bulk
func (h *Handler) BulkForecast(c *fiber.Ctx) error {
	var body models.BulkForecastRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	observations, err := models.ToObservations(body.Observations, h.location)
	if err != nil {
		return badRequest(c, services.CodeInvalidRequest, "Invalid observations", err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), utils.BulkRequestTimeout)
	defer cancel()

	result, err := h.forecastService.BulkForecast(ctx, &services.BulkForecastRequest{
		ProductIDs:   body.ProductIDs,
		Observations: observations,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(models.BulkForecastResponse{
		Forecasts: result.Forecasts,
		Skipped:   result.Skipped,
		Count:     len(result.Forecasts),
		Published: result.Published,
	})
}

// GetForecast returns the last forecast generated for a product
// GET /v1/forecasts/:product_id
func (h *Handler) GetForecast(c *fiber.Ctx) error {
	f, err := h.forecastService.CachedForecast(c.UserContext(), pathParam(c, "product_id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(f)
}

// Plan returns the production plan derived from a product's cached forecast
// GET /v1/forecasts/:product_id/plan?days=7&safety_factor=1.1
func (h *Handler) Plan(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil {
		return badRequest(c, services.CodeInvalidRequest, "days must be an integer", err)
	}
	safetyFactor, err := strconv.ParseFloat(c.Query("safety_factor", "1"), 64)
	if err != nil {
		return badRequest(c, services.CodeInvalidRequest, "safety_factor must be a number", err)
	}

	plan, err := h.forecastService.Plan(c.UserContext(), pathParam(c, "product_id"), days, safetyFactor)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(plan)
}

// Groups clusters products by forecast shape
// POST /v1/forecasts/groups
func (h *Handler) Groups(c *fiber.Ctx) error {
	var body models.GroupRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	observations, err := models.ToObservations(body.Observations, h.location)
	if err != nil {
		return badRequest(c, services.CodeInvalidRequest, "Invalid observations", err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), utils.BulkRequestTimeout)
	defer cancel()

	groups, err := h.forecastService.Groups(ctx, &services.GroupRequest{
		Forecasts:    body.Forecasts,
		ProductIDs:   body.ProductIDs,
		Observations: observations,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(models.GroupsResponse{
		Groups: groups.Map(),
		Count:  len(groups),
	})
}

// Trends lists the trend of every product forecast so far
// GET /v1/trends
func (h *Handler) Trends(c *fiber.Ctx) error {
	trends := h.forecastService.Trends()
	return c.JSON(models.TrendsResponse{
		Trends: trends,
		Count:  len(trends),
	})
}

// GetTrend returns one product's trend
// GET /v1/trends/:product_id
func (h *Handler) GetTrend(c *fiber.Ctx) error {
	trend, err := h.forecastService.Trend(pathParam(c, "product_id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(trend)
}
