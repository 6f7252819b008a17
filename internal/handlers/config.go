package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/demandcast/internal/models"
	"github.com/soltixdb/demandcast/internal/services"
)

// GetConfig returns the engine configuration
// GET /v1/config
func (h *Handler) GetConfig(c *fiber.Ctx) error {
	return c.JSON(models.ConfigResponse{
		Config:          h.configService.Config(),
		ExternalFactors: h.configService.ExternalFactors(),
	})
}

// UpdateConfig applies a partial configuration update
// PATCH /v1/config
func (h *Handler) UpdateConfig(c *fiber.Ctx) error {
	var body models.ConfigUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	update, err := body.ToConfigUpdate(h.location)
	if err != nil {
		return badRequest(c, services.CodeInvalidFactor, "Invalid seasonal factor", err)
	}

	cfg, err := h.configService.UpdateConfig(c.UserContext(), update)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(models.ConfigResponse{
		Config:          cfg,
		ExternalFactors: h.configService.ExternalFactors(),
	})
}

// PutSeasonalFactor adds or replaces a seasonal factor by name
// PUT /v1/config/seasonal-factors
func (h *Handler) PutSeasonalFactor(c *fiber.Ctx) error {
	var body models.SeasonalFactorRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	factor, err := body.ToSeasonalFactor(h.location)
	if err != nil {
		return badRequest(c, services.CodeInvalidFactor, "Invalid seasonal factor", err)
	}

	cfg, err := h.configService.PutSeasonalFactor(c.UserContext(), factor)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(models.ConfigResponse{
		Config:          cfg,
		ExternalFactors: h.configService.ExternalFactors(),
	})
}

// DeleteSeasonalFactor removes a seasonal factor
// DELETE /v1/config/seasonal-factors/:name
func (h *Handler) DeleteSeasonalFactor(c *fiber.Ctx) error {
	cfg, err := h.configService.RemoveSeasonalFactor(c.UserContext(), pathParam(c, "name"))
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(models.ConfigResponse{
		Config:          cfg,
		ExternalFactors: h.configService.ExternalFactors(),
	})
}

// PutExternalFactors replaces the single-day external factors
// PUT /v1/config/external-factors
func (h *Handler) PutExternalFactors(c *fiber.Ctx) error {
	var body models.ExternalFactorsRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	factors, err := body.ToExternalFactors(h.location)
	if err != nil {
		return badRequest(c, services.CodeInvalidFactor, "Invalid external factor", err)
	}

	saved, err := h.configService.SetExternalFactors(factors)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(models.ExternalFactorsResponse{
		Factors: saved,
		Count:   len(saved),
	})
}
