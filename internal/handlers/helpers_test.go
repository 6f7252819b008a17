package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/cache"
	"github.com/soltixdb/demandcast/internal/config"
	"github.com/soltixdb/demandcast/internal/logging"
	"github.com/soltixdb/demandcast/internal/models"
	"github.com/soltixdb/demandcast/internal/services"
	"github.com/soltixdb/demandcast/internal/settings"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, zerolog.DebugLevel)
}

// salesRequest returns days of request observations with a weekly pattern
func salesRequest(productID string, days int, base int) []models.ObservationRequest {
	pattern := []int{0, 2, 4, 6, 4, 2, 0}
	out := make([]models.ObservationRequest, days)
	for i := range out {
		out[i] = models.ObservationRequest{
			ProductID: productID,
			Date:      testStart.AddDate(0, 0, i).Format(models.DateLayout),
			Quantity:  base + pattern[i%7],
			UnitPrice: 10,
		}
	}
	return out
}

// setupTestApp wires handlers over a memory cache and memory settings store
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := forecast.DefaultConfig()
	cfg.ForecastHorizonDays = 14
	store, err := forecast.NewStore(cfg)
	require.NoError(t, err)

	now := testStart.AddDate(0, 2, 0)
	engine := forecast.NewEngine(store,
		forecast.WithLogger(testLogger()),
		forecast.WithClock(func() time.Time { return now }))

	c, err := cache.New(config.CacheConfig{Type: "memory", TTL: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	forecastSvc := services.NewForecastService(testLogger(), engine, c, nil)
	configSvc := services.NewConfigService(testLogger(), store, settings.NewMemoryStore())

	h := New(testLogger(), forecastSvc, configSvc, time.UTC, "test")

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/health", h.Health)
	v1 := app.Group("/v1")
	v1.Post("/forecasts", h.Forecast)
	v1.Post("/forecasts/bulk", h.BulkForecast)
	v1.Post("/forecasts/groups", h.Groups)
	v1.Get("/forecasts/:product_id", h.GetForecast)
	v1.Get("/forecasts/:product_id/plan", h.Plan)
	v1.Get("/trends", h.Trends)
	v1.Get("/trends/:product_id", h.GetTrend)
	v1.Get("/config", h.GetConfig)
	v1.Patch("/config", h.UpdateConfig)
	v1.Put("/config/seasonal-factors", h.PutSeasonalFactor)
	v1.Delete("/config/seasonal-factors/:name", h.DeleteSeasonalFactor)
	v1.Put("/config/external-factors", h.PutExternalFactors)
	app.Use(h.NotFound)
	return app
}

// doJSON sends body as JSON and decodes the response into out when non-nil
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func sendRaw(t *testing.T, app *fiber.App, method, path, body string) (int, models.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}
