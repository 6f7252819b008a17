package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/demandcast/internal/config"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		entry := make(map[string]interface{})
		require.NoError(t, json.Unmarshal(line, &entry))
		out = append(out, entry)
	}
	return out
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel).With("component", "engine")

	logger.Info("Forecast generated", "product_id", "bread-001", "points", 14)
	logger.Error("Publish failed", "error", errors.New("nats down"))
	logger.Debug("odd fields", "dangling")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 3)

	assert.Equal(t, "Forecast generated", entries[0]["message"])
	assert.Equal(t, "engine", entries[0]["component"])
	assert.Equal(t, "bread-001", entries[0]["product_id"])
	assert.Equal(t, float64(14), entries[0]["points"])

	assert.Equal(t, "error", entries[1]["level"])
	assert.Equal(t, "nats down", entries[1]["error"])

	assert.NotContains(t, entries[2], "dangling")
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["message"])
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithLogger(ctx, logger)
	FromContext(ctx).Info("scoped")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0]["request_id"])

	assert.Equal(t, Global(), FromContext(context.Background()))
	assert.Empty(t, RequestID(context.Background()))
}

func TestNewFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "demandcast.log")

	logger, err := NewFromConfig(config.LoggingConfig{
		Level:      "warn",
		Format:     "json",
		OutputPath: path,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Equal(t, zerolog.WarnLevel, logger.zl.GetLevel())

	logger, err = NewFromConfig(config.LoggingConfig{Level: "verbose"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, logger.zl.GetLevel())
}

func TestFiberMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(FiberMiddleware(logger, "/health"))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/v1/trends", func(c *fiber.Ctx) error {
		assert.Equal(t, "fixed-id", RequestID(c.UserContext()))
		return c.SendStatus(fiber.StatusNotFound)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req := httptest.NewRequest("GET", "/v1/trends", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", resp.Header.Get(RequestIDHeader))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "Client error", entries[0]["message"])
	assert.Equal(t, "/v1/trends", entries[0]["path"])
	assert.Equal(t, float64(404), entries[0]["status"])
}
