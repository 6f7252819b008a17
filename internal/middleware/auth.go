package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/demandcast/internal/config"
	"github.com/soltixdb/demandcast/internal/logging"
	"github.com/soltixdb/demandcast/internal/models"
)

// MinAPIKeyLength is the minimum required length for API keys
const MinAPIKeyLength = 32

// ValidateAPIKey checks if an API key meets the security requirements
func ValidateAPIKey(key string) bool {
	if len(key) < MinAPIKeyLength {
		return false
	}
	return strings.TrimSpace(key) != ""
}

// APIKeyAuth guards the forecasting API with the configured keys. Keys are
// read from X-API-Key or Authorization, with or without a Bearer prefix.
// Keys shorter than MinAPIKeyLength are ignored.
func APIKeyAuth(logger *logging.Logger, cfg config.AuthConfig) fiber.Handler {
	if !cfg.Enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	keys := make([][]byte, 0, len(cfg.APIKeys))
	for _, key := range cfg.APIKeys {
		if key == "" {
			continue
		}
		if !ValidateAPIKey(key) {
			logger.Warn("API key does not meet security requirements",
				"key_length", len(key),
				"min_required", MinAPIKeyLength,
				"key_prefix", maskAPIKey(key))
			continue
		}
		keys = append(keys, []byte(key))
	}

	if len(keys) == 0 {
		logger.Error("No valid API keys configured, every request will be rejected",
			"total_keys", len(cfg.APIKeys),
			"min_required_length", MinAPIKeyLength)
	}

	return func(c *fiber.Ctx) error {
		apiKey := requestAPIKey(c)
		if apiKey == "" {
			logger.Warn("API key missing",
				"path", c.Path(),
				"method", c.Method(),
				"ip", c.IP())
			return unauthorized(c, "API key is required. Provide it via X-API-Key header or Authorization header.")
		}

		if !knownKey(keys, apiKey) {
			logger.Warn("Invalid API key",
				"path", c.Path(),
				"method", c.Method(),
				"ip", c.IP(),
				"api_key_prefix", maskAPIKey(apiKey))
			return unauthorized(c, "Invalid API key.")
		}

		return c.Next()
	}
}

// requestAPIKey reads the key from X-API-Key, then Authorization
func requestAPIKey(c *fiber.Ctx) string {
	if key := c.Get("X-API-Key"); key != "" {
		return key
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return auth
}

// knownKey compares in constant time against every configured key
func knownKey(keys [][]byte, candidate string) bool {
	found := 0
	for _, key := range keys {
		found |= subtle.ConstantTimeCompare(key, []byte(candidate))
	}
	return found == 1
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "UNAUTHORIZED",
			Message: message,
		},
	})
}

// maskAPIKey masks API key for logging (show only first 4 chars)
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
