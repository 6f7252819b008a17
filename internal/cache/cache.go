// Package cache keeps the last forecast generated for each product.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/compression"
	"github.com/soltixdb/demandcast/internal/config"
)

// ForecastCache stores the latest forecast per product
type ForecastCache interface {
	// Get returns the cached forecast; ok is false on a miss or expiry
	Get(ctx context.Context, productID string) (f *forecast.DemandForecast, ok bool, err error)

	// Put stores a forecast under its product id
	Put(ctx context.Context, f *forecast.DemandForecast) error

	// Delete removes a product's forecast
	Delete(ctx context.Context, productID string) error

	// Close releases the backend
	Close() error
}

// codec turns forecasts into framed, optionally compressed payloads
type codec struct {
	compressor compression.Compressor
}

func (c codec) encode(f *forecast.DemandForecast) ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal forecast: %w", err)
	}
	compressor := c.compressor
	if compressor == nil {
		compressor = compression.ForSetting(false)
	}
	return compression.Encode(compressor, data)
}

func (c codec) decode(frame []byte) (*forecast.DemandForecast, error) {
	data, err := compression.Decode(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cached forecast: %w", err)
	}
	var f forecast.DemandForecast
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached forecast: %w", err)
	}
	return &f, nil
}

// New creates a forecast cache based on configuration.
// Default is the in-memory cache if type is not specified.
func New(cfg config.CacheConfig) (ForecastCache, error) {
	c := codec{compressor: compression.ForSetting(cfg.Compress)}

	switch strings.ToLower(cfg.Type) {
	case "", "memory":
		return newMemoryCache(cfg.TTL, c), nil

	case "redis":
		return newRedisCache(RedisConfig{
			URL:       cfg.URL,
			Password:  cfg.Password,
			DB:        cfg.DB,
			KeyPrefix: cfg.KeyPrefix,
			TTL:       cfg.TTL,
		}, c)

	default:
		return nil, fmt.Errorf("unsupported cache type: %s (supported: memory, redis)", cfg.Type)
	}
}
