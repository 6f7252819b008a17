package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
)

// RedisConfig represents the Redis cache configuration
type RedisConfig struct {
	URL       string        // Redis URL (e.g., redis://localhost:6379)
	Password  string        // Optional password
	DB        int           // Database number (default: 0)
	KeyPrefix string        // Key prefix (default: "demandcast:forecast")
	TTL       time.Duration // Entry lifetime
}

// RedisCache stores encoded forecasts as Redis strings with a TTL
type RedisCache struct {
	client *redis.Client
	config RedisConfig
	codec  codec
}

// newRedisCache connects to Redis and verifies the connection
func newRedisCache(cfg RedisConfig, c codec) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// Fallback to a plain address
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "demandcast:forecast"
	}

	return &RedisCache{
		client: client,
		config: cfg,
		codec:  c,
	}, nil
}

func (r *RedisCache) key(productID string) string {
	return r.config.KeyPrefix + ":" + productID
}

// Get returns the cached forecast for productID
func (r *RedisCache) Get(ctx context.Context, productID string) (*forecast.DemandForecast, bool, error) {
	payload, err := r.client.Get(ctx, r.key(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read forecast %s from Redis: %w", productID, err)
	}

	f, err := r.codec.decode(payload)
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}

// Put stores f with the configured TTL
func (r *RedisCache) Put(ctx context.Context, f *forecast.DemandForecast) error {
	payload, err := r.codec.encode(f)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key(f.ProductID), payload, r.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to write forecast %s to Redis: %w", f.ProductID, err)
	}
	return nil
}

// Delete removes a product's forecast
func (r *RedisCache) Delete(ctx context.Context, productID string) error {
	if err := r.client.Del(ctx, r.key(productID)).Err(); err != nil {
		return fmt.Errorf("failed to delete forecast %s from Redis: %w", productID, err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}
