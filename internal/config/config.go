package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Settings SettingsConfig `mapstructure:"settings"`
	Forecast ForecastConfig `mapstructure:"forecast"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host        string `mapstructure:"host"`          // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort    int    `mapstructure:"http_port"`     // HTTP server port
	BodyLimitMB int    `mapstructure:"body_limit_mb"` // Maximum request body, observation uploads can be large
}

// QueueConfig represents the forecast publication queue
type QueueConfig struct {
	Enabled       bool   `mapstructure:"enabled"`        // Publish generated forecasts
	Type          string `mapstructure:"type"`           // Queue type: nats (default), redis, kafka, memory
	URL           string `mapstructure:"url"`            // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username      string `mapstructure:"username"`       // Optional authentication
	Password      string `mapstructure:"password"`       // Optional authentication
	SubjectPrefix string `mapstructure:"subject_prefix"` // Subject prefix (default: "demandcast.forecasts")

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "demandcast")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "demandcast-planning")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// CacheConfig represents the last-forecast cache
type CacheConfig struct {
	Type      string        `mapstructure:"type"`       // memory (default) or redis
	URL       string        `mapstructure:"url"`        // Redis URL when type is redis
	Password  string        `mapstructure:"password"`   // Optional Redis password
	DB        int           `mapstructure:"db"`         // Redis database number
	KeyPrefix string        `mapstructure:"key_prefix"` // Key prefix (default: "demandcast:forecast")
	TTL       time.Duration `mapstructure:"ttl"`        // Entry lifetime
	Compress  bool          `mapstructure:"compress"`   // Snappy-compress cached payloads
}

// SettingsConfig represents where the forecast configuration is persisted
type SettingsConfig struct {
	Type        string        `mapstructure:"type"` // memory (default) or etcd
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	Key         string        `mapstructure:"key"` // etcd key holding the configuration
}

// SeasonalFactorConfig is a seasonal factor as written in the config file.
// Dates use the YYYY-MM-DD layout in the forecast timezone.
type SeasonalFactorConfig struct {
	Name               string   `mapstructure:"name"`
	StartDate          string   `mapstructure:"start_date"`
	EndDate            string   `mapstructure:"end_date"`
	ImpactMultiplier   float64  `mapstructure:"impact_multiplier"`
	AffectedCategories []string `mapstructure:"affected_categories"`
}

// ForecastConfig holds the initial forecasting parameters
type ForecastConfig struct {
	HistoryWindowDays         int                    `mapstructure:"history_window_days"`
	HorizonDays               int                    `mapstructure:"horizon_days"`
	MinimumDataPoints         int                    `mapstructure:"minimum_data_points"`
	SmoothingAlpha            float64                `mapstructure:"smoothing_alpha"`
	SmoothingBeta             float64                `mapstructure:"smoothing_beta"`
	SmoothingGamma            float64                `mapstructure:"smoothing_gamma"`
	OutlierDetectionThreshold float64                `mapstructure:"outlier_detection_threshold"`
	BulkParallelism           int                    `mapstructure:"bulk_parallelism"` // 0 uses GOMAXPROCS
	Timezone                  string                 `mapstructure:"timezone"`         // Calendar timezone (e.g., "America/Sao_Paulo", "-03:00", "UTC")
	DefaultCalendar           bool                   `mapstructure:"default_calendar"` // Seed the built-in holiday calendar for the current year
	SeasonalFactors           []SeasonalFactorConfig `mapstructure:"seasonal_factors"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Queue.Validate(); err != nil {
		return fmt.Errorf("queue config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if err := c.Settings.Validate(); err != nil {
		return fmt.Errorf("settings config: %w", err)
	}

	if err := c.Forecast.Validate(); err != nil {
		return fmt.Errorf("forecast config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.BodyLimitMB < 0 {
		return fmt.Errorf("body_limit_mb must not be negative")
	}

	return nil
}

// Validate validates queue configuration
func (c *QueueConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	switch c.Type {
	case "", "nats", "redis", "memory":
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("queue.kafka_brokers is required for kafka")
		}
	default:
		return fmt.Errorf("queue.type must be one of: nats, redis, kafka, memory")
	}

	return nil
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "", "memory":
	case "redis":
		if c.URL == "" {
			return fmt.Errorf("cache.url is required for redis")
		}
	default:
		return fmt.Errorf("cache.type must be 'memory' or 'redis'")
	}

	if c.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}

	return nil
}

// Validate validates settings configuration
func (c *SettingsConfig) Validate() error {
	switch c.Type {
	case "", "memory":
		return nil
	case "etcd":
	default:
		return fmt.Errorf("settings.type must be 'memory' or 'etcd'")
	}

	if len(c.Endpoints) == 0 {
		return fmt.Errorf("settings.endpoints is required for etcd")
	}

	if c.DialTimeout <= 0 {
		return fmt.Errorf("settings.dial_timeout must be positive")
	}

	if c.Key == "" {
		return fmt.Errorf("settings.key is required for etcd")
	}

	return nil
}

// Day-count bounds, kept in step with the forecast engine's own limits
const (
	MaxHorizonDays       = 3650
	MaxHistoryWindowDays = 36500
)

// Validate validates forecast configuration
func (c *ForecastConfig) Validate() error {
	if c.HorizonDays < 1 || c.HorizonDays > MaxHorizonDays {
		return fmt.Errorf("forecast.horizon_days must be within [1,%d]", MaxHorizonDays)
	}

	if c.MinimumDataPoints < 1 {
		return fmt.Errorf("forecast.minimum_data_points must be at least 1")
	}

	if c.HistoryWindowDays < 0 || c.HistoryWindowDays > MaxHistoryWindowDays {
		return fmt.Errorf("forecast.history_window_days must be within [0,%d]", MaxHistoryWindowDays)
	}

	for name, v := range map[string]float64{
		"smoothing_alpha": c.SmoothingAlpha,
		"smoothing_beta":  c.SmoothingBeta,
		"smoothing_gamma": c.SmoothingGamma,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("forecast.%s must be within [0,1]", name)
		}
	}

	if c.OutlierDetectionThreshold <= 0 {
		return fmt.Errorf("forecast.outlier_detection_threshold must be positive")
	}

	for _, f := range c.SeasonalFactors {
		if f.Name == "" {
			return fmt.Errorf("forecast.seasonal_factors: name is required")
		}
		if _, err := f.Dates(c.Location()); err != nil {
			return fmt.Errorf("forecast.seasonal_factors %s: %w", f.Name, err)
		}
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
