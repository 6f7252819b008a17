package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DEMANDCAST_SERVER_HTTP_PORT
const EnvPrefix = "DEMANDCAST"

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")               // Current directory
		v.AddConfigPath("./configs")       // Project configs directory
		v.AddConfigPath("./config")        // Alternative config directory
		v.AddConfigPath("/etc/demandcast") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.body_limit_mb", d.Server.BodyLimitMB)

	// Auth defaults
	v.SetDefault("auth.enabled", d.Auth.Enabled)

	// Queue defaults
	v.SetDefault("queue.enabled", d.Queue.Enabled)
	v.SetDefault("queue.type", d.Queue.Type)
	v.SetDefault("queue.url", d.Queue.URL)
	v.SetDefault("queue.subject_prefix", d.Queue.SubjectPrefix)

	// Cache defaults
	v.SetDefault("cache.type", d.Cache.Type)
	v.SetDefault("cache.key_prefix", d.Cache.KeyPrefix)
	v.SetDefault("cache.ttl", d.Cache.TTL.String())
	v.SetDefault("cache.compress", d.Cache.Compress)

	// Settings defaults
	v.SetDefault("settings.type", d.Settings.Type)
	v.SetDefault("settings.endpoints", d.Settings.Endpoints)
	v.SetDefault("settings.dial_timeout", d.Settings.DialTimeout.String())
	v.SetDefault("settings.key", d.Settings.Key)

	// Forecast defaults
	v.SetDefault("forecast.history_window_days", d.Forecast.HistoryWindowDays)
	v.SetDefault("forecast.horizon_days", d.Forecast.HorizonDays)
	v.SetDefault("forecast.minimum_data_points", d.Forecast.MinimumDataPoints)
	v.SetDefault("forecast.smoothing_alpha", d.Forecast.SmoothingAlpha)
	v.SetDefault("forecast.smoothing_beta", d.Forecast.SmoothingBeta)
	v.SetDefault("forecast.smoothing_gamma", d.Forecast.SmoothingGamma)
	v.SetDefault("forecast.outlier_detection_threshold", d.Forecast.OutlierDetectionThreshold)
	v.SetDefault("forecast.bulk_parallelism", d.Forecast.BulkParallelism)
	v.SetDefault("forecast.timezone", d.Forecast.Timezone)
	v.SetDefault("forecast.default_calendar", d.Forecast.DefaultCalendar)

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			HTTPPort:    5580,
			BodyLimitMB: 16,
		},
		Queue: QueueConfig{
			Enabled:       false,
			Type:          "nats",
			URL:           "nats://localhost:4222",
			SubjectPrefix: "demandcast.forecasts",
		},
		Cache: CacheConfig{
			Type:      "memory",
			KeyPrefix: "demandcast:forecast",
			TTL:       24 * time.Hour,
			Compress:  true,
		},
		Settings: SettingsConfig{
			Type:        "memory",
			Endpoints:   []string{"http://localhost:2379"},
			DialTimeout: 5 * time.Second,
			Key:         "/demandcast/config/forecast",
		},
		Forecast: ForecastConfig{
			HistoryWindowDays:         365,
			HorizonDays:               90,
			MinimumDataPoints:         30,
			SmoothingAlpha:            0.2,
			SmoothingBeta:             0.1,
			SmoothingGamma:            0.1,
			OutlierDetectionThreshold: 2.5,
			Timezone:                  "UTC",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
