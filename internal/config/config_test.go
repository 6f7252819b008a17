package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "default config should be valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid http port",
			mutate:  func(c *Config) { c.Server.HTTPPort = 0 },
			wantErr: true,
		},
		{
			name: "kafka without brokers",
			mutate: func(c *Config) {
				c.Queue.Enabled = true
				c.Queue.Type = "kafka"
			},
			wantErr: true,
		},
		{
			name: "unknown queue type ignored when disabled",
			mutate: func(c *Config) {
				c.Queue.Enabled = false
				c.Queue.Type = "carrier-pigeon"
			},
			wantErr: false,
		},
		{
			name:    "redis cache without url",
			mutate:  func(c *Config) { c.Cache.Type = "redis" },
			wantErr: true,
		},
		{
			name:    "zero cache ttl",
			mutate:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: true,
		},
		{
			name: "etcd settings without key",
			mutate: func(c *Config) {
				c.Settings.Type = "etcd"
				c.Settings.Key = ""
			},
			wantErr: true,
		},
		{
			name:    "smoothing alpha out of range",
			mutate:  func(c *Config) { c.Forecast.SmoothingAlpha = 1.2 },
			wantErr: true,
		},
		{
			name:    "zero horizon",
			mutate:  func(c *Config) { c.Forecast.HorizonDays = 0 },
			wantErr: true,
		},
		{
			name:    "horizon above maximum",
			mutate:  func(c *Config) { c.Forecast.HorizonDays = MaxHorizonDays + 1 },
			wantErr: true,
		},
		{
			name:    "history window above maximum",
			mutate:  func(c *Config) { c.Forecast.HistoryWindowDays = MaxHistoryWindowDays + 1 },
			wantErr: true,
		},
		{
			name: "seasonal factor ending before it starts",
			mutate: func(c *Config) {
				c.Forecast.SeasonalFactors = []SeasonalFactorConfig{{
					Name: "christmas", StartDate: "2024-12-25", EndDate: "2024-12-01", ImpactMultiplier: 1.8,
				}}
			},
			wantErr: true,
		},
		{
			name: "invalid logging level",
			mutate: func(c *Config) {
				c.Logging.Level = "invalid"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.HTTPPort != 5580 {
		t.Errorf("expected HTTPPort 5580, got %d", cfg.Server.HTTPPort)
	}

	if cfg.Forecast.HorizonDays != 90 {
		t.Errorf("expected horizon 90, got %d", cfg.Forecast.HorizonDays)
	}

	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("expected cache TTL 24h, got %v", cfg.Cache.TTL)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  http_port: 6000
forecast:
  horizon_days: 14
  timezone: "-03:00"
  seasonal_factors:
    - name: christmas
      start_date: "2024-12-01"
      end_date: "2024-12-25"
      impact_multiplier: 1.8
      affected_categories: [bolos, doces]
logging:
  level: debug
  format: console
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DEMANDCAST_FORECAST_MINIMUM_DATA_POINTS", "12")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPPort != 6000 {
		t.Errorf("expected HTTPPort 6000, got %d", cfg.Server.HTTPPort)
	}
	if cfg.Forecast.HorizonDays != 14 {
		t.Errorf("expected horizon 14, got %d", cfg.Forecast.HorizonDays)
	}
	if cfg.Forecast.MinimumDataPoints != 12 {
		t.Errorf("expected env override 12, got %d", cfg.Forecast.MinimumDataPoints)
	}
	if cfg.Forecast.SmoothingAlpha != 0.2 {
		t.Errorf("expected default alpha 0.2, got %v", cfg.Forecast.SmoothingAlpha)
	}
	if len(cfg.Forecast.SeasonalFactors) != 1 {
		t.Fatalf("expected 1 seasonal factor, got %d", len(cfg.Forecast.SeasonalFactors))
	}
	if !cfg.IsDevelopment() {
		t.Error("config with debug/console should be development mode")
	}

	dates, err := cfg.Forecast.SeasonalFactors[0].Dates(cfg.Forecast.Location())
	if err != nil {
		t.Fatalf("Dates() error = %v", err)
	}
	if _, offset := dates.Start.Zone(); offset != -3*3600 {
		t.Errorf("expected -03:00 offset, got %d", offset)
	}
}

func TestForecastLocation(t *testing.T) {
	tests := []struct {
		timezone string
		offset   int
	}{
		{"", 0},
		{"UTC", 0},
		{"+09:00", 9 * 3600},
		{"-05:30", -(5*3600 + 30*60)},
		{"not-a-zone", 0},
	}

	ref := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		cfg := ForecastConfig{Timezone: tt.timezone}
		_, offset := ref.In(cfg.Location()).Zone()
		if offset != tt.offset {
			t.Errorf("timezone %q: expected offset %d, got %d", tt.timezone, tt.offset, offset)
		}
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.IsProduction() {
		t.Error("default config should be production mode")
	}

	if addr := cfg.GetServerAddress(); addr != "0.0.0.0:5580" {
		t.Errorf("expected '0.0.0.0:5580', got %s", addr)
	}
}
