package services

import (
	"context"
	"errors"
	"sync"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/logging"
	"github.com/soltixdb/demandcast/internal/settings"
	"github.com/soltixdb/demandcast/internal/utils"
)

// Error codes returned by ConfigService
const (
	CodeInvalidConfig       = "INVALID_CONFIG"
	CodeInvalidFactor       = "INVALID_SEASONAL_FACTOR"
	CodeFactorNotFound      = "SEASONAL_FACTOR_NOT_FOUND"
	CodeSettingsUnavailable = "SETTINGS_UNAVAILABLE"
)

// ConfigService reads and mutates the engine configuration and keeps the
// persisted settings in step. A mutation that cannot be persisted is rolled back.
type ConfigService struct {
	logger   *logging.Logger
	store    *forecast.Store
	settings settings.Store // Optional

	mu sync.Mutex // Held across mutate, persist and rollback
}

// NewConfigService creates a new ConfigService. settingsStore may be nil.
func NewConfigService(logger *logging.Logger, store *forecast.Store, settingsStore settings.Store) *ConfigService {
	return &ConfigService{
		logger:   logger,
		store:    store,
		settings: settingsStore,
	}
}

// Config returns the current configuration
func (s *ConfigService) Config() forecast.Config {
	return s.store.Config()
}

// ExternalFactors returns the current external factors
func (s *ConfigService) ExternalFactors() []forecast.ExternalFactor {
	return s.store.ExternalFactors()
}

// Load replaces the configuration with the persisted one. When nothing has
// been persisted yet, the current configuration is saved as the baseline.
func (s *ConfigService) Load(ctx context.Context) error {
	if s.settings == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loadCtx, cancel := context.WithTimeout(ctx, utils.SettingsTimeout)
	defer cancel()

	cfg, ok, err := s.settings.Load(loadCtx)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Info("No persisted forecast settings, saving defaults")
		return s.settings.Save(loadCtx, s.store.Config())
	}

	if err := s.store.Replace(cfg); err != nil {
		return err
	}
	s.logger.Info("Loaded persisted forecast settings",
		"seasonal_factors", len(cfg.SeasonalFactors))
	return nil
}

// Watch applies configurations saved by other instances until ctx is done.
// It returns immediately when the settings backend cannot watch.
func (s *ConfigService) Watch(ctx context.Context) error {
	watcher, ok := s.settings.(settings.Watcher)
	if !ok {
		return nil
	}
	return watcher.Watch(ctx, func(cfg forecast.Config) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.store.Replace(cfg); err != nil {
			s.logger.Warn("Rejected forecast settings from another instance", "error", err)
			return
		}
		s.logger.Info("Applied forecast settings from another instance",
			"seasonal_factors", len(cfg.SeasonalFactors))
	})
}

// UpdateConfig merges a partial update
func (s *ConfigService) UpdateConfig(ctx context.Context, update forecast.ConfigUpdate) (forecast.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.store.Config()

	cfg, err := s.store.UpdateConfig(update)
	if err != nil {
		return previous, s.validationError(err)
	}

	if err := s.persist(ctx, previous); err != nil {
		return previous, err
	}

	s.logger.Info("Forecast config updated",
		"horizon_days", cfg.ForecastHorizonDays,
		"minimum_data_points", cfg.MinimumDataPoints)
	return cfg, nil
}

// PutSeasonalFactor adds a factor or replaces the one with the same name
func (s *ConfigService) PutSeasonalFactor(ctx context.Context, factor forecast.SeasonalFactor) (forecast.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.store.Config()

	if err := s.store.AddSeasonalFactor(factor); err != nil {
		return previous, s.validationError(err)
	}

	if err := s.persist(ctx, previous); err != nil {
		return previous, err
	}

	s.logger.Info("Seasonal factor saved",
		"name", factor.Name,
		"impact_multiplier", factor.ImpactMultiplier)
	return s.store.Config(), nil
}

// RemoveSeasonalFactor deletes the named factor
func (s *ConfigService) RemoveSeasonalFactor(ctx context.Context, name string) (forecast.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.store.Config()

	if !s.store.RemoveSeasonalFactor(name) {
		return previous, NewServiceErrorWithDetails(CodeFactorNotFound, "Seasonal factor not found",
			map[string]interface{}{"name": name})
	}

	if err := s.persist(ctx, previous); err != nil {
		return previous, err
	}

	s.logger.Info("Seasonal factor removed", "name", name)
	return s.store.Config(), nil
}

// SetExternalFactors replaces the single-day external factors. They are
// supplied by collaborators on each refresh and are not persisted.
func (s *ConfigService) SetExternalFactors(factors []forecast.ExternalFactor) ([]forecast.ExternalFactor, error) {
	for _, f := range factors {
		if f.Name == "" {
			return nil, NewServiceError(CodeInvalidFactor, "external factor name is required")
		}
		if f.ImpactMultiplier <= 0 {
			return nil, NewServiceErrorWithDetails(CodeInvalidFactor, "external factor impact_multiplier must be positive",
				map[string]interface{}{"name": f.Name})
		}
		switch f.Type {
		case forecast.ExternalWeather, forecast.ExternalHoliday, forecast.ExternalEvent:
		default:
			return nil, NewServiceErrorWithDetails(CodeInvalidFactor, "external factor type must be weather, holiday or event",
				map[string]interface{}{"name": f.Name, "type": string(f.Type)})
		}
	}

	s.store.SetExternalFactors(factors)
	return s.store.ExternalFactors(), nil
}

// persist saves the current configuration, restoring previous on failure.
// Callers hold s.mu.
func (s *ConfigService) persist(ctx context.Context, previous forecast.Config) error {
	if s.settings == nil {
		return nil
	}

	saveCtx, cancel := context.WithTimeout(ctx, utils.SettingsTimeout)
	defer cancel()

	if err := s.settings.Save(saveCtx, s.store.Config()); err != nil {
		if restoreErr := s.store.Replace(previous); restoreErr != nil {
			s.logger.Error("Failed to restore forecast config", "error", restoreErr)
		}
		s.logger.Error("Failed to persist forecast config", "error", err)
		return NewServiceErrorWithDetails(CodeSettingsUnavailable, "Failed to persist forecast config",
			map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func (s *ConfigService) validationError(err error) error {
	code := CodeInvalidConfig
	if errors.Is(err, forecast.ErrInvalidSeasonalFactor) {
		code = CodeInvalidFactor
	}
	return NewServiceError(code, err.Error())
}
