package forecast

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrInvalidSeasonalFactor is returned when a seasonal factor is malformed
	ErrInvalidSeasonalFactor = errors.New("invalid seasonal factor")
	// ErrInvalidConfig is returned when a configuration update is out of range
	ErrInvalidConfig = errors.New("invalid forecast config")
)

// SeasonalFactor is a named, date-ranged multiplicative demand adjustment
type SeasonalFactor struct {
	Name               string    `json:"name" mapstructure:"name"`
	StartDate          time.Time `json:"start_date" mapstructure:"start_date"`
	EndDate            time.Time `json:"end_date" mapstructure:"end_date"` // Inclusive
	ImpactMultiplier   float64   `json:"impact_multiplier" mapstructure:"impact_multiplier"`
	AffectedCategories []string  `json:"affected_categories,omitempty" mapstructure:"affected_categories"` // Empty applies to all
}

// Validate checks the factor invariants
func (f SeasonalFactor) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSeasonalFactor)
	}
	if f.EndDate.Before(f.StartDate) {
		return fmt.Errorf("%w: %s ends before it starts", ErrInvalidSeasonalFactor, f.Name)
	}
	if f.ImpactMultiplier <= 0 {
		return fmt.Errorf("%w: %s impact_multiplier must be positive", ErrInvalidSeasonalFactor, f.Name)
	}
	return nil
}

// AppliesTo reports whether the factor affects the given category
func (f SeasonalFactor) AppliesTo(category string) bool {
	if len(f.AffectedCategories) == 0 {
		return true
	}
	for _, c := range f.AffectedCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Covers reports whether date falls inside the factor range, by calendar day
func (f SeasonalFactor) Covers(date time.Time) bool {
	day := dayNumber(date)
	return day >= dayNumber(f.StartDate) && day <= dayNumber(f.EndDate)
}

// Config holds the tunable forecasting parameters
type Config struct {
	HistoryWindowDays         int              `json:"history_window_days" mapstructure:"history_window_days"`
	ForecastHorizonDays       int              `json:"forecast_horizon_days" mapstructure:"forecast_horizon_days"`
	MinimumDataPoints         int              `json:"minimum_data_points" mapstructure:"minimum_data_points"`
	SmoothingAlpha            float64          `json:"smoothing_alpha" mapstructure:"smoothing_alpha"`
	SmoothingBeta             float64          `json:"smoothing_beta" mapstructure:"smoothing_beta"`
	SmoothingGamma            float64          `json:"smoothing_gamma" mapstructure:"smoothing_gamma"`
	OutlierDetectionThreshold float64          `json:"outlier_detection_threshold" mapstructure:"outlier_detection_threshold"`
	SeasonalFactors           []SeasonalFactor `json:"seasonal_factors" mapstructure:"seasonal_factors"`
}

// DefaultConfig returns the default forecasting configuration
func DefaultConfig() Config {
	return Config{
		HistoryWindowDays:         365, // One year of history
		ForecastHorizonDays:       90,  // Three months ahead
		MinimumDataPoints:         30,
		SmoothingAlpha:            0.2,
		SmoothingBeta:             0.1,
		SmoothingGamma:            0.1,
		OutlierDetectionThreshold: 2.5, // Standard deviations
		SeasonalFactors:           []SeasonalFactor{},
	}
}

// Upper bounds for the day-count settings
const (
	MaxForecastHorizonDays = 3650  // Ten years of daily points
	MaxHistoryWindowDays   = 36500 // A century of history
)

// Validate validates the configuration
func (c Config) Validate() error {
	if c.HistoryWindowDays < 0 || c.HistoryWindowDays > MaxHistoryWindowDays {
		return fmt.Errorf("%w: history_window_days must be within [0,%d]", ErrInvalidConfig, MaxHistoryWindowDays)
	}
	if c.ForecastHorizonDays < 1 || c.ForecastHorizonDays > MaxForecastHorizonDays {
		return fmt.Errorf("%w: forecast_horizon_days must be within [1,%d]", ErrInvalidConfig, MaxForecastHorizonDays)
	}
	if c.MinimumDataPoints < 1 {
		return fmt.Errorf("%w: minimum_data_points must be at least 1", ErrInvalidConfig)
	}
	for name, v := range map[string]float64{
		"smoothing_alpha": c.SmoothingAlpha,
		"smoothing_beta":  c.SmoothingBeta,
		"smoothing_gamma": c.SmoothingGamma,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", ErrInvalidConfig, name, v)
		}
	}
	if c.OutlierDetectionThreshold <= 0 {
		return fmt.Errorf("%w: outlier_detection_threshold must be positive", ErrInvalidConfig)
	}
	for _, f := range c.SeasonalFactors {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// clone returns a deep copy so callers never share the factor slice
func (c Config) clone() Config {
	out := c
	out.SeasonalFactors = make([]SeasonalFactor, len(c.SeasonalFactors))
	for i, f := range c.SeasonalFactors {
		out.SeasonalFactors[i] = f
		out.SeasonalFactors[i].AffectedCategories = append([]string(nil), f.AffectedCategories...)
	}
	return out
}

// ConfigUpdate is a partial configuration; nil fields keep their current value
type ConfigUpdate struct {
	HistoryWindowDays         *int              `json:"history_window_days,omitempty"`
	ForecastHorizonDays       *int              `json:"forecast_horizon_days,omitempty"`
	MinimumDataPoints         *int              `json:"minimum_data_points,omitempty"`
	SmoothingAlpha            *float64          `json:"smoothing_alpha,omitempty"`
	SmoothingBeta             *float64          `json:"smoothing_beta,omitempty"`
	SmoothingGamma            *float64          `json:"smoothing_gamma,omitempty"`
	OutlierDetectionThreshold *float64          `json:"outlier_detection_threshold,omitempty"`
	SeasonalFactors           *[]SeasonalFactor `json:"seasonal_factors,omitempty"`
}

// apply merges the update into c
func (u ConfigUpdate) apply(c Config) Config {
	if u.HistoryWindowDays != nil {
		c.HistoryWindowDays = *u.HistoryWindowDays
	}
	if u.ForecastHorizonDays != nil {
		c.ForecastHorizonDays = *u.ForecastHorizonDays
	}
	if u.MinimumDataPoints != nil {
		c.MinimumDataPoints = *u.MinimumDataPoints
	}
	if u.SmoothingAlpha != nil {
		c.SmoothingAlpha = *u.SmoothingAlpha
	}
	if u.SmoothingBeta != nil {
		c.SmoothingBeta = *u.SmoothingBeta
	}
	if u.SmoothingGamma != nil {
		c.SmoothingGamma = *u.SmoothingGamma
	}
	if u.OutlierDetectionThreshold != nil {
		c.OutlierDetectionThreshold = *u.OutlierDetectionThreshold
	}
	if u.SeasonalFactors != nil {
		c.SeasonalFactors = dedupeFactors(*u.SeasonalFactors)
	}
	return c
}

// Store is the mutable configuration shared by an engine.
// It must not be mutated while a bulk run is in progress.
type Store struct {
	mu       sync.RWMutex
	config   Config
	external []ExternalFactor
}

// NewStore creates a store holding cfg
func NewStore(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.SeasonalFactors = dedupeFactors(cfg.SeasonalFactors)
	return &Store{config: cfg.clone()}, nil
}

// NewDefaultStore creates a store holding DefaultConfig
func NewDefaultStore() *Store {
	return &Store{config: DefaultConfig()}
}

// Config returns a snapshot of the current configuration
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.clone()
}

// UpdateConfig merges a partial update. The store is left untouched on error.
func (s *Store) UpdateConfig(update ConfigUpdate) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := update.apply(s.config.clone())
	if err := next.Validate(); err != nil {
		return s.config.clone(), err
	}
	s.config = next
	return next.clone(), nil
}

// Replace swaps the whole configuration, used when loading persisted settings
func (s *Store) Replace(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.SeasonalFactors = dedupeFactors(cfg.SeasonalFactors)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg.clone()
	return nil
}

// AddSeasonalFactor adds a factor, replacing any factor with the same name
func (s *Store) AddSeasonalFactor(factor SeasonalFactor) error {
	if err := factor.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	factors := make([]SeasonalFactor, 0, len(s.config.SeasonalFactors)+1)
	for _, f := range s.config.SeasonalFactors {
		if f.Name != factor.Name {
			factors = append(factors, f)
		}
	}
	factor.AffectedCategories = append([]string(nil), factor.AffectedCategories...)
	s.config.SeasonalFactors = append(factors, factor)
	return nil
}

// RemoveSeasonalFactor removes the named factor and reports whether it existed
func (s *Store) RemoveSeasonalFactor(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	factors := make([]SeasonalFactor, 0, len(s.config.SeasonalFactors))
	removed := false
	for _, f := range s.config.SeasonalFactors {
		if f.Name == name {
			removed = true
			continue
		}
		factors = append(factors, f)
	}
	s.config.SeasonalFactors = factors
	return removed
}

// SetExternalFactors replaces the single-day external factors
func (s *Store) SetExternalFactors(factors []ExternalFactor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.external = append([]ExternalFactor(nil), factors...)
}

// ExternalFactors returns a copy of the external factors
func (s *Store) ExternalFactors() []ExternalFactor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ExternalFactor(nil), s.external...)
}

// dedupeFactors keeps the last factor for each name, in order of last occurrence
func dedupeFactors(factors []SeasonalFactor) []SeasonalFactor {
	last := make(map[string]int, len(factors))
	for i, f := range factors {
		last[f.Name] = i
	}
	out := make([]SeasonalFactor, 0, len(last))
	for i, f := range factors {
		if last[f.Name] == i {
			out = append(out, f)
		}
	}
	return out
}
