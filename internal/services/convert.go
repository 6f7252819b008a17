package services

import (
	"fmt"
	"time"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/config"
)

// EngineConfig converts the file configuration into the engine configuration.
// Seasonal factor dates are read in the forecast timezone. When
// DefaultCalendar is set the built-in holidays of now's year are added
// before the configured factors, so a configured factor of the same name wins.
func EngineConfig(cfg config.ForecastConfig, now time.Time) (forecast.Config, error) {
	loc := cfg.Location()

	out := forecast.Config{
		HistoryWindowDays:         cfg.HistoryWindowDays,
		ForecastHorizonDays:       cfg.HorizonDays,
		MinimumDataPoints:         cfg.MinimumDataPoints,
		SmoothingAlpha:            cfg.SmoothingAlpha,
		SmoothingBeta:             cfg.SmoothingBeta,
		SmoothingGamma:            cfg.SmoothingGamma,
		OutlierDetectionThreshold: cfg.OutlierDetectionThreshold,
		SeasonalFactors:           []forecast.SeasonalFactor{},
	}

	if cfg.DefaultCalendar {
		out.SeasonalFactors = append(out.SeasonalFactors, forecast.DefaultSeasonalFactors(now.In(loc).Year(), loc)...)
	}

	for _, f := range cfg.SeasonalFactors {
		dates, err := f.Dates(loc)
		if err != nil {
			return forecast.Config{}, fmt.Errorf("seasonal factor %s: %w", f.Name, err)
		}
		out.SeasonalFactors = append(out.SeasonalFactors, forecast.SeasonalFactor{
			Name:               f.Name,
			StartDate:          dates.Start,
			EndDate:            dates.End,
			ImpactMultiplier:   f.ImpactMultiplier,
			AffectedCategories: append([]string(nil), f.AffectedCategories...),
		})
	}

	if err := out.Validate(); err != nil {
		return forecast.Config{}, err
	}
	return out, nil
}
