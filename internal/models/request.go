package models

import (
	"fmt"
	"time"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
)

// DateLayout is the calendar date layout accepted in requests
const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD (read in loc) or RFC3339
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", value)
	}
	return t, nil
}

// ObservationRequest represents one sales record in a request body
type ObservationRequest struct {
	ProductID string  `json:"product_id"`
	Date      string  `json:"date"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// ToObservations converts request observations, failing on the first bad record
func ToObservations(in []ObservationRequest, loc *time.Location) ([]forecast.Observation, error) {
	out := make([]forecast.Observation, len(in))
	for i, o := range in {
		if o.ProductID == "" {
			return nil, fmt.Errorf("observations[%d]: product_id is required", i)
		}
		date, err := ParseDate(o.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("observations[%d]: %w", i, err)
		}
		if o.Quantity < 0 {
			return nil, fmt.Errorf("observations[%d]: quantity must not be negative", i)
		}
		out[i] = forecast.Observation{
			ProductID: o.ProductID,
			Date:      date,
			Quantity:  o.Quantity,
			UnitPrice: o.UnitPrice,
		}
	}
	return out, nil
}

// ForecastRequest represents a single product forecast request
type ForecastRequest struct {
	ProductID    string               `json:"product_id"`
	Observations []ObservationRequest `json:"observations"`
}

// BulkForecastRequest represents a bulk forecast request
type BulkForecastRequest struct {
	ProductIDs   []string             `json:"product_ids"`
	Observations []ObservationRequest `json:"observations"`
}

// GroupRequest represents a similarity grouping request
type GroupRequest struct {
	Forecasts    map[string]*forecast.DemandForecast `json:"forecasts,omitempty"`
	ProductIDs   []string                            `json:"product_ids,omitempty"`
	Observations []ObservationRequest                `json:"observations,omitempty"`
}

// SeasonalFactorRequest represents a seasonal factor in a request body
type SeasonalFactorRequest struct {
	Name               string   `json:"name"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	ImpactMultiplier   float64  `json:"impact_multiplier"`
	AffectedCategories []string `json:"affected_categories,omitempty"`
}

// ToSeasonalFactor parses the factor dates in loc
func (r SeasonalFactorRequest) ToSeasonalFactor(loc *time.Location) (forecast.SeasonalFactor, error) {
	start, err := ParseDate(r.StartDate, loc)
	if err != nil {
		return forecast.SeasonalFactor{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := ParseDate(r.EndDate, loc)
	if err != nil {
		return forecast.SeasonalFactor{}, fmt.Errorf("end_date: %w", err)
	}
	return forecast.SeasonalFactor{
		Name:               r.Name,
		StartDate:          start,
		EndDate:            end,
		ImpactMultiplier:   r.ImpactMultiplier,
		AffectedCategories: r.AffectedCategories,
	}, nil
}

// ConfigUpdateRequest represents a partial configuration update
type ConfigUpdateRequest struct {
	HistoryWindowDays         *int                     `json:"history_window_days,omitempty"`
	ForecastHorizonDays       *int                     `json:"forecast_horizon_days,omitempty"`
	MinimumDataPoints         *int                     `json:"minimum_data_points,omitempty"`
	SmoothingAlpha            *float64                 `json:"smoothing_alpha,omitempty"`
	SmoothingBeta             *float64                 `json:"smoothing_beta,omitempty"`
	SmoothingGamma            *float64                 `json:"smoothing_gamma,omitempty"`
	OutlierDetectionThreshold *float64                 `json:"outlier_detection_threshold,omitempty"`
	SeasonalFactors           *[]SeasonalFactorRequest `json:"seasonal_factors,omitempty"`
}

// ToConfigUpdate converts the request, parsing seasonal factor dates in loc
func (r ConfigUpdateRequest) ToConfigUpdate(loc *time.Location) (forecast.ConfigUpdate, error) {
	update := forecast.ConfigUpdate{
		HistoryWindowDays:         r.HistoryWindowDays,
		ForecastHorizonDays:       r.ForecastHorizonDays,
		MinimumDataPoints:         r.MinimumDataPoints,
		SmoothingAlpha:            r.SmoothingAlpha,
		SmoothingBeta:             r.SmoothingBeta,
		SmoothingGamma:            r.SmoothingGamma,
		OutlierDetectionThreshold: r.OutlierDetectionThreshold,
	}

	if r.SeasonalFactors != nil {
		factors := make([]forecast.SeasonalFactor, len(*r.SeasonalFactors))
		for i, f := range *r.SeasonalFactors {
			factor, err := f.ToSeasonalFactor(loc)
			if err != nil {
				return update, fmt.Errorf("seasonal_factors[%d]: %w", i, err)
			}
			factors[i] = factor
		}
		update.SeasonalFactors = &factors
	}

	return update, nil
}

// ExternalFactorRequest represents a single-day external factor
type ExternalFactorRequest struct {
	Type             string  `json:"type"`
	Name             string  `json:"name"`
	Date             string  `json:"date"`
	ImpactMultiplier float64 `json:"impact_multiplier"`
	Description      string  `json:"description,omitempty"`
}

// ExternalFactorsRequest replaces all external factors
type ExternalFactorsRequest struct {
	Factors []ExternalFactorRequest `json:"factors"`
}

// ToExternalFactors parses the factor dates in loc
func (r ExternalFactorsRequest) ToExternalFactors(loc *time.Location) ([]forecast.ExternalFactor, error) {
	out := make([]forecast.ExternalFactor, len(r.Factors))
	for i, f := range r.Factors {
		date, err := ParseDate(f.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("factors[%d]: %w", i, err)
		}
		out[i] = forecast.ExternalFactor{
			Type:             forecast.ExternalFactorType(f.Type),
			Name:             f.Name,
			Date:             date,
			ImpactMultiplier: f.ImpactMultiplier,
			Description:      f.Description,
		}
	}
	return out, nil
}
