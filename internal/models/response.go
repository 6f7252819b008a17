package models

import "github.com/soltixdb/demandcast/internal/analytics/forecast"

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// BulkForecastResponse represents a bulk forecast response
type BulkForecastResponse struct {
	Forecasts map[string]*forecast.DemandForecast `json:"forecasts"`
	Skipped   []string                            `json:"skipped"`
	Count     int                                 `json:"count"`
	Published int                                 `json:"published"`
}

// GroupsResponse represents similarity groups keyed by group name
type GroupsResponse struct {
	Groups map[string][]string `json:"groups"`
	Count  int                 `json:"count"`
}

// TrendsResponse represents the cached product trends
type TrendsResponse struct {
	Trends []forecast.ProductTrend `json:"trends"`
	Count  int                     `json:"count"`
}

// ConfigResponse represents the current engine configuration
type ConfigResponse struct {
	Config          forecast.Config           `json:"config"`
	ExternalFactors []forecast.ExternalFactor `json:"external_factors"`
}

// ExternalFactorsResponse represents the current external factors
type ExternalFactorsResponse struct {
	Factors []forecast.ExternalFactor `json:"factors"`
	Count   int                       `json:"count"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
