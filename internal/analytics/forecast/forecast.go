// Package forecast implements per-product demand forecasting: trend estimation,
// seasonal multipliers, Holt-Winters smoothing, confidence scoring, influence
// analysis and similarity grouping.
package forecast

import (
	"math"
	"time"

	"github.com/soltixdb/demandcast/internal/analytics"
)

// Observation is an alias to the shared analytics.SalesObservation type.
type Observation = analytics.SalesObservation

// ForecastPoint is the predicted demand for one future day
type ForecastPoint struct {
	Date             time.Time `json:"date"`
	ExpectedQuantity int       `json:"expected_quantity"`
	LowerBound       int       `json:"lower_bound"`
	UpperBound       int       `json:"upper_bound"`
}

// InfluenceFactor is a named, signed contributor to forecasted demand
type InfluenceFactor struct {
	Factor string  `json:"factor"`
	Impact float64 `json:"impact"` // -1 to 1
}

// ModelInfo contains metadata about the smoothing model fit
type ModelInfo struct {
	Algorithm  string                 `json:"algorithm"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	MAPE       float64                `json:"mape,omitempty"` // Mean Absolute Percentage Error
	MAE        float64                `json:"mae,omitempty"`  // Mean Absolute Error
	RMSE       float64                `json:"rmse,omitempty"` // Root Mean Squared Error
	DataPoints int                    `json:"data_points"`    // Number of observations used
}

// DemandForecast is the assembled forecast for one product
type DemandForecast struct {
	ProductID          string              `json:"product_id"`
	ForecastPoints     []ForecastPoint     `json:"forecast_points"`
	ConfidenceScore    float64             `json:"confidence_score"`
	InfluencingFactors []InfluenceFactor   `json:"influencing_factors"`
	Confidence         ConfidenceBreakdown `json:"confidence"`
	ModelInfo          ModelInfo           `json:"model_info"`
	GeneratedAt        time.Time           `json:"generated_at"`
}

// ExpectedQuantities returns the expected quantity curve of the forecast
func (f *DemandForecast) ExpectedQuantities() []float64 {
	values := make([]float64, len(f.ForecastPoints))
	for i, p := range f.ForecastPoints {
		values[i] = float64(p.ExpectedQuantity)
	}
	return values
}

// ProductTrend is the cached trend of a product, refreshed on every forecast
type ProductTrend struct {
	ProductID        string     `json:"product_id"`
	TrendCoefficient float64    `json:"trend_coefficient"`
	ConfidenceScore  float64    `json:"confidence_score"`
	Fit              FitOutcome `json:"fit"`
}

// CalculateMAPE calculates Mean Absolute Percentage Error
func CalculateMAPE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	count := 0
	for i := range actual {
		if actual[i] != 0 {
			sum += math.Abs((actual[i] - predicted[i]) / actual[i])
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return (sum / float64(count)) * 100
}

// CalculateMAE calculates Mean Absolute Error
func CalculateMAE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

// CalculateRMSE calculates Root Mean Squared Error
func CalculateRMSE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// roundQuantity rounds half away from zero and guards against non-finite input.
func roundQuantity(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}
