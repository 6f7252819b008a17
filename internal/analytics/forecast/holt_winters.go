package forecast

import (
	"math"

	"github.com/soltixdb/demandcast/internal/analytics"
)

// WeeklyPeriod is the seasonal period of daily sales data
const WeeklyPeriod = 7

// HoltWinters implements triple exponential smoothing over a daily series with
// a weekly seasonal index and calendar multipliers applied to the forecast.
type HoltWinters struct {
	Alpha float64 // Level smoothing (0-1)
	Beta  float64 // Trend smoothing (0-1)
	Gamma float64 // Seasonal smoothing (0-1)
}

// NewHoltWinters creates a smoother with the configured coefficients
func NewHoltWinters(cfg Config) *HoltWinters {
	return &HoltWinters{
		Alpha: cfg.SmoothingAlpha,
		Beta:  cfg.SmoothingBeta,
		Gamma: cfg.SmoothingGamma,
	}
}

// Name returns the algorithm name
func (hw *HoltWinters) Name() string {
	return "holt_winters"
}

// HoltWintersState is the fitted model after the recursive pass
type HoltWintersState struct {
	Level    float64
	Trend    float64
	Seasonal [WeeklyPeriod]float64
	Seeded   bool      // Seasonal indexes came from the data rather than 1.0
	Fitted   []float64 // One-step-ahead fitted values, Fitted[0] = first observation
}

// Fit runs the recursive update over a date-sorted, non-empty series
func (hw *HoltWinters) Fit(series analytics.SalesSeries) HoltWintersState {
	var state HoltWintersState
	n := len(series)
	if n == 0 {
		return state
	}

	y := series.Quantities()
	state.Level = y[0]
	state.Seeded = seedSeasonal(y, &state.Seasonal)

	state.Fitted = make([]float64, n)
	state.Fitted[0] = y[0]

	for i := 1; i < n; i++ {
		s := i % WeeklyPeriod
		seasonal := state.Seasonal[s]
		state.Fitted[i] = (state.Level + state.Trend) * seasonal

		deseasonalized := state.Level + state.Trend
		if seasonal != 0 {
			deseasonalized = y[i] / seasonal
		}

		newLevel := hw.Alpha*deseasonalized + (1-hw.Alpha)*(state.Level+state.Trend)
		state.Trend = hw.Beta*(newLevel-state.Level) + (1-hw.Beta)*state.Trend
		if newLevel != 0 {
			state.Seasonal[s] = hw.Gamma*(y[i]/newLevel) + (1-hw.Gamma)*seasonal
		}
		state.Level = newLevel
	}

	return state
}

// seedSeasonal averages same-slot observations and normalizes them to mean 1.
// It needs two full periods; otherwise every slot is 1.0.
func seedSeasonal(y []float64, seasonal *[WeeklyPeriod]float64) bool {
	for s := range seasonal {
		seasonal[s] = 1.0
	}
	if len(y) < 2*WeeklyPeriod {
		return false
	}

	var averages [WeeklyPeriod]float64
	total := 0.0
	for s := 0; s < WeeklyPeriod; s++ {
		sum := 0.0
		count := 0
		for j := s; j < len(y); j += WeeklyPeriod {
			sum += y[j]
			count++
		}
		averages[s] = sum / float64(count)
		total += averages[s]
	}

	mean := total / WeeklyPeriod
	if mean == 0 {
		return false
	}
	for s := range averages {
		seasonal[s] = averages[s] / mean
	}
	return true
}

// IntervalFunc returns the interval half-width for an expected quantity
type IntervalFunc func(expected float64) float64

// Forecast projects horizon days past the last observation of series
func (hw *HoltWinters) Forecast(series analytics.SalesSeries, state HoltWintersState, horizon int, category string, resolver *Resolver, interval IntervalFunc) []ForecastPoint {
	n := len(series)
	if n == 0 || horizon <= 0 {
		return nil
	}
	lastDate := series[n-1].Date

	points := make([]ForecastPoint, horizon)
	for i := 1; i <= horizon; i++ {
		date := lastDate.AddDate(0, 0, i)
		slot := (n + i - 1) % WeeklyPeriod

		value := (state.Level + float64(i)*state.Trend) * state.Seasonal[slot]
		if resolver != nil {
			value *= resolver.Multiplier(date, category)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			value = 0
		}
		value = math.Max(0, value)

		expected := roundQuantity(value)
		halfWidth := 0.0
		if interval != nil {
			halfWidth = math.Max(0, interval(float64(expected)))
		}

		points[i-1] = ForecastPoint{
			Date:             date,
			ExpectedQuantity: expected,
			LowerBound:       max(0, roundQuantity(float64(expected)-halfWidth)),
			UpperBound:       roundQuantity(float64(expected) + halfWidth),
		}
	}

	return points
}

// ModelInfo summarizes the in-sample fit. The first observation seeds the
// level and has no forecast of its own, so errors start at the second.
func (hw *HoltWinters) ModelInfo(series analytics.SalesSeries, state HoltWintersState) ModelInfo {
	actual := series.Quantities()
	fitted := state.Fitted
	if len(actual) > 1 && len(fitted) == len(actual) {
		actual, fitted = actual[1:], fitted[1:]
	} else {
		actual, fitted = nil, nil
	}
	return ModelInfo{
		Algorithm: hw.Name(),
		Parameters: map[string]interface{}{
			"alpha":           hw.Alpha,
			"beta":            hw.Beta,
			"gamma":           hw.Gamma,
			"period":          WeeklyPeriod,
			"seasonal_seeded": state.Seeded,
		},
		MAPE:       CalculateMAPE(actual, fitted),
		MAE:        CalculateMAE(actual, fitted),
		RMSE:       CalculateRMSE(actual, fitted),
		DataPoints: len(series),
	}
}
