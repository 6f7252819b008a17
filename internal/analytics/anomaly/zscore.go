package anomaly

import (
	"math"

	"github.com/soltixdb/demandcast/internal/analytics"
)

// ZScoreDetector flags observations using the standard score of their quantity.
// Observations with |Z| > threshold are anomalies; the boundary itself is kept.
type ZScoreDetector struct{}

// NewZScoreDetector creates a new z-score detector
func NewZScoreDetector() *ZScoreDetector {
	return &ZScoreDetector{}
}

// Name returns the algorithm name
func (z *ZScoreDetector) Name() string {
	return "zscore"
}

// Detect finds anomalies using population mean and standard deviation
func (z *ZScoreDetector) Detect(series analytics.SalesSeries, threshold float64) Detection {
	if len(series) < MinFilterPoints {
		return Detection{Outcome: OutcomeInsufficientData}
	}

	mean, stdDev := analytics.MeanStdDev(series.Quantities())

	// Every observation equals the mean, none can deviate
	if stdDev == 0 {
		return Detection{Outcome: OutcomeFlatline, Mean: mean}
	}

	limit := threshold * stdDev
	expected := &Range{Min: mean - limit, Max: mean + limit}

	var results []AnomalyResult
	for i, o := range series {
		deviation := float64(o.Quantity) - mean
		if math.Abs(deviation) <= limit {
			continue
		}

		anomalyType := AnomalyTypeSpike
		if deviation < 0 {
			anomalyType = AnomalyTypeDrop
		}
		results = append(results, AnomalyResult{
			Index:    i,
			Score:    math.Abs(CalculateZScore(float64(o.Quantity), mean, stdDev)),
			Type:     anomalyType,
			Expected: expected,
		})
	}

	return Detection{
		Outcome:   OutcomeEvaluated,
		Mean:      mean,
		StdDev:    stdDev,
		Anomalies: results,
	}
}

// CalculateZScore calculates Z-Score for a single value given mean and stdDev
func CalculateZScore(value, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	return (value - mean) / stdDev
}
