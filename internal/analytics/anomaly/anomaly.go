// Package anomaly detects and removes anomalous sales observations before modeling.
package anomaly

import (
	"github.com/soltixdb/demandcast/internal/analytics"
)

// AnomalyType represents the type of anomaly detected
type AnomalyType string

const (
	AnomalyTypeSpike AnomalyType = "spike" // Quantity far above the mean
	AnomalyTypeDrop  AnomalyType = "drop"  // Quantity far below the mean
)

// MinFilterPoints is the smallest series for which the spread is estimated.
// Shorter series pass through the filter unchanged.
const MinFilterPoints = 4

// Outcome names how a detection pass treated the series.
type Outcome string

const (
	OutcomeEvaluated        Outcome = "evaluated"
	OutcomeInsufficientData Outcome = "insufficient_data"
	OutcomeFlatline         Outcome = "flatline" // zero variance, nothing can deviate
)

// Range represents the accepted quantity range
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// AnomalyResult contains the detection result for a single observation
type AnomalyResult struct {
	Index    int         // Index in the input series
	Score    float64     // Absolute z-score
	Type     AnomalyType // Spike or drop
	Expected *Range      // Accepted range
}

// Detection is the full result of a detector run.
type Detection struct {
	Outcome   Outcome
	Mean      float64
	StdDev    float64
	Anomalies []AnomalyResult
}

// Detector finds anomalous observations in a series.
type Detector interface {
	Name() string
	Detect(series analytics.SalesSeries, threshold float64) Detection
}

// FilterOutliers returns the observations whose quantity lies within
// threshold standard deviations of the mean. The input is never modified.
func FilterOutliers(series analytics.SalesSeries, threshold float64) analytics.SalesSeries {
	return FilterWith(NewZScoreDetector(), series, threshold)
}

// FilterWith removes what the given detector flags.
func FilterWith(d Detector, series analytics.SalesSeries, threshold float64) analytics.SalesSeries {
	det := d.Detect(series, threshold)
	if len(det.Anomalies) == 0 {
		out := make(analytics.SalesSeries, len(series))
		copy(out, series)
		return out
	}

	drop := make(map[int]bool, len(det.Anomalies))
	for _, a := range det.Anomalies {
		drop[a.Index] = true
	}

	out := make(analytics.SalesSeries, 0, len(series)-len(drop))
	for i, o := range series {
		if !drop[i] {
			out = append(out, o)
		}
	}
	return out
}
