package forecast

import (
	"math"
	"time"

	"github.com/soltixdb/demandcast/internal/analytics"
)

// Confidence sub-score weights, summing to 1
const (
	WeightVolume      = 0.30
	WeightConsistency = 0.25
	WeightTrend       = 0.25
	WeightRecency     = 0.20

	// RecencyHorizonDays is the age at which the recency score reaches zero
	RecencyHorizonDays = 30.0

	// IntervalTrendConfidence is the trend confidence used when sizing
	// forecast intervals, independent of the series' own R².
	IntervalTrendConfidence = 0.7
)

// ConsistencyOutcome names how the consistency sub-score resolved
type ConsistencyOutcome string

const (
	ConsistencyOK       ConsistencyOutcome = "ok"
	ConsistencyZeroMean ConsistencyOutcome = "zero_mean" // CoV undefined, scored 0
	ConsistencyNoData   ConsistencyOutcome = "no_data"
)

// ConfidenceBreakdown holds each weighted sub-score and their total
type ConfidenceBreakdown struct {
	Volume             float64            `json:"volume"`
	Consistency        float64            `json:"consistency"`
	ConsistencyOutcome ConsistencyOutcome `json:"consistency_outcome"`
	Trend              float64            `json:"trend"`
	Recency            float64            `json:"recency"`
	Score              float64            `json:"score"`
}

// ScoreConfidence combines data volume, consistency, trend fit and recency
// into a single score in [0,1]. The series must be sorted by date.
func ScoreConfidence(series analytics.SalesSeries, trendConfidence float64, minimumDataPoints int, now time.Time) ConfidenceBreakdown {
	var b ConfidenceBreakdown

	if minimumDataPoints > 0 {
		b.Volume = math.Min(1, float64(len(series))/float64(2*minimumDataPoints))
	} else if len(series) > 0 {
		b.Volume = 1
	}

	b.Consistency, b.ConsistencyOutcome = consistencyScore(series.Quantities())
	b.Trend = clamp(trendConfidence, 0, 1)

	if last, ok := series.Last(); ok {
		daysSince := now.Sub(last.Date).Hours() / 24
		b.Recency = clamp(1-daysSince/RecencyHorizonDays, 0, 1)
	}

	b.Score = WeightVolume*b.Volume +
		WeightConsistency*b.Consistency +
		WeightTrend*b.Trend +
		WeightRecency*b.Recency
	return b
}

func consistencyScore(quantities []float64) (float64, ConsistencyOutcome) {
	if len(quantities) == 0 {
		return 0, ConsistencyNoData
	}

	mean, stdDev := analytics.MeanStdDev(quantities)
	if mean == 0 {
		return 0, ConsistencyZeroMean
	}

	cov := stdDev / mean
	return math.Max(0, 1-math.Min(1, cov/2)), ConsistencyOK
}
