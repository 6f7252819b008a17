package forecast

import (
	"math"
	"time"

	"github.com/soltixdb/demandcast/internal/analytics"
)

// Influence factor names
const (
	FactorTrend            = "historical_trend"
	FactorPriceSensitivity = "price_sensitivity"
	seasonalFactorPrefix   = "seasonal:"
)

const (
	// MinPriceObservations is the minimum series length for price correlation
	MinPriceObservations = 10
	// PriceCorrelationThreshold is the |r| above which price sensitivity is reported
	PriceCorrelationThreshold = 0.3
)

// SeasonalFactorLabel is the influence label for a configured seasonal factor
func SeasonalFactorLabel(name string) string {
	return seasonalFactorPrefix + name
}

// InfluenceInput carries what the analyzer reads
type InfluenceInput struct {
	ProductID string
	Trend     *ProductTrend // nil when no trend is known for the product
	Series    analytics.SalesSeries
	Factors   []SeasonalFactor
	Now       time.Time
}

// AnalyzeInfluence lists the named drivers of demand: trend first, then
// seasonal factors active within the next month, then price sensitivity.
func AnalyzeInfluence(in InfluenceInput) []InfluenceFactor {
	factors := make([]InfluenceFactor, 0)

	if in.Trend != nil {
		factors = append(factors, InfluenceFactor{
			Factor: FactorTrend,
			Impact: clamp(in.Trend.TrendCoefficient, -1, 1),
		})
	}

	category := CategoryOf(in.ProductID)
	windowStart := dayNumber(in.Now)
	windowEnd := dayNumber(in.Now.AddDate(0, 1, 0))
	for _, f := range in.Factors {
		if dayNumber(f.StartDate) > windowEnd || dayNumber(f.EndDate) < windowStart {
			continue
		}
		if !f.AppliesTo(category) {
			continue
		}
		factors = append(factors, InfluenceFactor{
			Factor: SeasonalFactorLabel(f.Name),
			Impact: clamp(f.ImpactMultiplier-1, -1, 1),
		})
	}

	if len(in.Series) >= MinPriceObservations {
		r := analytics.Pearson(in.Series.Prices(), in.Series.Quantities())
		if math.Abs(r) > PriceCorrelationThreshold {
			factors = append(factors, InfluenceFactor{
				Factor: FactorPriceSensitivity,
				Impact: -r,
			})
		}
	}

	return factors
}
