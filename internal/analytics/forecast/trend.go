package forecast

import (
	"math"

	"github.com/soltixdb/demandcast/internal/analytics"
)

// FitOutcome names how the trend regression resolved
type FitOutcome string

const (
	FitOK               FitOutcome = "ok"
	FitInsufficientData FitOutcome = "insufficient_data" // fewer than two points
	FitZeroVariance     FitOutcome = "zero_variance"     // constant series, R² undefined
)

// Trend is the result of the least-squares trend estimation
type Trend struct {
	Slope       float64    // Raw slope in units per observation
	Intercept   float64    // Value at index 0
	Coefficient float64    // Slope normalized to [-1,1]
	RSquared    float64    // Goodness of fit, clamped to [0,1]
	Fit         FitOutcome // How the fit resolved
}

// EstimateTrend regresses quantity against the positional index of a
// date-sorted series.
func EstimateTrend(series analytics.SalesSeries) Trend {
	if len(series) < 2 {
		return Trend{Fit: FitInsufficientData}
	}

	n := float64(len(series))

	// Calculate sums for linear regression
	sumX := 0.0
	sumY := 0.0
	sumXY := 0.0
	sumX2 := 0.0

	for i, o := range series {
		x := float64(i)
		y := float64(o.Quantity)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	// Indices are distinct, so the denominator is positive for n >= 2
	denominator := n*sumX2 - sumX*sumX
	slope := (n*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	ssTotal := 0.0
	ssResidual := 0.0
	for i, o := range series {
		y := float64(o.Quantity)
		fitted := intercept + slope*float64(i)
		ssTotal += (y - meanY) * (y - meanY)
		ssResidual += (y - fitted) * (y - fitted)
	}

	trend := Trend{
		Slope:       slope,
		Intercept:   intercept,
		Coefficient: slope / math.Max(1, math.Abs(slope)),
		Fit:         FitOK,
	}

	if ssTotal == 0 {
		trend.Fit = FitZeroVariance
		return trend
	}

	trend.RSquared = clamp(1-ssResidual/ssTotal, 0, 1)
	return trend
}

// ProductTrend converts the estimate into the cached per-product form
func (t Trend) ProductTrend(productID string) ProductTrend {
	return ProductTrend{
		ProductID:        productID,
		TrendCoefficient: t.Coefficient,
		ConfidenceScore:  t.RSquared,
		Fit:              t.Fit,
	}
}
