package forecast

import "math"

// ProductionPlan is the demand to cover over the first days of a forecast
type ProductionPlan struct {
	ProductID        string  `json:"product_id"`
	Days             int     `json:"days"`
	ExpectedDemand   int     `json:"expected_demand"`
	UpperDemand      int     `json:"upper_demand"`
	SafetyFactor     float64 `json:"safety_factor"`
	RecommendedUnits int     `json:"recommended_units"`
	ConfidenceScore  float64 `json:"confidence_score"`
}

// PlanProduction sums the first days of the forecast. RecommendedUnits is the
// expected demand scaled by safetyFactor, never below the summed upper bound
// when safetyFactor is at least 1. A non-positive safetyFactor means 1.
// Days beyond the horizon are ignored.
func PlanProduction(f *DemandForecast, days int, safetyFactor float64) ProductionPlan {
	if safetyFactor <= 0 {
		safetyFactor = 1
	}
	plan := ProductionPlan{SafetyFactor: safetyFactor}
	if f == nil {
		return plan
	}
	plan.ProductID = f.ProductID
	plan.ConfidenceScore = f.ConfidenceScore

	if days > len(f.ForecastPoints) {
		days = len(f.ForecastPoints)
	}
	if days < 0 {
		days = 0
	}
	plan.Days = days

	for _, p := range f.ForecastPoints[:days] {
		plan.ExpectedDemand += p.ExpectedQuantity
		plan.UpperDemand += p.UpperBound
	}

	// Tolerance keeps 30*1.1 from rounding up to 34
	recommended := int(math.Ceil(float64(plan.ExpectedDemand)*safetyFactor - 1e-9))
	if safetyFactor >= 1 && recommended < plan.UpperDemand {
		recommended = plan.UpperDemand
	}
	plan.RecommendedUnits = recommended
	return plan
}
