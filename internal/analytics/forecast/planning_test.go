package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanProduction(t *testing.T) {
	f := &DemandForecast{
		ProductID:       "bolos-chocolate",
		ConfidenceScore: 0.8,
		ForecastPoints: []ForecastPoint{
			{ExpectedQuantity: 10, LowerBound: 8, UpperBound: 12},
			{ExpectedQuantity: 20, LowerBound: 16, UpperBound: 24},
			{ExpectedQuantity: 30, LowerBound: 24, UpperBound: 36},
		},
	}

	plan := PlanProduction(f, 2, 1.1)
	assert.Equal(t, "bolos-chocolate", plan.ProductID)
	assert.Equal(t, 2, plan.Days)
	assert.Equal(t, 30, plan.ExpectedDemand)
	assert.Equal(t, 36, plan.UpperDemand)
	assert.Equal(t, 36, plan.RecommendedUnits)

	plan = PlanProduction(f, 10, 1.5)
	assert.Equal(t, 3, plan.Days)
	assert.Equal(t, 60, plan.ExpectedDemand)
	assert.Equal(t, 90, plan.RecommendedUnits)

	plan = PlanProduction(f, 1, 0.5)
	assert.Equal(t, 5, plan.RecommendedUnits)

	plan = PlanProduction(f, 1, 0)
	assert.Equal(t, 1.0, plan.SafetyFactor)
	assert.Equal(t, 12, plan.RecommendedUnits)
}

func TestPlanProduction_NilForecast(t *testing.T) {
	plan := PlanProduction(nil, 7, 1.2)
	assert.Empty(t, plan.ProductID)
	assert.Zero(t, plan.RecommendedUnits)
}
