package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
)

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("-03:00", -3*3600)

	d, err := ParseDate("2024-12-25", loc)
	require.NoError(t, err)
	assert.Equal(t, 25, d.Day())
	assert.Equal(t, loc, d.Location())

	d, err = ParseDate("2024-12-25T10:00:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseDate("25/12/2024", loc)
	assert.Error(t, err)
}

func TestToObservations(t *testing.T) {
	obs, err := ToObservations([]ObservationRequest{
		{ProductID: "A", Date: "2024-01-01", Quantity: 10, UnitPrice: 5.5},
	}, time.UTC)
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, forecast.Observation{
		ProductID: "A",
		Date:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Quantity:  10,
		UnitPrice: 5.5,
	}, obs[0])

	tests := []struct {
		name string
		in   ObservationRequest
	}{
		{"missing product", ObservationRequest{Date: "2024-01-01"}},
		{"bad date", ObservationRequest{ProductID: "A", Date: "yesterday"}},
		{"negative quantity", ObservationRequest{ProductID: "A", Date: "2024-01-01", Quantity: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToObservations([]ObservationRequest{tt.in}, time.UTC)
			assert.Error(t, err)
		})
	}
}

func TestConfigUpdateRequest(t *testing.T) {
	alpha := 0.3
	factors := []SeasonalFactorRequest{{
		Name:             "Natal",
		StartDate:        "2024-12-01",
		EndDate:          "2024-12-25",
		ImpactMultiplier: 1.8,
	}}

	update, err := ConfigUpdateRequest{SmoothingAlpha: &alpha, SeasonalFactors: &factors}.ToConfigUpdate(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, &alpha, update.SmoothingAlpha)
	assert.Nil(t, update.SmoothingBeta)
	require.NotNil(t, update.SeasonalFactors)
	assert.Equal(t, time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), (*update.SeasonalFactors)[0].EndDate)

	bad := []SeasonalFactorRequest{{Name: "x", StartDate: "soon", EndDate: "2024-12-25"}}
	_, err = ConfigUpdateRequest{SeasonalFactors: &bad}.ToConfigUpdate(time.UTC)
	assert.Error(t, err)
}

func TestExternalFactorsRequest(t *testing.T) {
	factors, err := ExternalFactorsRequest{Factors: []ExternalFactorRequest{{
		Type:             "weather",
		Name:             "rain",
		Date:             "2024-02-10",
		ImpactMultiplier: 0.9,
	}}}.ToExternalFactors(time.UTC)
	require.NoError(t, err)
	require.Len(t, factors, 1)
	assert.Equal(t, forecast.ExternalWeather, factors[0].Type)

	_, err = ExternalFactorsRequest{Factors: []ExternalFactorRequest{{Date: "x"}}}.ToExternalFactors(time.UTC)
	assert.Error(t, err)
}
