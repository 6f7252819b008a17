package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 365, cfg.HistoryWindowDays)
	assert.Equal(t, 90, cfg.ForecastHorizonDays)
	assert.Equal(t, 30, cfg.MinimumDataPoints)
	assert.Equal(t, 0.2, cfg.SmoothingAlpha)
	assert.Equal(t, 0.1, cfg.SmoothingBeta)
	assert.Equal(t, 0.1, cfg.SmoothingGamma)
	assert.Equal(t, 2.5, cfg.OutlierDetectionThreshold)
	assert.Empty(t, cfg.SeasonalFactors)
	assert.NoError(t, cfg.Validate())
}

func TestStore_UpdateConfigMerges(t *testing.T) {
	store := NewDefaultStore()

	cfg, err := store.UpdateConfig(ConfigUpdate{
		ForecastHorizonDays: intPtr(30),
		SmoothingAlpha:      floatPtr(0.5),
	})
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.ForecastHorizonDays)
	assert.Equal(t, 0.5, cfg.SmoothingAlpha)
	assert.Equal(t, 30, cfg.MinimumDataPoints)
	assert.Equal(t, 0.1, cfg.SmoothingBeta)
	assert.Equal(t, cfg, store.Config())
}

func TestStore_UpdateConfigRejectsInvalid(t *testing.T) {
	store := NewDefaultStore()

	tests := []ConfigUpdate{
		{SmoothingAlpha: floatPtr(1.5)},
		{SmoothingGamma: floatPtr(-0.1)},
		{ForecastHorizonDays: intPtr(0)},
		{MinimumDataPoints: intPtr(0)},
		{OutlierDetectionThreshold: floatPtr(0)},
		{HistoryWindowDays: intPtr(-1)},
		{ForecastHorizonDays: intPtr(1 << 30)},
		{ForecastHorizonDays: intPtr(MaxForecastHorizonDays + 1)},
		{HistoryWindowDays: intPtr(MaxHistoryWindowDays + 1)},
	}

	for _, update := range tests {
		_, err := store.UpdateConfig(update)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	}
	assert.Equal(t, DefaultConfig(), store.Config())
}

func TestStore_UpdateConfigAcceptsBounds(t *testing.T) {
	store := NewDefaultStore()

	cfg, err := store.UpdateConfig(ConfigUpdate{
		ForecastHorizonDays: intPtr(MaxForecastHorizonDays),
		HistoryWindowDays:   intPtr(MaxHistoryWindowDays),
	})
	require.NoError(t, err)
	assert.Equal(t, MaxForecastHorizonDays, cfg.ForecastHorizonDays)
	assert.Equal(t, MaxHistoryWindowDays, cfg.HistoryWindowDays)
}

func TestStore_AddSeasonalFactorReplacesByName(t *testing.T) {
	store := NewDefaultStore()

	first := christmasFactor()
	require.NoError(t, store.AddSeasonalFactor(first))

	second := christmasFactor()
	second.ImpactMultiplier = 2.0
	require.NoError(t, store.AddSeasonalFactor(second))

	factors := store.Config().SeasonalFactors
	require.Len(t, factors, 1)
	assert.Equal(t, 2.0, factors[0].ImpactMultiplier)
}

func TestStore_AddSeasonalFactorValidates(t *testing.T) {
	store := NewDefaultStore()

	bad := christmasFactor()
	bad.EndDate = bad.StartDate.Add(-24 * time.Hour)

	assert.ErrorIs(t, store.AddSeasonalFactor(bad), ErrInvalidSeasonalFactor)
	assert.Empty(t, store.Config().SeasonalFactors)
}

func TestStore_RemoveSeasonalFactor(t *testing.T) {
	store := NewDefaultStore()
	require.NoError(t, store.AddSeasonalFactor(christmasFactor()))

	assert.False(t, store.RemoveSeasonalFactor("missing"))
	assert.True(t, store.RemoveSeasonalFactor("X"))
	assert.Empty(t, store.Config().SeasonalFactors)
}

func TestStore_ConfigIsASnapshot(t *testing.T) {
	store := NewDefaultStore()
	require.NoError(t, store.AddSeasonalFactor(christmasFactor()))

	cfg := store.Config()
	cfg.SeasonalFactors[0].AffectedCategories[0] = "tortas"
	cfg.SeasonalFactors = append(cfg.SeasonalFactors, SeasonalFactor{Name: "other"})

	fresh := store.Config()
	require.Len(t, fresh.SeasonalFactors, 1)
	assert.Equal(t, []string{"bolos"}, fresh.SeasonalFactors[0].AffectedCategories)
}

func TestNewStore_DedupesFactors(t *testing.T) {
	cfg := DefaultConfig()
	a := christmasFactor()
	b := christmasFactor()
	b.ImpactMultiplier = 1.2
	cfg.SeasonalFactors = []SeasonalFactor{a, b}

	store, err := NewStore(cfg)
	require.NoError(t, err)

	factors := store.Config().SeasonalFactors
	require.Len(t, factors, 1)
	assert.Equal(t, 1.2, factors[0].ImpactMultiplier)
}

func TestStore_ReplaceRejectsInvalid(t *testing.T) {
	store := NewDefaultStore()
	cfg := DefaultConfig()
	cfg.SmoothingBeta = 2

	assert.ErrorIs(t, store.Replace(cfg), ErrInvalidConfig)
	assert.Equal(t, 0.1, store.Config().SmoothingBeta)
}

func TestStore_ExternalFactorsAreCopied(t *testing.T) {
	store := NewDefaultStore()
	factors := []ExternalFactor{{Type: ExternalEvent, Name: "fair", Date: testStart, ImpactMultiplier: 1.4}}
	store.SetExternalFactors(factors)
	factors[0].Name = "changed"

	got := store.ExternalFactors()
	require.Len(t, got, 1)
	assert.Equal(t, "fair", got[0].Name)
}
