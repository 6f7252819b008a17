package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func christmasFactor() SeasonalFactor {
	return SeasonalFactor{
		Name:               "X",
		StartDate:          date(2024, time.December, 1),
		EndDate:            date(2024, time.December, 25),
		ImpactMultiplier:   1.8,
		AffectedCategories: []string{"bolos"},
	}
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, "bolos", CategoryOf("bolos-chocolate"))
	assert.Equal(t, "bolos", CategoryOf("bolos-chocolate-grande"))
	assert.Equal(t, "pao", CategoryOf("pao"))
	assert.Equal(t, "", CategoryOf(""))
}

func TestResolver_CategoryScopedFactor(t *testing.T) {
	r := NewResolver([]SeasonalFactor{christmasFactor()}, nil)

	assert.InDelta(t, 1.8, r.Multiplier(date(2024, time.December, 10), "bolos"), 1e-12)
	assert.InDelta(t, 1.0, r.Multiplier(date(2024, time.December, 10), "tortas"), 1e-12)
	assert.InDelta(t, 1.0, r.Multiplier(date(2024, time.December, 26), "bolos"), 1e-12)
	assert.InDelta(t, 1.0, r.Multiplier(date(2024, time.December, 26), "tortas"), 1e-12)
}

func TestResolver_EndDateIsInclusive(t *testing.T) {
	r := NewResolver([]SeasonalFactor{christmasFactor()}, nil)

	lateOnLastDay := time.Date(2024, time.December, 25, 23, 30, 0, 0, time.UTC)
	assert.InDelta(t, 1.8, r.Multiplier(lateOnLastDay, "bolos"), 1e-12)
	assert.InDelta(t, 1.8, r.Multiplier(date(2024, time.December, 1), "bolos"), 1e-12)
	assert.InDelta(t, 1.0, r.Multiplier(date(2024, time.November, 30), "bolos"), 1e-12)
}

func TestResolver_OverlappingFactorsCompound(t *testing.T) {
	r := NewResolver([]SeasonalFactor{
		{Name: "a", StartDate: date(2024, time.March, 1), EndDate: date(2024, time.March, 31), ImpactMultiplier: 1.5},
		{Name: "b", StartDate: date(2024, time.March, 10), EndDate: date(2024, time.March, 20), ImpactMultiplier: 1.2},
	}, nil)

	assert.InDelta(t, 1.8, r.Multiplier(date(2024, time.March, 15), "doces"), 1e-12)
	assert.InDelta(t, 1.5, r.Multiplier(date(2024, time.March, 5), "doces"), 1e-12)
}

func TestResolver_ExternalFactorsApplyOnTheirDay(t *testing.T) {
	r := NewResolver(nil, []ExternalFactor{
		{Type: ExternalWeather, Name: "heatwave", Date: date(2024, time.January, 10), ImpactMultiplier: 1.3},
		{Type: ExternalHoliday, Name: "ignored", Date: date(2024, time.January, 10), ImpactMultiplier: 0},
	})

	assert.InDelta(t, 1.3, r.Multiplier(date(2024, time.January, 10).Add(15*time.Hour), "sorvetes"), 1e-12)
	assert.InDelta(t, 1.0, r.Multiplier(date(2024, time.January, 11), "sorvetes"), 1e-12)
}

func TestSeasonalFactor_Validate(t *testing.T) {
	assert.NoError(t, christmasFactor().Validate())

	reversed := christmasFactor()
	reversed.StartDate, reversed.EndDate = reversed.EndDate, reversed.StartDate
	assert.ErrorIs(t, reversed.Validate(), ErrInvalidSeasonalFactor)

	noName := christmasFactor()
	noName.Name = ""
	assert.ErrorIs(t, noName.Validate(), ErrInvalidSeasonalFactor)

	zero := christmasFactor()
	zero.ImpactMultiplier = 0
	assert.ErrorIs(t, zero.Validate(), ErrInvalidSeasonalFactor)
}

func TestSeasonalFactor_AppliesToAllWhenUnscoped(t *testing.T) {
	f := SeasonalFactor{Name: "all", ImpactMultiplier: 1.1}
	assert.True(t, f.AppliesTo("anything"))
	assert.True(t, christmasFactor().AppliesTo("bolos"))
	assert.False(t, christmasFactor().AppliesTo("tortas"))
}
