package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEasterSunday(t *testing.T) {
	tests := map[int]time.Time{
		2019: date(2019, time.April, 21),
		2024: date(2024, time.March, 31),
		2025: date(2025, time.April, 20),
		2026: date(2026, time.April, 5),
	}
	for year, want := range tests {
		assert.Equal(t, want, EasterSunday(year, time.UTC), "year %d", year)
	}
}

func TestMothersDay(t *testing.T) {
	assert.Equal(t, date(2024, time.May, 12), MothersDay(2024, time.UTC))
	assert.Equal(t, date(2025, time.May, 11), MothersDay(2025, time.UTC))
	assert.Equal(t, date(2026, time.May, 10), MothersDay(2026, time.UTC))
	assert.Equal(t, time.Sunday, MothersDay(2027, time.UTC).Weekday())
}

func TestDefaultSeasonalFactors(t *testing.T) {
	factors := DefaultSeasonalFactors(2024, time.UTC)
	assert.Len(t, factors, 5)

	names := make(map[string]bool)
	for _, f := range factors {
		assert.NoError(t, f.Validate(), f.Name)
		names[f.Name] = true
	}
	assert.True(t, names["christmas"])
	assert.True(t, names["easter"])

	r := NewResolver(factors, nil)
	assert.InDelta(t, 1.8, r.Multiplier(date(2024, time.December, 20), "bolos"), 1e-12)
	// Easter 2024 overlaps nothing else for chocolates
	assert.InDelta(t, 1.5, r.Multiplier(date(2024, time.March, 25), "chocolates"), 1e-12)
}
