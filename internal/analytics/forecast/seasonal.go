package forecast

import (
	"strings"
	"time"
)

// CategorySeparator splits the category prefix from the rest of a product id
const CategorySeparator = "-"

// CategoryOf returns the category key of a product id: the text before the
// first separator, or the whole id when there is none.
func CategoryOf(productID string) string {
	category, _, _ := strings.Cut(productID, CategorySeparator)
	return category
}

// ExternalFactorType classifies single-day external influences
type ExternalFactorType string

const (
	ExternalWeather ExternalFactorType = "weather"
	ExternalHoliday ExternalFactorType = "holiday"
	ExternalEvent   ExternalFactorType = "event"
)

// ExternalFactor is a one-day demand multiplier supplied by a collaborator
// (weather forecast, holiday calendar). It applies to every category.
type ExternalFactor struct {
	Type             ExternalFactorType `json:"type"`
	Name             string             `json:"name"`
	Date             time.Time          `json:"date"`
	ImpactMultiplier float64            `json:"impact_multiplier"`
	Description      string             `json:"description,omitempty"`
}

// Resolver computes the calendar multiplier for a date and category
type Resolver struct {
	factors  []SeasonalFactor
	external []ExternalFactor
}

// NewResolver creates a resolver over the given factors
func NewResolver(factors []SeasonalFactor, external []ExternalFactor) *Resolver {
	return &Resolver{factors: factors, external: external}
}

// Multiplier returns the product of every applicable impact multiplier.
// Overlapping factors compound.
func (r *Resolver) Multiplier(date time.Time, category string) float64 {
	multiplier := 1.0

	for _, f := range r.factors {
		if f.Covers(date) && f.AppliesTo(category) {
			multiplier *= f.ImpactMultiplier
		}
	}

	day := dayNumber(date)
	for _, f := range r.external {
		if f.ImpactMultiplier > 0 && dayNumber(f.Date) == day {
			multiplier *= f.ImpactMultiplier
		}
	}

	return multiplier
}

// dayNumber maps the calendar date of t, read in its own location, to a day count
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
