package forecast

import "time"

// EasterSunday returns the Gregorian Easter date for year (Meeus/Butcher)
func EasterSunday(year int, loc *time.Location) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}

// MothersDay returns the second Sunday of May
func MothersDay(year int, loc *time.Location) time.Time {
	first := time.Date(year, time.May, 1, 0, 0, 0, 0, loc)
	offset := (7 - int(first.Weekday())) % 7
	return first.AddDate(0, 0, offset+7)
}

// DefaultSeasonalFactors returns the bakery calendar for year
func DefaultSeasonalFactors(year int, loc *time.Location) []SeasonalFactor {
	easter := EasterSunday(year, loc)
	mothers := MothersDay(year, loc)

	return []SeasonalFactor{
		{
			Name:               "christmas",
			StartDate:          time.Date(year, time.December, 1, 0, 0, 0, 0, loc),
			EndDate:            time.Date(year, time.December, 25, 0, 0, 0, 0, loc),
			ImpactMultiplier:   1.8,
			AffectedCategories: []string{"bolos", "doces", "tortas"},
		},
		{
			Name:               "easter",
			StartDate:          easter.AddDate(0, 0, -15),
			EndDate:            easter.AddDate(0, 0, 1),
			ImpactMultiplier:   1.5,
			AffectedCategories: []string{"chocolates", "doces", "bolos"},
		},
		{
			Name:               "mothers_day",
			StartDate:          mothers.AddDate(0, 0, -7),
			EndDate:            mothers,
			ImpactMultiplier:   1.4,
			AffectedCategories: []string{"bolos", "tortas", "doces"},
		},
		{
			Name:               "summer_holidays",
			StartDate:          time.Date(year, time.January, 2, 0, 0, 0, 0, loc),
			EndDate:            time.Date(year, time.February, 28, 0, 0, 0, 0, loc),
			ImpactMultiplier:   1.3,
			AffectedCategories: []string{"sorvetes", "mousses", "bebidas"},
		},
		{
			Name:               "back_to_school",
			StartDate:          time.Date(year, time.February, 15, 0, 0, 0, 0, loc),
			EndDate:            time.Date(year, time.March, 15, 0, 0, 0, 0, loc),
			ImpactMultiplier:   1.2,
			AffectedCategories: []string{"lanches", "snacks", "cookies"},
		},
	}
}
