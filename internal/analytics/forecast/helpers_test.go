package forecast

import "time"

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// dailySeries builds one observation per day starting at testStart
func dailySeries(productID string, quantities []int) []Observation {
	series := make([]Observation, len(quantities))
	for i, q := range quantities {
		series[i] = Observation{
			ProductID: productID,
			Date:      testStart.AddDate(0, 0, i),
			Quantity:  q,
			UnitPrice: 10,
		}
	}
	return series
}

func constantQuantities(n, q int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = q
	}
	return out
}

func rampQuantities(n, start, step int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i*step
	}
	return out
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
