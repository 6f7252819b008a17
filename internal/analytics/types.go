// Package analytics provides the shared sales observation types used by the
// forecasting and anomaly packages.
package analytics

import (
	"math"
	"sort"
	"time"
)

// SalesObservation is one historical sales record for a product on a day.
type SalesObservation struct {
	ProductID string    `json:"product_id"`
	Date      time.Time `json:"date"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

// SalesSeries is a collection of observations, usually for a single product.
type SalesSeries []SalesObservation

// ForProduct returns a new series with only the observations of productID.
func (s SalesSeries) ForProduct(productID string) SalesSeries {
	out := make(SalesSeries, 0)
	for _, o := range s {
		if o.ProductID == productID {
			out = append(out, o)
		}
	}
	return out
}

// Sorted returns a copy of the series ordered by date ascending.
// Observations sharing a date keep their input order.
func (s SalesSeries) Sorted() SalesSeries {
	out := make(SalesSeries, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Since returns the observations dated on or after cutoff.
func (s SalesSeries) Since(cutoff time.Time) SalesSeries {
	out := make(SalesSeries, 0, len(s))
	for _, o := range s {
		if !o.Date.Before(cutoff) {
			out = append(out, o)
		}
	}
	return out
}

// Quantities extracts the quantities as float64 values
func (s SalesSeries) Quantities() []float64 {
	values := make([]float64, len(s))
	for i, o := range s {
		values[i] = float64(o.Quantity)
	}
	return values
}

// Prices extracts the unit prices
func (s SalesSeries) Prices() []float64 {
	values := make([]float64, len(s))
	for i, o := range s {
		values[i] = o.UnitPrice
	}
	return values
}

// Len returns the number of observations
func (s SalesSeries) Len() int {
	return len(s)
}

// Last returns the most recent observation of a sorted series.
func (s SalesSeries) Last() (SalesObservation, bool) {
	if len(s) == 0 {
		return SalesObservation{}, false
	}
	return s[len(s)-1], true
}

// ProductIDs returns the distinct product ids in first-seen order.
func (s SalesSeries) ProductIDs() []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, o := range s {
		if !seen[o.ProductID] {
			seen[o.ProductID] = true
			ids = append(ids, o.ProductID)
		}
	}
	return ids
}

// MeanStdDev returns the mean and population standard deviation of values.
// An empty slice yields 0, 0.
func MeanStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	var varianceSum float64
	for _, v := range values {
		diff := v - mean
		varianceSum += diff * diff
	}
	stdDev = math.Sqrt(varianceSum / float64(len(values)))

	return mean, stdDev
}

// Pearson returns the Pearson correlation coefficient of x and y.
// It returns 0 when the slices differ in length, are empty, or either has no variance.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}

	n := float64(len(x))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 || math.IsNaN(denominator) {
		return 0
	}

	return numerator / denominator
}

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
