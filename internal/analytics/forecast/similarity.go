package forecast

import (
	"fmt"
	"math"
	"sort"
)

// SimilarityThreshold is the similarity a product must exceed to join a group
const SimilarityThreshold = 0.7

// ProductGroup is a set of products with similarly shaped forecasts
type ProductGroup struct {
	Name       string   `json:"name"`
	ProductIDs []string `json:"product_ids"`
}

// Grouping is the result of a similarity pass
type Grouping []ProductGroup

// Map returns the grouping keyed by group name
func (g Grouping) Map() map[string][]string {
	out := make(map[string][]string, len(g))
	for _, group := range g {
		out[group.Name] = append([]string(nil), group.ProductIDs...)
	}
	return out
}

// GroupBySimilarity clusters forecasts greedily in product id order. Each
// unassigned product opens a new group that absorbs every later unassigned
// product whose similarity exceeds SimilarityThreshold.
func GroupBySimilarity(forecasts map[string]*DemandForecast) Grouping {
	ids := make([]string, 0, len(forecasts))
	for id, f := range forecasts {
		if f != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	curves := make(map[string][]float64, len(ids))
	for _, id := range ids {
		curves[id] = forecasts[id].ExpectedQuantities()
	}

	assigned := make(map[string]bool, len(ids))
	groups := make(Grouping, 0)

	for i, id := range ids {
		if assigned[id] {
			continue
		}
		assigned[id] = true
		group := ProductGroup{
			Name:       fmt.Sprintf("Group %d", len(groups)+1),
			ProductIDs: []string{id},
		}

		for _, other := range ids[i+1:] {
			if assigned[other] {
				continue
			}
			if Similarity(curves[id], curves[other]) > SimilarityThreshold {
				assigned[other] = true
				group.ProductIDs = append(group.ProductIDs, other)
			}
		}

		groups = append(groups, group)
	}

	return groups
}

// Similarity compares two demand curves by shape: each is scaled by its own
// maximum and the root-mean-square distance d gives max(0, 1-d). Curves of
// different length have similarity 0.
func Similarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	na := normalizeByMax(a)
	nb := normalizeByMax(b)

	sum := 0.0
	for i := range na {
		diff := na[i] - nb[i]
		sum += diff * diff
	}
	distance := math.Sqrt(sum / float64(len(na)))

	return math.Max(0, 1-distance)
}

// normalizeByMax divides by the curve maximum; a curve without a positive
// maximum is returned as zeros.
func normalizeByMax(values []float64) []float64 {
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}

	out := make([]float64, len(values))
	if peak <= 0 {
		return out
	}
	for i, v := range values {
		out[i] = v / peak
	}
	return out
}
