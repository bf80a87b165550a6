package domain

import (
	"math"
	"sort"
)

// AverageByRegion groups a snapshot by the level's region field and computes
// the mean price per region, rounded half-up to two decimals.
//
// Listings whose region field is empty cannot be attributed and are dropped.
// Rows are returned sorted by region name; callers must not rely on any
// particular order beyond determinism.
func AverageByRegion(listings []Listing, level Level) []RegionAverage {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[string]*acc)

	for _, l := range listings {
		key := level.GroupKey(l)
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		g.sum += l.Price
		g.count++
	}

	rows := make([]RegionAverage, 0, len(groups))
	for region, g := range groups {
		rows = append(rows, RegionAverage{
			Region:   region,
			AvgPrice: roundHalfUp(g.sum / float64(g.count)),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Region < rows[j].Region })
	return rows
}

// roundHalfUp rounds to two decimals with ties away from zero,
// e.g. 100.005 -> 100.01. Prices are non-negative so the negative-tie
// asymmetry of Floor never applies.
func roundHalfUp(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
