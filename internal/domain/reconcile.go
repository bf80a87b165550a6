package domain

// Reconcile left-joins the canonical region list with aggregate rows: every
// canonical region appears exactly once, with its aggregate average price or
// zero when no listings referenced it.
//
// The canonical list is deduplicated, preserving first-seen order. The
// canonical list is authoritative for which regions exist: aggregate rows
// whose region is not in it are dropped and counted in the returned mismatch
// total so the drop stays observable.
func Reconcile(canonical []string, aggregates []RegionAverage) ([]RegionAverage, int) {
	byRegion := make(map[string]float64, len(aggregates))
	for _, a := range aggregates {
		byRegion[a.Region] = a.AvgPrice
	}

	seen := make(map[string]struct{}, len(canonical))
	table := make([]RegionAverage, 0, len(canonical))

	for _, region := range canonical {
		if _, dup := seen[region]; dup {
			continue
		}
		seen[region] = struct{}{}
		table = append(table, RegionAverage{Region: region, AvgPrice: byRegion[region]})
	}

	mismatches := 0
	for _, a := range aggregates {
		if _, ok := seen[a.Region]; !ok {
			mismatches++
		}
	}

	return table, mismatches
}
