package domain

import "time"

// LatestSnapshot restricts a normalized record set to the listings whose
// scrape date equals the maximum scrape date present. Listings without a
// parseable date never enter the maximum computation and are never selected.
//
// Returns (nil, zero time) when the input is empty or no listing has a date;
// callers must treat that as "no data", not an error.
//
// Selection compares exact timestamps. When several timestamps in one batch
// represent the same logical day, truncate first (see TruncateToDay).
func LatestSnapshot(listings []Listing) ([]Listing, time.Time) {
	var latest time.Time
	for _, l := range listings {
		if l.DateScraped != nil && l.DateScraped.After(latest) {
			latest = *l.DateScraped
		}
	}
	if latest.IsZero() {
		return nil, time.Time{}
	}

	var snapshot []Listing
	for _, l := range listings {
		if l.DateScraped != nil && l.DateScraped.Equal(latest) {
			snapshot = append(snapshot, l)
		}
	}
	return snapshot, latest
}

// TruncateToDay rewrites every scrape date to midnight UTC so that scrapes
// spread across one day collapse into a single snapshot.
func TruncateToDay(listings []Listing) []Listing {
	out := make([]Listing, len(listings))
	for i, l := range listings {
		if l.DateScraped != nil {
			day := l.DateScraped.UTC().Truncate(24 * time.Hour)
			l.DateScraped = &day
		}
		out[i] = l
	}
	return out
}
