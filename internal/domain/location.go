package domain

import "strings"

// LocationParts is the positional decomposition of a free-text location.
// The portal writes locations as "neighborhood, city, state" with the
// administrative region always last, so splitting on commas the last segment
// is the state, the second-to-last the city, and any leading segments joined
// back together form the neighborhood.
type LocationParts struct {
	Neighborhood string
	City         string
	State        string

	// Complete is false when the location had fewer than two segments and
	// the city (and possibly state) could not be derived.
	Complete bool
}

// SplitLocation decomposes a raw location string. A nil/empty location yields
// the zero value. Never errors: an underspecified location is a tagged
// Complete=false outcome, not a failure.
func SplitLocation(raw string) LocationParts {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LocationParts{}
	}

	segments := strings.Split(raw, ",")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	if len(segments) < 2 {
		// Single segment: assume it names the state and leave the rest empty.
		return LocationParts{State: segments[0]}
	}

	return LocationParts{
		Neighborhood: strings.Join(segments[:len(segments)-2], ", "),
		City:         segments[len(segments)-2],
		State:        segments[len(segments)-1],
		Complete:     true,
	}
}
