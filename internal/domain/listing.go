package domain

import (
	"fmt"
	"time"
)

// RawListing is one scraped listing row as exported by the collector,
// every field still in its raw textual form.
type RawListing struct {
	Title       string `json:"title"`
	Price       string `json:"price"`
	Location    string `json:"location"`
	Rooms       string `json:"rooms"`
	DateScraped string `json:"date_scraped"`
	Page        string `json:"page,omitempty"` // scraper pagination artifact, discarded
}

// Listing is the typed view of a listing after normalization.
type Listing struct {
	Title        string     `json:"title"`
	Price        float64    `json:"price"`
	Rooms        *float64   `json:"rooms,omitempty"`
	State        string     `json:"state"`
	City         string     `json:"city"`
	Neighborhood string     `json:"neighborhood,omitempty"`
	DateScraped  *time.Time `json:"date_scraped,omitempty"`
}

// Level selects the administrative granularity used for grouping and for
// matching against the GADM feature collection.
type Level int

const (
	LevelState Level = iota + 1
	LevelCity
	LevelNeighborhood
)

// ParseLevel maps a request parameter to a Level. Accepts the level names
// and the GADM numeric shorthand ("1", "2", "3").
func ParseLevel(s string) (Level, error) {
	switch s {
	case "state", "district", "1":
		return LevelState, nil
	case "city", "municipality", "2":
		return LevelCity, nil
	case "neighborhood", "parish", "3":
		return LevelNeighborhood, nil
	default:
		return 0, fmt.Errorf("unknown hierarchy level %q", s)
	}
}

func (l Level) String() string {
	switch l {
	case LevelState:
		return "state"
	case LevelCity:
		return "city"
	case LevelNeighborhood:
		return "neighborhood"
	default:
		return "unknown"
	}
}

// Valid reports whether l is one of the three defined levels.
func (l Level) Valid() bool {
	return l >= LevelState && l <= LevelNeighborhood
}

// GADMProperty returns the feature property that carries region names for
// this level in GADM 4.1 feature collections.
func (l Level) GADMProperty() string {
	switch l {
	case LevelState:
		return "NAME_1"
	case LevelCity:
		return "NAME_2"
	case LevelNeighborhood:
		return "NAME_3"
	default:
		return ""
	}
}

// GroupKey returns the listing field this level groups by. An empty key means
// the listing cannot be attributed to a region at this level.
func (l Level) GroupKey(li Listing) string {
	switch l {
	case LevelState:
		return li.State
	case LevelCity:
		return li.City
	case LevelNeighborhood:
		return li.Neighborhood
	default:
		return ""
	}
}

// RegionAverage is one row of the per-region price table.
type RegionAverage struct {
	Region   string  `json:"region"`
	AvgPrice float64 `json:"avg_price"`
}
