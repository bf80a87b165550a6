package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrPriceOnRequest marks a listing advertised without a numeric price.
// Such listings are excluded from all downstream processing.
var ErrPriceOnRequest = errors.New("price on request")

// ErrMalformedPrice marks a price field that survived the strip table but
// still failed to parse as a non-negative number.
var ErrMalformedPrice = errors.New("malformed price")

// priceOnRequestSentinel is the portal's phrase for listings without an
// advertised price.
const priceOnRequestSentinel = "Preço sob consulta"

// priceStrip is the declarative set of noise sequences removed from a raw
// price before parsing, applied in one pass so adding a new noisy symbol
// cannot introduce an order-of-operations bug.
var priceStrip = strings.NewReplacer(
	" ", "", // non-breaking space
	" ", "", // narrow non-breaking space
	"€", "",
	",", "", // thousands separator
	" ", "",
)

// roomsRe captures the first contiguous run of decimal digits, e.g. "T3" -> "3".
var roomsRe = regexp.MustCompile(`\d+`)

// dateLayouts are tried in order when parsing the scrape timestamp.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DropStats counts listings excluded during normalization, broken down by
// reason. Exposed so callers can surface the counts as diagnostics.
type DropStats struct {
	PriceOnRequest int
	MalformedPrice int
}

// Total returns the number of listings dropped for any reason.
func (s DropStats) Total() int {
	return s.PriceOnRequest + s.MalformedPrice
}

// Normalize converts a raw listing into its typed form.
//
// It returns ErrPriceOnRequest when the price field carries the portal's
// "price on request" sentinel and a wrapped ErrMalformedPrice when the price
// cannot be parsed; both mean the listing is excluded. Rooms and scrape date
// are lenient: an unparseable value becomes absent, never an error.
func Normalize(raw RawListing) (Listing, error) {
	price, err := NormalizePrice(raw.Price)
	if err != nil {
		return Listing{}, err
	}

	parts := SplitLocation(raw.Location)

	return Listing{
		Title:        strings.TrimSpace(raw.Title),
		Price:        price,
		Rooms:        NormalizeRooms(raw.Rooms),
		State:        parts.State,
		City:         parts.City,
		Neighborhood: parts.Neighborhood,
		DateScraped:  NormalizeDate(raw.DateScraped),
	}, nil
}

// NormalizeAll normalizes a batch, silently skipping excluded listings and
// returning per-reason drop counts. Individual bad records never abort the batch.
func NormalizeAll(raws []RawListing) ([]Listing, DropStats) {
	listings := make([]Listing, 0, len(raws))
	var stats DropStats

	for _, raw := range raws {
		listing, err := Normalize(raw)
		switch {
		case errors.Is(err, ErrPriceOnRequest):
			stats.PriceOnRequest++
		case err != nil:
			stats.MalformedPrice++
		default:
			listings = append(listings, listing)
		}
	}

	return listings, stats
}

// NormalizePrice strips currency and locale noise from a raw price and parses
// it as a non-negative number. Zero is accepted (a listing may legitimately
// advertise 0 during promotions); negative values are rejected as malformed.
func NormalizePrice(raw string) (float64, error) {
	if strings.Contains(raw, priceOnRequestSentinel) {
		return 0, ErrPriceOnRequest
	}

	cleaned := strings.TrimSpace(priceStrip.Replace(raw))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", raw, ErrMalformedPrice)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price %q: %w", raw, ErrMalformedPrice)
	}
	return v, nil
}

// NormalizeRooms extracts the first run of digits from a raw rooms field,
// e.g. "T3" or "3 quartos" -> 3. Returns nil when no digits are present.
func NormalizeRooms(raw string) *float64 {
	match := roomsRe.FindString(raw)
	if match == "" {
		return nil
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &v
}

// NormalizeDate parses the scrape timestamp, trying each known layout.
// Returns nil on failure: a listing without a parseable date can never equal
// the snapshot maximum and so never enters a snapshot.
func NormalizeDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
