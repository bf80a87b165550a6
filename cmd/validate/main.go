// Command validate performs integrity checks across the mock data fixtures:
// the scraper CSV, the raw JSON fixture, and the normalized JSON fixture. It
// verifies row counts, exclusion accounting, normalization invariants, and
// cross-fixture consistency.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv data/raw_listings.csv \
//	  -raw-json data/mock/listings_raw.json \
//	  -normalized-json data/mock/listings_normalized.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/casamapa/price-map-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "scraper CSV export")
	rawJSON := flag.String("raw-json", "", "path to the raw listings JSON fixture")
	normalizedJSON := flag.String("normalized-json", "", "path to the normalized listings JSON fixture")
	flag.Parse()

	if *csvPath == "" || *rawJSON == "" || *normalizedJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *rawJSON, *normalizedJSON); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath, rawJSONPath, normalizedJSONPath string) int {
	fmt.Println("=== Listing Fixture Integrity Validation ===")
	fmt.Println()

	csvRows, err := countCSVRows(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}

	raws, err := loadJSON[domain.RawListing](rawJSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
		return 1
	}

	normalized, err := loadJSON[domain.Listing](normalizedJSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load normalized JSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		checkCounts(csvRows, raws, normalized),
		checkNormalization(raws, normalized),
		checkInvariants(normalized),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      - %s\n", e)
		}
	}

	fmt.Println()
	if failed > 0 {
		fmt.Printf("%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("all %d phases passed\n", len(phases))
	return 0
}

// checkCounts verifies the raw fixture matches the CSV row count and that
// normalization accounting adds up.
func checkCounts(csvRows int, raws []domain.RawListing, normalized []domain.Listing) *phase {
	p := &phase{name: "row counts"}

	if len(raws) != csvRows {
		p.errorf("raw fixture has %d rows, CSV has %d", len(raws), csvRows)
	}

	_, stats := domain.NormalizeAll(raws)
	expected := len(raws) - stats.Total()
	if len(normalized) != expected {
		p.errorf("normalized fixture has %d rows, expected %d (%d raw - %d dropped)",
			len(normalized), expected, len(raws), stats.Total())
	}
	return p
}

// checkNormalization re-runs the real normalization and compares against the
// stored fixture row by row.
func checkNormalization(raws []domain.RawListing, normalized []domain.Listing) *phase {
	p := &phase{name: "normalization matches fixture"}

	fresh, _ := domain.NormalizeAll(raws)
	if len(fresh) != len(normalized) {
		p.errorf("recomputed %d rows, fixture has %d", len(fresh), len(normalized))
		return p
	}

	for i := range fresh {
		if fresh[i].Price != normalized[i].Price {
			p.errorf("row %d: price %v != fixture %v", i, fresh[i].Price, normalized[i].Price)
		}
		if fresh[i].State != normalized[i].State || fresh[i].City != normalized[i].City {
			p.errorf("row %d: location (%q,%q) != fixture (%q,%q)",
				i, fresh[i].State, fresh[i].City, normalized[i].State, normalized[i].City)
		}
	}
	return p
}

// checkInvariants verifies domain invariants over the normalized fixture.
func checkInvariants(normalized []domain.Listing) *phase {
	p := &phase{name: "normalized invariants"}

	for i, l := range normalized {
		if l.Price < 0 {
			p.errorf("row %d: negative price %v", i, l.Price)
		}
		if l.Rooms != nil && *l.Rooms < 0 {
			p.errorf("row %d: negative rooms %v", i, *l.Rooms)
		}
		if l.Neighborhood != "" && (l.City == "" || l.State == "") {
			p.errorf("row %d: neighborhood %q without city/state", i, l.Neighborhood)
		}
	}
	return p
}

func countCSVRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, errors.New("empty CSV")
	}
	return len(rows) - 1, nil // minus header
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
