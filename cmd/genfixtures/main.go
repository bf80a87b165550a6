// Command genfixtures reads a scraper CSV export and generates JSON fixtures
// for the test suites. It runs the actual normalization code so the fixture
// output matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genfixtures \
//	  -csv data/raw_listings.csv \
//	  -raw-out data/mock/listings_raw.json \
//	  -normalized-out data/mock/listings_normalized.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/casamapa/price-map-service/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "scraper CSV export (title,price,location,rooms,date_scraped[,page])")
	rawOut := flag.String("raw-out", "", "output path for the raw listings JSON fixture")
	normalizedOut := flag.String("normalized-out", "", "output path for the normalized listings JSON fixture")
	flag.Parse()

	if *csvPath == "" || *rawOut == "" || *normalizedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv, -raw-out, -normalized-out")
	}

	raws, err := readCSV(*csvPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *csvPath, err)
	}
	log.Printf("read %d raw listings", len(raws))

	listings, stats := domain.NormalizeAll(raws)
	log.Printf("normalized %d listings (dropped %d: %d price-on-request, %d malformed)",
		len(listings), stats.Total(), stats.PriceOnRequest, stats.MalformedPrice)

	if err := writeJSON(*rawOut, raws); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if err := writeJSON(*normalizedOut, listings); err != nil {
		return fmt.Errorf("writing normalized fixture: %w", err)
	}
	log.Printf("wrote normalized fixture: %s", *normalizedOut)

	return nil
}

// readCSV loads a scraper export, resolving columns by header name so column
// order changes in the scraper do not break fixture generation.
func readCSV(path string) ([]domain.RawListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("empty CSV")
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, required := range []string{"title", "price", "location", "rooms", "date_scraped"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i := col[name]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	raws := make([]domain.RawListing, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raws = append(raws, domain.RawListing{
			Title:       field(row, "title"),
			Price:       field(row, "price"),
			Location:    field(row, "location"),
			Rooms:       field(row, "rooms"),
			DateScraped: field(row, "date_scraped"),
			// The page column, when present, is deliberately not carried over.
		})
	}
	return raws, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
