package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casamapa/price-map-service/internal/domain"
)

// Querier is the subset of pgxpool.Pool the store needs. Satisfied by
// pgxmock in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store reads raw listings and canonical region names from PostgreSQL.
// It implements pipeline.ListingSource and pipeline.RegionSource.
type Store struct {
	db     Querier
	logger *slog.Logger
}

// NewStore creates a Store backed by a pgx pool.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	return &Store{db: pool, logger: logger}
}

// NewStoreWithQuerier creates a Store over any Querier, used by tests.
func NewStoreWithQuerier(db Querier, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// FetchListings returns every scraped listing row in raw textual form.
// The scraper's page column is deliberately not selected.
func (s *Store) FetchListings(ctx context.Context) ([]domain.RawListing, error) {
	const query = `SELECT title, price, location, rooms, date_scraped FROM listings`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.RawListing
	for rows.Next() {
		var title, price, rooms, dateScraped string
		var location *string // nullable in the scrape schema
		if err := rows.Scan(&title, &price, &location, &rooms, &dateScraped); err != nil {
			return nil, fmt.Errorf("scan listing row: %w", err)
		}
		raw := domain.RawListing{
			Title:       title,
			Price:       price,
			Rooms:       rooms,
			DateScraped: dateScraped,
		}
		if location != nil {
			raw.Location = *location
		}
		listings = append(listings, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}

	s.logger.Debug("fetched listings", "count", len(listings))
	return listings, nil
}

// RegionNames returns the canonical region names for a level, in table order.
// The regions table is maintained from the GADM dataset so names match the
// feature properties byte-for-byte.
func (s *Store) RegionNames(ctx context.Context, level domain.Level) ([]string, error) {
	const query = `SELECT name FROM regions WHERE level = $1 ORDER BY id`

	rows, err := s.db.Query(ctx, query, level.String())
	if err != nil {
		return nil, fmt.Errorf("query %s regions: %w", level, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan region row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s regions: %w", level, err)
	}
	return names, nil
}
