package postgres

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casamapa/price-map-service/internal/domain"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStoreWithQuerier(mock, slog.Default()), mock
}

func TestStore_FetchListings(t *testing.T) {
	t.Run("maps rows including null location", func(t *testing.T) {
		store, mock := newMockStore(t)

		loc := "Alvalade, Lisboa, Lisboa"
		mock.ExpectQuery("SELECT title, price, location, rooms, date_scraped FROM listings").
			WillReturnRows(pgxmock.NewRows([]string{"title", "price", "location", "rooms", "date_scraped"}).
				AddRow("T3 Alvalade", "450 000 €", &loc, "T3", "2024-02-01").
				AddRow("Sem localização", "100000 €", (*string)(nil), "T1", "2024-02-01"))

		listings, err := store.FetchListings(context.Background())
		require.NoError(t, err)
		require.Len(t, listings, 2)
		assert.Equal(t, "Alvalade, Lisboa, Lisboa", listings[0].Location)
		assert.Equal(t, "", listings[1].Location)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure surfaces as error", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT title, price, location, rooms, date_scraped FROM listings").
			WillReturnError(errors.New("connection refused"))

		_, err := store.FetchListings(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query listings")
	})
}

func TestStore_RegionNames(t *testing.T) {
	t.Run("queries per level", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery("SELECT name FROM regions WHERE level = \\$1 ORDER BY id").
			WithArgs("city").
			WillReturnRows(pgxmock.NewRows([]string{"name"}).
				AddRow("Lisboa").
				AddRow("Cascais"))

		names, err := store.RegionNames(context.Background(), domain.LevelCity)
		require.NoError(t, err)
		assert.Equal(t, []string{"Lisboa", "Cascais"}, names)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure surfaces as error", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT name FROM regions").
			WithArgs("state").
			WillReturnError(errors.New("relation does not exist"))

		_, err := store.RegionNames(context.Background(), domain.LevelState)
		require.Error(t, err)
	})
}
