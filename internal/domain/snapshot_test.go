package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateAt(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestLatestSnapshot(t *testing.T) {
	t.Run("keeps only most recent date", func(t *testing.T) {
		listings := []Listing{
			{Title: "old", Price: 100, DateScraped: dateAt(2024, 1, 1)},
			{Title: "new-1", Price: 200, DateScraped: dateAt(2024, 2, 1)},
			{Title: "undated", Price: 300},
			{Title: "new-2", Price: 400, DateScraped: dateAt(2024, 2, 1)},
		}

		snapshot, latest := LatestSnapshot(listings)
		require.Len(t, snapshot, 2)
		assert.Equal(t, "new-1", snapshot[0].Title)
		assert.Equal(t, "new-2", snapshot[1].Title)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), latest)
	})

	t.Run("all dates absent means no data", func(t *testing.T) {
		snapshot, latest := LatestSnapshot([]Listing{{Price: 100}, {Price: 200}})
		assert.Empty(t, snapshot)
		assert.True(t, latest.IsZero())
	})

	t.Run("empty input", func(t *testing.T) {
		snapshot, latest := LatestSnapshot(nil)
		assert.Empty(t, snapshot)
		assert.True(t, latest.IsZero())
	})

	t.Run("exact timestamp equality, no day collapsing", func(t *testing.T) {
		morning := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
		evening := time.Date(2024, 2, 1, 21, 0, 0, 0, time.UTC)
		listings := []Listing{
			{Title: "morning", DateScraped: &morning},
			{Title: "evening", DateScraped: &evening},
		}

		snapshot, latest := LatestSnapshot(listings)
		require.Len(t, snapshot, 1)
		assert.Equal(t, "evening", snapshot[0].Title)
		assert.Equal(t, evening, latest)
	})
}

func TestTruncateToDay(t *testing.T) {
	morning := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 2, 1, 21, 0, 0, 0, time.UTC)
	listings := []Listing{
		{Title: "morning", DateScraped: &morning},
		{Title: "evening", DateScraped: &evening},
		{Title: "undated"},
	}

	truncated := TruncateToDay(listings)
	snapshot, latest := LatestSnapshot(truncated)

	assert.Len(t, snapshot, 2)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), latest)

	// Input listings keep their original timestamps.
	assert.Equal(t, morning, *listings[0].DateScraped)
}
