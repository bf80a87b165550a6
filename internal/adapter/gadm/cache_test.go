package gadm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casamapa/price-map-service/internal/domain"
	"github.com/casamapa/price-map-service/internal/observability"
)

type countingSource struct {
	calls int
	names []string
	err   error
}

func (s *countingSource) RegionNames(_ context.Context, _ domain.Level) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.names, nil
}

func TestCachedProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("second lookup is served from cache", func(t *testing.T) {
		src := &countingSource{names: []string{"Lisboa", "Porto"}}
		cached := NewCachedProvider(src, time.Hour, observability.NewMetricsForTesting())

		first, err := cached.RegionNames(ctx, domain.LevelState)
		require.NoError(t, err)
		second, err := cached.RegionNames(ctx, domain.LevelState)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, src.calls)
	})

	t.Run("levels are cached independently", func(t *testing.T) {
		src := &countingSource{names: []string{"x"}}
		cached := NewCachedProvider(src, time.Hour, observability.NewMetricsForTesting())

		_, err := cached.RegionNames(ctx, domain.LevelState)
		require.NoError(t, err)
		_, err = cached.RegionNames(ctx, domain.LevelCity)
		require.NoError(t, err)

		assert.Equal(t, 2, src.calls)
	})

	t.Run("expired entry refetches", func(t *testing.T) {
		src := &countingSource{names: []string{"x"}}
		cached := NewCachedProvider(src, -time.Second, observability.NewMetricsForTesting())

		_, err := cached.RegionNames(ctx, domain.LevelState)
		require.NoError(t, err)
		_, err = cached.RegionNames(ctx, domain.LevelState)
		require.NoError(t, err)

		assert.Equal(t, 2, src.calls)
	})

	t.Run("stale entry served when refresh fails", func(t *testing.T) {
		src := &countingSource{names: []string{"Lisboa"}}
		cached := NewCachedProvider(src, -time.Second, observability.NewMetricsForTesting())

		_, err := cached.RegionNames(ctx, domain.LevelState)
		require.NoError(t, err)

		src.err = errors.New("host unreachable")
		names, err := cached.RegionNames(ctx, domain.LevelState)
		require.NoError(t, err)
		assert.Equal(t, []string{"Lisboa"}, names)
	})

	t.Run("error with no cached entry propagates", func(t *testing.T) {
		src := &countingSource{err: errors.New("host unreachable")}
		cached := NewCachedProvider(src, time.Hour, observability.NewMetricsForTesting())

		_, err := cached.RegionNames(ctx, domain.LevelState)
		require.Error(t, err)
	})
}
