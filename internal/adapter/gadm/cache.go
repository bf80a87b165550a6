package gadm

import (
	"context"
	"sync"
	"time"

	"github.com/casamapa/price-map-service/internal/domain"
	"github.com/casamapa/price-map-service/internal/observability"
	"github.com/casamapa/price-map-service/internal/pipeline"
)

// CachedProvider wraps a RegionSource with a per-level TTL cache. GADM files
// run to several megabytes and change on the dataset's release cadence, so a
// generous TTL is safe.
type CachedProvider struct {
	inner   pipeline.RegionSource
	ttl     time.Duration
	metrics *observability.Metrics

	mu      sync.Mutex
	entries map[domain.Level]cacheEntry
}

type cacheEntry struct {
	names     []string
	fetchedAt time.Time
}

// NewCachedProvider creates a cache decorator around a region source.
func NewCachedProvider(inner pipeline.RegionSource, ttl time.Duration, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		ttl:     ttl,
		metrics: metrics,
		entries: make(map[domain.Level]cacheEntry),
	}
}

func (c *CachedProvider) RegionNames(ctx context.Context, level domain.Level) ([]string, error) {
	c.mu.Lock()
	entry, ok := c.entries[level]
	c.mu.Unlock()

	if ok && time.Since(entry.fetchedAt) < c.ttl {
		c.metrics.GeographyCache.WithLabelValues(level.String(), "hit").Inc()
		return entry.names, nil
	}
	c.metrics.GeographyCache.WithLabelValues(level.String(), "miss").Inc()

	names, err := c.inner.RegionNames(ctx, level)
	if err != nil {
		// Serve a stale entry over failing outright; the canonical list
		// changes rarely and a stale list keeps reconciliation intact.
		if ok {
			return entry.names, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.entries[level] = cacheEntry{names: names, fetchedAt: time.Now()}
	c.mu.Unlock()

	return names, nil
}
