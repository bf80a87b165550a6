package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/casamapa/price-map-service/internal/domain"
	"github.com/casamapa/price-map-service/internal/observability"
)

// ListingSource fetches raw listing rows from the system of record.
type ListingSource interface {
	FetchListings(ctx context.Context) ([]domain.RawListing, error)
}

// RegionSource returns the canonical, deduplicated region names for a
// hierarchy level, independent of listing data. Must be callable per level.
type RegionSource interface {
	RegionNames(ctx context.Context, level domain.Level) ([]string, error)
}

// TablePublisher pushes a finished result to downstream consumers.
type TablePublisher interface {
	PublishTable(ctx context.Context, result Result) error
}

// RunStats carries the per-run diagnostic counts.
type RunStats struct {
	Fetched        int `json:"fetched"`
	PriceOnRequest int `json:"price_on_request"`
	MalformedPrice int `json:"malformed_price"`
	SnapshotSize   int `json:"snapshot_size"`
	RegionMismatch int `json:"region_mismatch"`
}

// Result is the output contract to the presentation layer: one row per
// canonical region (unless Degraded), the snapshot's representative date for
// labeling, and the hierarchy level actually used.
type Result struct {
	Level        domain.Level           `json:"-"`
	LevelName    string                 `json:"level"`
	Regions      []domain.RegionAverage `json:"regions"`
	SnapshotDate time.Time              `json:"snapshot_date"`

	// Degraded is true when the canonical region source was unavailable and
	// Regions holds the raw aggregate rows without the zero-fill guarantee.
	Degraded bool `json:"degraded"`

	GeneratedAt time.Time `json:"generated_at"`
	Stats       RunStats  `json:"stats"`
}

// Pipeline runs the fetch-normalize-snapshot-aggregate-reconcile sequence.
// It holds no mutable state between runs; concurrent runs at different levels
// are independent.
type Pipeline struct {
	listings      ListingSource
	regions       RegionSource
	publisher     TablePublisher // optional
	logger        *slog.Logger
	metrics       *observability.Metrics
	truncateToDay bool
	ready         atomic.Bool
}

// Option configures optional pipeline behavior.
type Option func(*Pipeline)

// WithPublisher attaches a sink that receives every successful result.
// Publish failures are logged, never fatal to the run.
func WithPublisher(pub TablePublisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithDayGranularity truncates scrape timestamps to midnight UTC before
// snapshot selection, collapsing intra-day scrape runs into one snapshot.
func WithDayGranularity() Option {
	return func(p *Pipeline) { p.truncateToDay = true }
}

// New creates a Pipeline with the given sources and observability.
func New(listings ListingSource, regions RegionSource, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		listings: listings,
		regions:  regions,
		logger:   logger,
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once the pipeline has completed at least one run,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Run executes one complete pipeline pass for the given level.
//
// Source failures are recoverable: a failed listing fetch yields an empty
// (zero-filled) table, a failed region fetch yields a degraded result built
// from the aggregates alone. Run returns an error only for an invalid level
// or a cancelled context.
func (p *Pipeline) Run(ctx context.Context, level domain.Level) (Result, error) {
	if !level.Valid() {
		return Result{}, fmt.Errorf("invalid hierarchy level %d", int(level))
	}

	start := time.Now()
	runLog := p.logger.With("run_id", uuid.NewString(), "level", level.String())

	raws, listingsOK := p.fetchListings(ctx, runLog)
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	listings, drops := domain.NormalizeAll(raws)
	if p.truncateToDay {
		listings = domain.TruncateToDay(listings)
	}
	snapshot, snapshotDate := domain.LatestSnapshot(listings)
	aggregates := domain.AverageByRegion(snapshot, level)

	result := Result{
		Level:        level,
		LevelName:    level.String(),
		SnapshotDate: snapshotDate,
		GeneratedAt:  domain.Now(),
		Stats: RunStats{
			Fetched:        len(raws),
			PriceOnRequest: drops.PriceOnRequest,
			MalformedPrice: drops.MalformedPrice,
			SnapshotSize:   len(snapshot),
		},
	}

	canonical, err := p.regions.RegionNames(ctx, level)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		// Degraded mode: no canonical list, no zero-fill guarantee.
		runLog.Error("region source unavailable, returning unreconciled aggregates", "error", err)
		result.Regions = aggregates
		result.Degraded = true
	} else {
		table, mismatches := domain.Reconcile(canonical, aggregates)
		result.Regions = table
		result.Stats.RegionMismatch = mismatches
		if mismatches > 0 {
			runLog.Warn("aggregate regions missing from canonical list", "count", mismatches)
			p.metrics.RegionMismatch.Add(float64(mismatches))
		}
	}

	p.observe(result, listingsOK, time.Since(start))
	p.ready.Store(true)

	runLog.Info("pipeline run complete",
		"fetched", result.Stats.Fetched,
		"excluded", drops.Total(),
		"snapshot_size", result.Stats.SnapshotSize,
		"snapshot_date", snapshotDate,
		"regions", len(result.Regions),
		"degraded", result.Degraded,
	)

	if p.publisher != nil {
		if err := p.publisher.PublishTable(ctx, result); err != nil {
			runLog.Warn("publish table failed", "error", err)
		} else {
			p.metrics.TablesPublished.Inc()
		}
	}

	return result, nil
}

// fetchListings retrieves raw rows, degrading to an empty set on source failure.
func (p *Pipeline) fetchListings(ctx context.Context, runLog *slog.Logger) ([]domain.RawListing, bool) {
	raws, err := p.listings.FetchListings(ctx)
	if err != nil {
		runLog.Error("listing source unavailable, continuing with empty record set", "error", err)
		return nil, false
	}
	p.metrics.RecordsFetched.Add(float64(len(raws)))
	return raws, true
}

func (p *Pipeline) observe(result Result, listingsOK bool, elapsed time.Duration) {
	outcome := "ok"
	switch {
	case result.Degraded:
		outcome = "degraded"
	case !listingsOK:
		outcome = "listings_failed"
	}
	p.metrics.RunsTotal.WithLabelValues(result.LevelName, outcome).Inc()
	p.metrics.RecordsExcluded.WithLabelValues("price_on_request").Add(float64(result.Stats.PriceOnRequest))
	p.metrics.RecordsExcluded.WithLabelValues("malformed_price").Add(float64(result.Stats.MalformedPrice))
	p.metrics.SnapshotSize.Observe(float64(result.Stats.SnapshotSize))
	p.metrics.RunDuration.Observe(elapsed.Seconds())
}
