package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// price-map pipeline.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec // labels: level, outcome={ok,degraded,error}
	RecordsFetched  prometheus.Counter
	RecordsExcluded *prometheus.CounterVec // labels: reason={price_on_request,malformed_price}
	RegionMismatch  prometheus.Counter
	RunDuration     prometheus.Histogram
	SnapshotSize    prometheus.Histogram
	TablesPublished prometheus.Counter

	// Reference geography metrics.
	GeographyFetches      *prometheus.CounterVec // labels: level, outcome={success,error}
	GeographyFetchSeconds prometheus.Histogram
	GeographyCache        *prometheus.CounterVec // labels: level, result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "runs_total",
			Help:      "Pipeline runs by hierarchy level and outcome.",
		}, []string{"level", "outcome"}),
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "records_fetched_total",
			Help:      "Raw listing rows fetched from the listing source.",
		}),
		RecordsExcluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "records_excluded_total",
			Help:      "Listings excluded during normalization, by reason.",
		}, []string{"reason"}),
		RegionMismatch: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "region_mismatch_total",
			Help:      "Aggregate rows dropped because their region is not in the canonical list.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "price_map",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-aggregate-reconcile run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		SnapshotSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "price_map",
			Name:      "snapshot_size",
			Help:      "Number of listings in the selected snapshot per run.",
			Buckets:   []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		TablesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "tables_published_total",
			Help:      "Reconciled tables published to the sink topic.",
		}),
		GeographyFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "geography_fetches_total",
			Help:      "Reference geography fetches by level and outcome.",
		}, []string{"level", "outcome"}),
		GeographyFetchSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "price_map",
			Name:      "geography_fetch_duration_seconds",
			Help:      "GADM feature collection fetch duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeographyCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "geography_cache_total",
			Help:      "Reference geography cache lookups by level and result.",
		}, []string{"level", "result"}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RecordsFetched,
		m.RecordsExcluded,
		m.RegionMismatch,
		m.RunDuration,
		m.SnapshotSize,
		m.TablesPublished,
		m.GeographyFetches,
		m.GeographyFetchSeconds,
		m.GeographyCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "price_map", Name: "runs_total"}, []string{"level", "outcome"}),
		RecordsFetched:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "price_map", Name: "records_fetched_total"}),
		RecordsExcluded:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "price_map", Name: "records_excluded_total"}, []string{"reason"}),
		RegionMismatch:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "price_map", Name: "region_mismatch_total"}),
		RunDuration:           prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "price_map", Name: "run_duration_seconds"}),
		SnapshotSize:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "price_map", Name: "snapshot_size"}),
		TablesPublished:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "price_map", Name: "tables_published_total"}),
		GeographyFetches:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "price_map", Name: "geography_fetches_total"}, []string{"level", "outcome"}),
		GeographyFetchSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "price_map", Name: "geography_fetch_duration_seconds"}),
		GeographyCache:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "price_map", Name: "geography_cache_total"}, []string{"level", "result"}),
	}
}
