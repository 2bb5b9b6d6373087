package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Traffic: объем ингеста
	BatchesReceived prometheus.Counter
	EventsStored    *prometheus.CounterVec
	EventsDropped   prometheus.Counter
	BatchSize       prometheus.Histogram

	// Latency: сколько занимает кластеризация уровня
	ClusterDuration prometheus.Histogram

	// Errors: отказ хранилища (ингест и аналитические чтения)
	StoreErrors *prometheus.CounterVec

	// Эффективность кэша результатов кластеризации
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern — если рег не передан, используем локальный,
	// который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		BatchesReceived: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "playtrace_ingest_batches_total",
			Help: "Total number of ingest batches received.",
		}),
		EventsStored: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "playtrace_events_stored_total",
			Help: "Total number of canonical events committed, by event type.",
		}, []string{"event_type"}),
		EventsDropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "playtrace_events_dropped_total",
			Help: "Total number of malformed batch entries dropped at validation.",
		}),
		BatchSize: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "playtrace_ingest_batch_size",
			Help:    "Distribution of candidate entries per ingest batch.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		ClusterDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "playtrace_cluster_duration_seconds",
			Help:    "Histogram of zone clustering latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		StoreErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "playtrace_store_errors_total",
			Help: "Total number of event store failures by operation.",
		}, []string{"op"}), // op: insert_batch, query_positions, query_events, count_by_type
		CacheHits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "playtrace_zone_cache_hits_total",
			Help: "Zone analysis results served from cache.",
		}),
		CacheMisses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "playtrace_zone_cache_misses_total",
			Help: "Zone analysis cache lookups that fell through to recompute.",
		}),
	}
}
