package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eosindex_runs_total",
		Help: "Total number of indexing runs by result.",
	}, []string{"result"})

	PhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eosindex_phase_seconds",
		Help:    "Time spent in each phase of an indexing run.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	HeadersLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eosindex_headers_loaded",
		Help: "Number of header files loaded by the last run.",
	})

	Declarations = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "eosindex_declarations",
		Help: "Number of declarations indexed by the last successful run, by kind.",
	}, []string{"kind"})

	OutputBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eosindex_output_bytes",
		Help: "Size of the last encoded index document.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eosindex_watcher_events_total",
		Help: "Total number of header change batches received by the watcher.",
	})

	ReindexThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eosindex_reindex_throttled_total",
		Help: "Total number of change batches that waited on the re-index limiter.",
	})
)

const (
	PhaseLoad    = "load"
	PhaseOrder   = "order"
	PhaseExtract = "extract"
	PhaseWrite   = "write"
	PhaseTotal   = "total"

	ResultOK    = "ok"
	ResultError = "error"
)
