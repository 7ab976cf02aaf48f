package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source attempt outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// fetchBuckets spans sub-second API answers up to the longest timeout.
var fetchBuckets = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 15000, 30000} //nolint:gochecknoglobals // default buckets

// Manager owns the metrics of one process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Data source chain
	sourceAttempts      *prometheus.CounterVec
	sourceFetchDuration *prometheus.HistogramVec
	cacheWrites         *prometheus.CounterVec

	// Pipeline results
	medalRecords     prometheus.Gauge
	friends          prometheus.Gauge
	rosterRowSkipped prometheus.Counter
	topScore         prometheus.Gauge
	lastRun          prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry it
// registers on a private registry so runtime collectors stay out of exports.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "medaldraft",
		subsystem:        "run",
		histogramBuckets: fetchBuckets,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sourceAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_attempts_total",
		Help:      "Medal source attempts by source and outcome",
	}, []string{"source", "outcome"})

	m.sourceFetchDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_fetch_duration_milliseconds",
		Help:      "Duration of medal source attempts in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"source"})

	m.cacheWrites = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_writes_total",
		Help:      "Snapshot refreshes after a live fetch, by outcome",
	}, []string{"outcome"})

	m.medalRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "medal_records",
		Help:      "Countries in the registry for the last run",
	})

	m.friends = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "friends",
		Help:      "Friends scored in the last run",
	})

	m.rosterRowSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_rows_skipped_total",
		Help:      "Roster rows skipped as malformed",
	})

	m.topScore = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "top_score",
		Help:      "Points of the leading friend",
	})

	m.lastRun = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last report was written",
	})
}

// Registry returns the manager's registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric to path in the text exposition format,
// suitable for the node_exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrExportFailed, path, err)
	}
	return nil
}

// Package-level helpers over the global manager.

// RecordSourceAttempt counts one attempt of source with the given outcome.
func RecordSourceAttempt(source, outcome string) {
	globalManager.sourceAttempts.WithLabelValues(source, outcome).Inc()
}

// RecordSourceFetchDuration observes the duration of one attempt.
func RecordSourceFetchDuration(source string, d time.Duration) {
	globalManager.sourceFetchDuration.WithLabelValues(source).Observe(float64(d) / float64(time.Millisecond))
}

// RecordCacheWrite counts a snapshot refresh.
func RecordCacheWrite(outcome string) {
	globalManager.cacheWrites.WithLabelValues(outcome).Inc()
}

// RecordRosterRowSkipped counts a skipped roster row.
func RecordRosterRowSkipped() {
	globalManager.rosterRowSkipped.Inc()
}

// UpdateMedalRecords sets the registry size.
func UpdateMedalRecords(count int) {
	globalManager.medalRecords.Set(float64(count))
}

// UpdateFriends sets the number of scored friends.
func UpdateFriends(count int) {
	globalManager.friends.Set(float64(count))
}

// UpdateTopScore sets the leader's points.
func UpdateTopScore(points float64) {
	globalManager.topScore.Set(points)
}

// UpdateLastRun records when the report was written.
func UpdateLastRun(t time.Time) {
	globalManager.lastRun.Set(float64(t.Unix()))
}

// GetRegistry returns the global registry.
func GetRegistry() *prometheus.Registry {
	return globalManager.registry
}

// WriteTextfile exports the global registry to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}
