// Package metrics provides Prometheus metrics for the courtside feature pipeline.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultStageBuckets covers stage latencies from sub-millisecond to a minute.
var defaultStageBuckets = []float64{0.5, 1, 5, 10, 50, 100, 250, 500, 1000, 5000, 15000, 60000} //nolint:gochecknoglobals // default buckets

// Manager manages all Prometheus metrics for a pipeline run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Volume
	observationsIngested prometheus.Counter
	duplicatesDropped    prometheus.Counter
	stageRows            *prometheus.GaugeVec
	stageLatency         *prometheus.HistogramVec

	// Data quality
	structuralIssues *prometheus.CounterVec
	neutralGames     prometheus.Counter
	gamesRemoved     *prometheus.GaugeVec
	nullCells        *prometheus.GaugeVec

	// Outcome
	runs             *prometheus.CounterVec
	lastRunTimestamp prometheus.Gauge
	outputRows       prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics in batch exports.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "courtside",
		subsystem:        "pipeline",
		histogramBuckets: defaultStageBuckets,
		constLabels:      make(map[string]string),
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

	m.observationsIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "observations_ingested_total",
		Help:        "Team-game observations read from the input table",
		ConstLabels: m.constLabels,
	})

	m.duplicatesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duplicate_observations_total",
		Help:        "Exact duplicate (game, team) observations dropped at ingestion",
		ConstLabels: m.constLabels,
	})

	m.stageRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_rows",
		Help:        "Rows produced by each pipeline stage in the last run",
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.stageLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_latency_milliseconds",
		Help:        "Wall time spent in each pipeline stage",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.structuralIssues = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "structural_issues_total",
		Help:        "Games that could not be reshaped, by issue kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.neutralGames = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "neutral_venue_games_total",
		Help:        "Games resolved with the neutral-venue tie-break",
		ConstLabels: m.constLabels,
	})

	m.gamesRemoved = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "season_boundary_removed_games",
		Help:        "Games removed by the season-boundary filter, per season",
		ConstLabels: m.constLabels,
	}, []string{"season"})

	m.nullCells = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "null_cells",
		Help:        "Null feature cells remaining after each stage",
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Pipeline runs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.lastRunTimestamp = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time the last run finished",
		ConstLabels: m.constLabels,
	})

	m.outputRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "output_rows",
		Help:        "Training rows written by the last successful run",
		ConstLabels: m.constLabels,
	})
}

// Registry returns the registry the manager's collectors live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the manager's metrics in the node-exporter textfile format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

// RecordObservations adds ingested observation count.
func RecordObservations(n int) {
	globalManager.observationsIngested.Add(float64(n))
}

// RecordDuplicates adds dropped duplicate observation count.
func RecordDuplicates(n int) {
	globalManager.duplicatesDropped.Add(float64(n))
}

// RecordStage records rows produced and latency for a stage.
func RecordStage(stage string, rows int, latencyMs float64) {
	globalManager.stageRows.WithLabelValues(stage).Set(float64(rows))
	globalManager.stageLatency.WithLabelValues(stage).Observe(latencyMs)
}

// RecordStructuralIssue increments the structural issue counter for kind.
func RecordStructuralIssue(kind string, n int) {
	globalManager.structuralIssues.WithLabelValues(kind).Add(float64(n))
}

// RecordNeutralGames adds neutral-venue games resolved by tie-break.
func RecordNeutralGames(n int) {
	globalManager.neutralGames.Add(float64(n))
}

// UpdateGamesRemoved sets the boundary-filter removal count for season.
func UpdateGamesRemoved(season string, n int) {
	globalManager.gamesRemoved.WithLabelValues(season).Set(float64(n))
}

// UpdateNullCells sets the null cell count observed after stage.
func UpdateNullCells(stage string, n int) {
	globalManager.nullCells.WithLabelValues(stage).Set(float64(n))
}

// RecordRun records a finished run with the given outcome and unix timestamp.
func RecordRun(outcome string, finishedUnix int64) {
	globalManager.runs.WithLabelValues(outcome).Inc()
	globalManager.lastRunTimestamp.Set(float64(finishedUnix))
}

// UpdateOutputRows sets the number of rows written by the last run.
func UpdateOutputRows(n int) {
	globalManager.outputRows.Set(float64(n))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile exports the global metrics to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}
