package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MaintenanceMetrics records metadata for ledger maintenance passes.
type MaintenanceMetrics struct {
	duration     *prometheus.HistogramVec
	runs         *prometheus.CounterVec
	rebuilt      prometheus.Counter
	reclassified prometheus.Counter
	rewrites     prometheus.Counter
}

// NewMaintenanceMetrics registers the maintenance metrics on the provided registerer.
func NewMaintenanceMetrics(reg prometheus.Registerer) *MaintenanceMetrics {
	if reg == nil {
		return &MaintenanceMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_maintenance_duration_seconds",
		Help:    "Duration of ledger maintenance passes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"pass"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_maintenance_runs_total",
		Help: "Maintenance pass executions by outcome.",
	}, []string{"pass", "outcome"})
	rebuilt := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_records_rebuilt_total",
		Help: "Records inserted by full ledger rebuilds.",
	})
	reclassified := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_records_reclassified_total",
		Help: "Records moved between materials by rebalancing.",
	})
	rewrites := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_normalization_rewrites_total",
		Help: "Material labels rewritten in place by normalization sweeps.",
	})
	reg.MustRegister(duration, runs, rebuilt, reclassified, rewrites)
	return &MaintenanceMetrics{
		duration:     duration,
		runs:         runs,
		rebuilt:      rebuilt,
		reclassified: reclassified,
		rewrites:     rewrites,
	}
}

// ObserveDuration records the duration for the named pass.
func (m *MaintenanceMetrics) ObserveDuration(pass string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(pass)).Observe(duration.Seconds())
}

// IncRun increments the run counter for the named pass and outcome.
func (m *MaintenanceMetrics) IncRun(pass, outcome string) {
	if m == nil || m.runs == nil {
		return
	}
	m.runs.WithLabelValues(normalizeLabel(pass), normalizeLabel(outcome)).Inc()
}

// AddRebuilt adds to the rebuilt-records counter.
func (m *MaintenanceMetrics) AddRebuilt(count int) {
	if m == nil || m.rebuilt == nil {
		return
	}
	m.rebuilt.Add(float64(count))
}

// AddReclassified adds to the reclassified-records counter.
func (m *MaintenanceMetrics) AddReclassified(count int) {
	if m == nil || m.reclassified == nil {
		return
	}
	m.reclassified.Add(float64(count))
}

// AddRewrites adds to the normalization rewrite counter.
func (m *MaintenanceMetrics) AddRewrites(count int) {
	if m == nil || m.rewrites == nil {
		return
	}
	m.rewrites.Add(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
