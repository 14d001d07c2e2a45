package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// initCleanupMetrics initializes background sweep metrics.
func (m *Manager) initCleanupMetrics(cfg Config) {
	m.cleanupRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cleanup_runs_total",
			Help: "Total number of cleanup sweeps by sweeper",
		},
		[]string{"sweeper"},
	)

	m.cleanupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cleanup_duration_seconds",
			Help:    "Cleanup sweep duration in seconds",
			Buckets: cfg.SweepDurationBuckets,
		},
		[]string{"sweeper"},
	)

	m.branchesPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "branches_pruned_total",
			Help: "Total number of branches removed by TTL sweeps",
		},
	)

	m.sessionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_expired_total",
			Help: "Total number of idle sessions removed by sweeps",
		},
	)

	m.activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_active_count",
			Help: "Current number of tracked sessions",
		},
	)

	m.registry.MustRegister(m.cleanupRuns)
	m.registry.MustRegister(m.cleanupDuration)
	m.registry.MustRegister(m.branchesPruned)
	m.registry.MustRegister(m.sessionsExpired)
	m.registry.MustRegister(m.activeSessions)
}

// RecordCleanupRun records one sweep execution and its duration.
func (m *Manager) RecordCleanupRun(sweeper string, duration time.Duration) {
	if !m.enabled {
		return
	}
	m.cleanupRuns.WithLabelValues(sweeper).Inc()
	m.cleanupDuration.WithLabelValues(sweeper).Observe(duration.Seconds())
}

// RecordBranchesPruned adds to the pruned branch total.
func (m *Manager) RecordBranchesPruned(count int) {
	if !m.enabled {
		return
	}
	m.branchesPruned.Add(float64(count))
}

// RecordSessionsExpired adds to the expired session total.
func (m *Manager) RecordSessionsExpired(count int) {
	if !m.enabled {
		return
	}
	m.sessionsExpired.Add(float64(count))
}

// SetActiveSessions sets the tracked session gauge.
func (m *Manager) SetActiveSessions(count float64) {
	if !m.enabled {
		return
	}
	m.activeSessions.Set(count)
}
