package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// initThinkingMetrics initializes thought pipeline metrics.
func (m *Manager) initThinkingMetrics(cfg Config) {
	m.thoughtSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thought_submissions_total",
			Help: "Total number of thought submissions by status",
		},
		[]string{"status"},
	)

	m.thoughtRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thought_rejections_total",
			Help: "Total number of rejected thoughts by error kind",
		},
		[]string{"kind"},
	)

	m.submitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thought_submit_duration_seconds",
			Help:    "Thought submission latency in seconds",
			Buckets: cfg.SubmitDurationBuckets,
		},
		[]string{},
	)

	m.historySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "thought_history_size",
			Help: "Current number of thoughts retained in history",
		},
	)

	m.branchCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "thought_branch_count",
			Help: "Current number of live branches",
		},
	)

	m.registry.MustRegister(m.thoughtSubmissions)
	m.registry.MustRegister(m.thoughtRejections)
	m.registry.MustRegister(m.submitDuration)
	m.registry.MustRegister(m.historySize)
	m.registry.MustRegister(m.branchCount)
}

// RecordThoughtSubmission records a thought submission outcome.
func (m *Manager) RecordThoughtSubmission(status string) {
	if !m.enabled {
		return
	}
	m.thoughtSubmissions.WithLabelValues(status).Inc()
}

// RecordThoughtRejection records a rejected thought by error kind.
func (m *Manager) RecordThoughtRejection(kind string) {
	if !m.enabled {
		return
	}
	m.thoughtRejections.WithLabelValues(kind).Inc()
}

// RecordSubmitDuration records thought submission latency.
func (m *Manager) RecordSubmitDuration(duration time.Duration) {
	if !m.enabled {
		return
	}
	m.submitDuration.WithLabelValues().Observe(duration.Seconds())
}

// SetHistorySize sets the current history occupancy.
func (m *Manager) SetHistorySize(size float64) {
	if !m.enabled {
		return
	}
	m.historySize.Set(size)
}

// SetBranchCount sets the current number of live branches.
func (m *Manager) SetBranchCount(count float64) {
	if !m.enabled {
		return
	}
	m.branchCount.Set(count)
}
