package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// initMCTSMetrics initializes suggestion engine metrics.
func (m *Manager) initMCTSMetrics(cfg Config) {
	m.suggestions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcts_suggestions_total",
			Help: "Total number of branch suggestions by strategy",
		},
		[]string{"strategy"},
	)

	m.suggestionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mcts_suggestion_duration_seconds",
			Help:    "Branch suggestion latency in seconds",
			Buckets: cfg.SuggestionLatencyBuckets,
		},
		[]string{"strategy"},
	)

	m.outcomesRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mcts_outcomes_recorded_total",
			Help: "Total number of outcome rewards backpropagated into the tree",
		},
	)

	m.treeNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mcts_tree_node_count",
			Help: "Current number of nodes in the reasoning tree",
		},
	)

	m.treeDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mcts_tree_max_depth",
			Help: "Current maximum depth of the reasoning tree",
		},
	)

	m.registry.MustRegister(m.suggestions)
	m.registry.MustRegister(m.suggestionLatency)
	m.registry.MustRegister(m.outcomesRecorded)
	m.registry.MustRegister(m.treeNodes)
	m.registry.MustRegister(m.treeDepth)
}

// RecordSuggestion records one suggestion request and its latency.
func (m *Manager) RecordSuggestion(strategy string, duration time.Duration) {
	if !m.enabled {
		return
	}
	m.suggestions.WithLabelValues(strategy).Inc()
	m.suggestionLatency.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordOutcomeRecorded records one reward backpropagation.
func (m *Manager) RecordOutcomeRecorded() {
	if !m.enabled {
		return
	}
	m.outcomesRecorded.Inc()
}

// SetTreeSize sets the reasoning tree occupancy gauges.
func (m *Manager) SetTreeSize(nodes, maxDepth float64) {
	if !m.enabled {
		return
	}
	m.treeNodes.Set(nodes)
	m.treeDepth.Set(maxDepth)
}
