package metrics

import "github.com/prometheus/client_golang/prometheus"

func (m *Manager) initEventStreamMetrics() {
	m.eventBusPublish = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_bus_publish_total",
			Help: "Total event bus publish attempts by status",
		},
		[]string{"status"},
	)

	m.eventBusRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "event_bus_publish_retries_total",
			Help: "Total number of event-bus publish retries",
		},
	)

	m.eventBusDegraded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_bus_degraded",
			Help: "Whether event-bus path is currently in degraded mode (1=degraded)",
		},
	)

	m.eventBusOutages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "event_bus_outages_total",
			Help: "Total event-bus outage transitions",
		},
	)

	m.eventBusRecoveries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "event_bus_recoveries_total",
			Help: "Total event-bus recovery transitions",
		},
	)

	m.eventsBroadcast = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_broadcast_total",
			Help: "Total events fanned out to websocket subscribers by type",
		},
		[]string{"event_type"},
	)

	m.wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_active_connections",
			Help: "Current number of websocket subscribers",
		},
	)

	m.wsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_events_dropped_total",
			Help: "Total events dropped on slow websocket subscribers",
		},
	)

	m.registry.MustRegister(m.eventBusPublish)
	m.registry.MustRegister(m.eventBusRetries)
	m.registry.MustRegister(m.eventBusDegraded)
	m.registry.MustRegister(m.eventBusOutages)
	m.registry.MustRegister(m.eventBusRecoveries)
	m.registry.MustRegister(m.eventsBroadcast)
	m.registry.MustRegister(m.wsConnections)
	m.registry.MustRegister(m.wsDropped)
}

// RecordPublish records event-bus publish status.
func (m *Manager) RecordPublish(status string) {
	if !m.enabled {
		return
	}
	m.eventBusPublish.WithLabelValues(status).Inc()
}

// RecordRetry records event-bus publish retry.
func (m *Manager) RecordRetry() {
	if !m.enabled {
		return
	}
	m.eventBusRetries.Inc()
}

// SetDegradedMode sets event-bus degraded state gauge.
func (m *Manager) SetDegradedMode(active bool) {
	if !m.enabled {
		return
	}
	if active {
		m.eventBusDegraded.Set(1)
		return
	}
	m.eventBusDegraded.Set(0)
}

// RecordOutage records a degraded-mode transition into outage state.
func (m *Manager) RecordOutage() {
	if !m.enabled {
		return
	}
	m.eventBusOutages.Inc()
}

// RecordRecovery records a degraded-mode recovery transition.
func (m *Manager) RecordRecovery() {
	if !m.enabled {
		return
	}
	m.eventBusRecoveries.Inc()
}

// RecordEventBroadcast records one event fanned out to websocket subscribers.
func (m *Manager) RecordEventBroadcast(eventType string) {
	if !m.enabled {
		return
	}
	m.eventsBroadcast.WithLabelValues(eventType).Inc()
}

// IncWSConnections increments the websocket subscriber count.
func (m *Manager) IncWSConnections() {
	if !m.enabled {
		return
	}
	m.wsConnections.Inc()
}

// DecWSConnections decrements the websocket subscriber count.
func (m *Manager) DecWSConnections() {
	if !m.enabled {
		return
	}
	m.wsConnections.Dec()
}

// RecordWSEventDropped records one event dropped on a slow subscriber.
func (m *Manager) RecordWSEventDropped() {
	if !m.enabled {
		return
	}
	m.wsDropped.Inc()
}
