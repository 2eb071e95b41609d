// Package metrics holds the Prometheus collectors of the dispatcher.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors so that tests can register them on a private registry.
type Metrics struct {
	TransitionsTotal     *prometheus.CounterVec
	AssignmentConflicts  prometheus.Counter
	SamplesTotal         *prometheus.CounterVec
	NotificationsTotal   *prometheus.CounterVec
	DispatchRounds       *prometheus.CounterVec
	ActiveSubscriptions  prometheus.Gauge
	PublishedEventsTotal *prometheus.CounterVec
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_transitions_total",
				Help: "Order transition requests by actor, action and result",
			},
			[]string{"actor", "action", "result"},
		),
		AssignmentConflicts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dispatch_assignment_conflicts_total",
				Help: "Partner accept requests that lost the assignment race",
			},
		),
		SamplesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_location_samples_total",
				Help: "Location samples by result",
			},
			[]string{"result"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_notifications_total",
				Help: "Notifications by type and result",
			},
			[]string{"type", "result"},
		),
		DispatchRounds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_rounds_total",
				Help: "Partner matching rounds by outcome",
			},
			[]string{"outcome"},
		),
		ActiveSubscriptions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dispatch_active_subscriptions",
				Help: "Open order tracking subscriptions",
			},
		),
		PublishedEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_published_events_total",
				Help: "Order events handed to the event publisher by type and result",
			},
			[]string{"type", "result"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"handler", "method"},
		),
	}

	reg.MustRegister(
		m.TransitionsTotal,
		m.AssignmentConflicts,
		m.SamplesTotal,
		m.NotificationsTotal,
		m.DispatchRounds,
		m.ActiveSubscriptions,
		m.PublishedEventsTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

// NewNop returns collectors registered nowhere, for tests and tools.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
