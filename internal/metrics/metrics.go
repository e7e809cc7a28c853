package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registration outcomes
const (
	OutcomeRegistered = "registered"
	OutcomeFull       = "full"
	OutcomeDuplicate  = "duplicate"
	OutcomeClosed     = "closed"
	OutcomeError      = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	SuccessfulRequests *prometheus.CounterVec
	BadRequests        *prometheus.CounterVec
	FailedRequests     *prometheus.CounterVec
	Registrations      *prometheus.CounterVec
	Transitions        *prometheus.CounterVec
	SessionsIssued     prometheus.Counter
}

// New creates the collectors on a private registry, so several instances can
// coexist in one process.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SuccessfulRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geocommunity_successful_requests_total",
				Help: "Total number of successful (2xx) HTTP requests",
			},
			[]string{"route"},
		),
		BadRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geocommunity_bad_requests_total",
				Help: "Total number of unsuccessful (4xx) HTTP requests",
			},
			[]string{"route"},
		),
		FailedRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geocommunity_failed_requests_total",
				Help: "Total number of failed (5xx) HTTP requests",
			},
			[]string{"route"},
		),
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geocommunity_event_registrations_total",
				Help: "Event registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geocommunity_status_transitions_total",
				Help: "Applied post and event status transitions",
			},
			[]string{"entity", "status"},
		),
		SessionsIssued: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "geocommunity_sessions_issued_total",
				Help: "Total number of sessions issued",
			},
		),
	}

	m.registry.MustRegister(
		m.SuccessfulRequests,
		m.BadRequests,
		m.FailedRequests,
		m.Registrations,
		m.Transitions,
		m.SessionsIssued,
		collectors.NewGoCollector(),
	)

	return m
}

// ObserveResponse counts a finished HTTP request by status class.
func (m *Metrics) ObserveResponse(route string, status int) {
	switch {
	case status >= 500:
		m.FailedRequests.WithLabelValues(route).Inc()
	case status >= 400:
		m.BadRequests.WithLabelValues(route).Inc()
	case status >= 200 && status < 300:
		m.SuccessfulRequests.WithLabelValues(route).Inc()
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
