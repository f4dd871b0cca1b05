// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/calon-vote/models"
)

const Namespace = "calon"

// Metrics holds the collectors for one router
type Metrics struct {
	registry *prometheus.Registry

	// votesSubmitted counts accepted votes per candidate
	votesSubmitted *prometheus.CounterVec

	// storeErrors counts failed store calls per operation
	storeErrors *prometheus.CounterVec

	// tallyFallbacks counts tally reads served as zeros after a store failure
	tallyFallbacks prometheus.Counter

	// requestDuration observes handler latency per route and status code
	requestDuration *prometheus.HistogramVec
}

// New builds and registers the collectors on a fresh registry
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		votesSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "votes_submitted_total",
				Help:      "Number of votes accepted per candidate",
			},
			[]string{"candidate"},
		),
		storeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Number of failed store operations",
			},
			[]string{"operation"},
		),
		tallyFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tally_fallbacks_total",
				Help:      "Number of tally reads answered with zeros because the store failed",
			},
		),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Indicates how much time each request took",
			Buckets:   prometheus.DefBuckets,
		},
			[]string{"route", "code"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.votesSubmitted,
		m.storeErrors,
		m.tallyFallbacks,
		m.requestDuration,
	)

	// Pre-create candidate series so dashboards show zeros before the first vote
	for _, id := range models.AllCandidates {
		m.votesSubmitted.WithLabelValues(string(id))
	}

	return m
}

func (m *Metrics) VoteSubmitted(id models.CandidateID) {
	m.votesSubmitted.WithLabelValues(string(id)).Inc()
}

func (m *Metrics) StoreError(operation string) {
	m.storeErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) TallyFallback() {
	m.tallyFallbacks.Inc()
}

// Instrument records the duration of every request served by h under route
func (m *Metrics) Instrument(route string, h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(
		m.requestDuration.MustCurryWith(prometheus.Labels{"route": route}), h)
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
