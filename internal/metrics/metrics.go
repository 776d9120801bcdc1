// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics holds the Prometheus collectors shared by the catalog
// fetcher and the awards cross-reference. A nil *Metrics is valid and
// records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "allocations_xref"

// Metrics groups every collector the engine records into.
type Metrics struct {
	registry *prometheus.Registry

	CacheRequests *prometheus.CounterVec
	PageFetches   *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	AwardLookups  *prometheus.CounterVec
	AwardMatches  prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "cache_requests_total",
			Help:      "Page cache lookups by result (hit, miss, expired).",
		}, []string{"result"}),
		PageFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "page_fetches_total",
			Help:      "Catalog page fetches by outcome (ok, error).",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "page_fetch_duration_seconds",
			Help:      "Latency of catalog page fetches that missed the cache.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		AwardLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "awards",
			Name:      "lookups_total",
			Help:      "Awards service lookups by mode (personnel, institution) and outcome (ok, error).",
		}, []string{"mode", "outcome"}),
		AwardMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "awards",
			Name:      "validated_matches_total",
			Help:      "Awards that passed PI and institution validation.",
		}),
	}
	m.registry.MustRegister(m.CacheRequests, m.PageFetches, m.FetchDuration, m.AwardLookups, m.AwardMatches)
	return m
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CacheResult records one cache lookup.
func (m *Metrics) CacheResult(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// PageFetched records one page fetch that went to the network.
func (m *Metrics) PageFetched(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PageFetches.WithLabelValues(outcome(err)).Inc()
	m.FetchDuration.Observe(elapsed.Seconds())
}

// AwardLookup records one call to the awards service.
func (m *Metrics) AwardLookup(mode string, err error) {
	if m == nil {
		return
	}
	m.AwardLookups.WithLabelValues(mode, outcome(err)).Inc()
}

// AwardMatched records validated awards.
func (m *Metrics) AwardMatched(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.AwardMatches.Add(float64(n))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
