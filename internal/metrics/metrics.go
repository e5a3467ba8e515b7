// Package metrics owns the prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager groups the collectors. A nil *Manager is a valid no-op.
type Manager struct {
	registry *prometheus.Registry

	CounterRequests           *prometheus.CounterVec
	HistRequestDuration       *prometheus.HistogramVec
	CounterWeightRecords      *prometheus.CounterVec
	CounterCalculatorSessions *prometheus.CounterVec
	CounterCache              *prometheus.CounterVec
}

// NewManager registers all collectors on a fresh registry.
func NewManager(namespace string) *Manager {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Manager{
		registry: reg,
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of handled HTTP requests",
		}, []string{"method", "status"}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		CounterWeightRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weight_records_total",
			Help:      "Daily weight upserts by unit",
		}, []string{"unit"}),
		CounterCalculatorSessions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculator_sessions_total",
			Help:      "Logged calculator sessions by category",
		}, []string{"category"}),
		CounterCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_cache_total",
			Help:      "Lookup cache hits and misses",
		}, []string{"cache", "result"}),
	}
}

// Handler exposes the registry in the prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, mostly for tests.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one finished HTTP request.
func (m *Manager) ObserveRequest(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.CounterRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.HistRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// WeightRecorded counts a daily weight upsert.
func (m *Manager) WeightRecorded(unit string) {
	if m == nil {
		return
	}
	m.CounterWeightRecords.WithLabelValues(unit).Inc()
}

// CalculatorLogged counts a calculator session.
func (m *Manager) CalculatorLogged(category string) {
	if m == nil {
		return
	}
	m.CounterCalculatorSessions.WithLabelValues(category).Inc()
}

// CacheHit implements cache.Observer.
func (m *Manager) CacheHit(name string) {
	if m == nil {
		return
	}
	m.CounterCache.WithLabelValues(name, "hit").Inc()
}

// CacheMiss implements cache.Observer.
func (m *Manager) CacheMiss(name string) {
	if m == nil {
		return
	}
	m.CounterCache.WithLabelValues(name, "miss").Inc()
}
