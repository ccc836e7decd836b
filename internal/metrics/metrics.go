// Package metrics exposes Prometheus counters for the catalog cache and
// the order lifecycle.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cinema"

// Metrics groups the service's collectors.  A nil *Metrics is valid and
// records nothing, so components can be built without it in tests.
type Metrics struct {
	CatalogCache    *prometheus.CounterVec
	CatalogRequests *prometheus.CounterVec
	Orders          *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		CatalogCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "cache_lookups_total",
			Help:      "Catalog cache lookups by result (hit, miss).",
		}, []string{"result"}),
		CatalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "requests_total",
			Help:      "Requests sent to the remote catalog by operation and outcome.",
		}, []string{"operation", "outcome"}),
		Orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "events_total",
			Help:      "Order lifecycle events (created, canceled, paid, rated).",
		}, []string{"event"}),
		gatherer: reg,
	}
	reg.MustRegister(m.CatalogCache, m.CatalogRequests, m.Orders)
	return m
}

// CacheLookup records a catalog cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CatalogCache.WithLabelValues(result).Inc()
}

// CatalogRequest records one remote catalog call.
func (m *Metrics) CatalogRequest(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.CatalogRequests.WithLabelValues(operation, outcome).Inc()
}

// OrderEvent records an order lifecycle event.
func (m *Metrics) OrderEvent(event string) {
	if m == nil {
		return
	}
	m.Orders.WithLabelValues(event).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
