package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	m.CatalogRequest("genres", nil)
	m.CatalogRequest("genres", errors.New("boom"))
	m.OrderEvent("created")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogCache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CatalogCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogRequests.WithLabelValues("genres", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogRequests.WithLabelValues("genres", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Orders.WithLabelValues("created")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CacheLookup(true)
		m.CatalogRequest("movie", nil)
		m.OrderEvent("paid")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.OrderEvent("created")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cinema_orders_events_total{event="created"} 1`)
}
