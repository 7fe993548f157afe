package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveFetch(OutcomeSuccess, 20*time.Millisecond)
	m.ObserveFetch(OutcomeSuccess, 30*time.Millisecond)
	m.ObserveFetch(OutcomeError, time.Second)
	m.CacheHit(true)
	m.CacheHit(false)
	m.CacheHit(false)
	m.PageRendered(StateReady)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues(OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheTotal.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheTotal.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renderTotal.WithLabelValues(StateReady)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveFetch(OutcomeNoData, time.Millisecond)
		m.CacheHit(true)
		m.PageRendered(StateError)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.PageRendered(StateError)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `product_page_renders_total{state="error"} 1`)
}
