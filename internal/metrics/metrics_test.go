package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/saulo-duarte/scent-quiz/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleCounters(t *testing.T) {
	m := metrics.New(nil)

	m.SessionStarted()
	m.SessionStarted()
	m.SessionCompleted("FIRST_IN_CATALOG")
	m.SubmitFailed("incomplete")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SessionsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsCompleted.WithLabelValues("FIRST_IN_CATALOG")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubmitFailures.WithLabelValues("incomplete")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.SessionStarted()
		m.SessionCompleted("UNIFORM_RANDOM")
		m.SubmitFailed("persistence")
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := metrics.New(nil)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/abc", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/sessions/{id}", "418")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "scentquiz_http_requests_total"))
}
