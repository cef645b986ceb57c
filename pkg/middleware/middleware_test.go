package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryAndRequestID(t *testing.T) {
	router := mux.NewRouter()
	cfg := DefaultConfig("test")
	cfg.EnableTracing = false
	Register(router, cfg)
	router.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
	router.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestMetricsInstrumentCountsByStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	h := m.Instrument("/api/things", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/things", nil))
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/things", nil))

	count := testutil.ToFloat64(m.requestCounter.WithLabelValues(http.MethodPost, "/api/things", "409"))
	assert.Equal(t, float64(2), count)

	n, err := testutil.GatherAndCount(reg, "test_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
