package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func metricsRouter(service string, status int) *chi.Mux {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics(service))
	r.Get("/api/v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	return r
}

func TestPrometheusMetrics_CountsByRoutePattern(t *testing.T) {
	r := metricsRouter("count-svc", http.StatusOK)

	for _, path := range []string{"/api/v1/products/1", "/api/v1/products/2", "/api/v1/products/3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("count-svc", "GET", "/api/v1/products/{id}", "200"))
	assert.Equal(t, float64(3), got)
}

func TestPrometheusMetrics_RecordsStatus(t *testing.T) {
	r := metricsRouter("status-svc", http.StatusNotFound)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/products/99", nil))

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("status-svc", "GET", "/api/v1/products/{id}", "404"))
	assert.Equal(t, float64(1), got)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(httpRequestDuration), 1)
}

func TestPrometheusMetrics_InFlightGauge(t *testing.T) {
	var during float64
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("inflight-svc"))
	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("inflight-svc"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, float64(1), during)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("inflight-svc")))
}

func TestPrometheusMetrics_UnknownRouteOutsideChi(t *testing.T) {
	h := PrometheusMetrics("plain-svc")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/anything", nil))

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("plain-svc", "GET", "unknown", "200"))
	assert.Equal(t, float64(1), got)
}
