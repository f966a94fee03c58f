package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestHTTPMetricsMiddleware_Basic(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	mw := HTTPMetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(204) }))
	mw.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Result().StatusCode)
}

func TestHTTPMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(HTTPMetricsMiddleware)
	router.Get("/v1/jobs/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	before := counterValue(t, HTTPRequestsTotal.WithLabelValues("/v1/jobs/{id}", http.MethodGet, "OK"))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/jobs/42", nil))
	after := counterValue(t, HTTPRequestsTotal.WithLabelValues("/v1/jobs/{id}", http.MethodGet, "OK"))

	assert.Equal(t, before+1, after)
}

func TestMetricHelpers(t *testing.T) {
	InitMetrics()
	InitMetrics()

	before := counterValue(t, FallbacksTotal.WithLabelValues("jobs"))
	RecordFallback("jobs")
	assert.Equal(t, before+1, counterValue(t, FallbacksTotal.WithLabelValues("jobs")))

	ext := counterValue(t, ExternalRequestsTotal.WithLabelValues("jsearch", "search", "error"))
	ObserveExternal("jsearch", "search", "error", 50*time.Millisecond)
	assert.Equal(t, ext+1, counterValue(t, ExternalRequestsTotal.WithLabelValues("jsearch", "search", "error")))

	ok := counterValue(t, AnalysesTotal.WithLabelValues("success"))
	ObserveAnalysis(31, 80)
	ObserveAnalysis(-1, 101)
	assert.Equal(t, ok+2, counterValue(t, AnalysesTotal.WithLabelValues("success")))

	RecordAnalysisFailure("empty_file")
	assert.GreaterOrEqual(t, counterValue(t, AnalysesTotal.WithLabelValues("empty_file")), 1.0)
}
