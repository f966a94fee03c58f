package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"route", "method"},
	)

	ExternalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_requests_total",
			Help: "Total number of outbound requests by connection, operation and status",
		},
		[]string{"connection", "operation", "status"},
	)
	ExternalRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "external_request_duration_seconds",
			Help:    "Outbound request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"connection", "operation"},
	)

	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallbacks_total",
			Help: "Total number of times a component served its offline fallback",
		},
		[]string{"component"},
	)
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyses_total",
			Help: "Total number of resume analyses by outcome",
		},
		[]string{"outcome"},
	)

	// Analysis outcome distributions
	OverallScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_overall_score",
			Help:    "Distribution of the skill coverage score ([0,100])",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
	AtsScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_ats_score",
			Help:    "Distribution of the ATS score ([0,100])",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)

var initMetricsOnce sync.Once

// InitMetrics registers all collectors with the default registry. Safe to call more than once.
func InitMetrics() {
	initMetricsOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(ExternalRequestsTotal)
		prometheus.MustRegister(ExternalRequestDuration)
		prometheus.MustRegister(FallbacksTotal)
		prometheus.MustRegister(AnalysesTotal)
		prometheus.MustRegister(OverallScoreHistogram)
		prometheus.MustRegister(AtsScoreHistogram)
	})
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

// ObserveExternal records one outbound call.
func ObserveExternal(connection, operation, status string, d time.Duration) {
	ExternalRequestsTotal.WithLabelValues(connection, operation, status).Inc()
	ExternalRequestDuration.WithLabelValues(connection, operation).Observe(d.Seconds())
}

// RecordFallback counts a fallback served by component.
func RecordFallback(component string) {
	FallbacksTotal.WithLabelValues(component).Inc()
}

// ObserveAnalysis records the scores of a completed analysis.
func ObserveAnalysis(overall, ats int) {
	AnalysesTotal.WithLabelValues("success").Inc()
	if overall >= 0 && overall <= 100 {
		OverallScoreHistogram.Observe(float64(overall))
	}
	if ats >= 0 && ats <= 100 {
		AtsScoreHistogram.Observe(float64(ats))
	}
}

// RecordAnalysisFailure counts an analysis rejected with reason.
func RecordAnalysisFailure(reason string) {
	AnalysesTotal.WithLabelValues(reason).Inc()
}
