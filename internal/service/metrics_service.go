package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry for HTTP traffic and gradebook activity.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	scoreUpserts    *prometheus.CounterVec
	scoresClamped   *prometheus.CounterVec
	resultsComputed *prometheus.CounterVec
	exports         *prometheus.CounterVec
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	scoreUpserts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gradebook_score_upserts_total",
		Help: "Scores written to the assessment store",
	}, []string{"assessment_type"})

	scoresClamped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gradebook_scores_clamped_total",
		Help: "Score inputs that fell outside [0, max] and were clamped",
	}, []string{"assessment_type"})

	resultsComputed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gradebook_results_computed_total",
		Help: "Final results computed, by letter grade",
	}, []string{"letter"})

	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gradebook_exports_total",
		Help: "Class result exports rendered, by format",
	}, []string{"format"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, scoreUpserts, scoresClamped, resultsComputed, exports, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		scoreUpserts:    scoreUpserts,
		scoresClamped:   scoresClamped,
		resultsComputed: resultsComputed,
		exports:         exports,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request latency and count.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordScoreUpsert counts a stored score and whether its input had to be clamped.
func (m *MetricsService) RecordScoreUpsert(assessmentType string, clamped bool) {
	if m == nil {
		return
	}
	m.scoreUpserts.WithLabelValues(assessmentType).Inc()
	if clamped {
		m.scoresClamped.WithLabelValues(assessmentType).Inc()
	}
}

// RecordResult counts a computed final result.
func (m *MetricsService) RecordResult(letter string) {
	if m == nil {
		return
	}
	m.resultsComputed.WithLabelValues(letter).Inc()
}

// RecordExport counts a rendered export.
func (m *MetricsService) RecordExport(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}
