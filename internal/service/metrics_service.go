package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation of the console.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	backendDuration    *prometheus.HistogramVec
	draftLatency       prometheus.Observer
	draftWrite         prometheus.Observer
	draftHits          prometheus.Counter
	draftMisses        prometheus.Counter
	enrichmentFailures prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
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

	backendDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Duration of calls to the school backend API",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	draftLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "draft_load_seconds",
		Help:    "Latency for form draft lookups",
		Buckets: prometheus.DefBuckets,
	})

	draftWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "draft_write_seconds",
		Help:    "Latency for form draft writes",
		Buckets: prometheus.DefBuckets,
	})

	draftHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "draft_hits_total",
		Help: "Form openings that restored a saved draft",
	})

	draftMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "draft_misses_total",
		Help: "Form openings without a saved draft",
	})

	enrichmentFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollment_student_lookup_failures_total",
		Help: "Student lookups that failed while rendering enrollments",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, backendDuration, draftLatency, draftWrite, draftHits, draftMisses, enrichmentFailures, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		backendDuration:    backendDuration,
		draftLatency:       draftLatency,
		draftWrite:         draftWrite,
		draftHits:          draftHits,
		draftMisses:        draftMisses,
		enrichmentFailures: enrichmentFailures,
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

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records inbound request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveBackendCall records one backend API call. Status 0 means no response.
func (m *MetricsService) ObserveBackendCall(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.backendDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordDraftLookup records whether opening a form found a draft.
func (m *MetricsService) RecordDraftLookup(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.draftLatency.Observe(duration.Seconds())
	if hit {
		m.draftHits.Inc()
	} else {
		m.draftMisses.Inc()
	}
}

// ObserveDraftWrite tracks the duration of draft writes.
func (m *MetricsService) ObserveDraftWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.draftWrite.Observe(duration.Seconds())
}

// IncEnrichmentFailure counts a failed student lookup.
func (m *MetricsService) IncEnrichmentFailure() {
	if m == nil {
		return
	}
	m.enrichmentFailures.Inc()
}
