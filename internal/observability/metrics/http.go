package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	reportExportTotal    *prometheus.CounterVec
	knowledgeSearchTotal *prometheus.CounterVec
	knowledgeHits        *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adgm",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "adgm",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "adgm",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	reportExportTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adgm",
			Subsystem: "report",
			Name:      "export_total",
			Help:      "Total batch report exports by format.",
		},
		[]string{"service", "format"},
	)
	knowledgeSearchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adgm",
			Subsystem: "knowledge",
			Name:      "search_total",
			Help:      "Total knowledge-base searches.",
		},
		[]string{"service"},
	)
	knowledgeHits := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "adgm",
			Subsystem: "knowledge",
			Name:      "search_hits",
			Help:      "Distribution of retrieved passages per search.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		reportExportTotal,
		knowledgeSearchTotal,
		knowledgeHits,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		reportExportTotal:    reportExportTotal,
		knowledgeSearchTotal: knowledgeSearchTotal,
		knowledgeHits:        knowledgeHits,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		if strings.HasSuffix(path, "/analysis") {
			return "/v1/documents/{document_id}/analysis"
		}
		return "/v1/documents/{document_id}"
	case strings.HasPrefix(path, "/v1/batches/"):
		switch {
		case strings.HasSuffix(path, "/report.csv"):
			return "/v1/batches/{batch_id}/report.csv"
		case strings.HasSuffix(path, "/report.xlsx"):
			return "/v1/batches/{batch_id}/report.xlsx"
		default:
			return "/v1/batches/{batch_id}/report"
		}
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordReportExport(service, format string) {
	if format == "" {
		format = "unknown"
	}
	m.reportExportTotal.WithLabelValues(service, format).Inc()
}

func (m *HTTPServerMetrics) RecordKnowledgeSearch(service string, hits int) {
	m.knowledgeSearchTotal.WithLabelValues(service).Inc()
	m.knowledgeHits.WithLabelValues(service).Observe(float64(hits))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
