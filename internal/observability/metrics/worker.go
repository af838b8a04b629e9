package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	reviewTotal    *prometheus.CounterVec
	reviewDuration *prometheus.HistogramVec
	reviewInFlight prometheus.Gauge
	issuesTotal    *prometheus.CounterVec
	queueLag       *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	reviewTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adgm",
			Subsystem: "worker",
			Name:      "document_review_total",
			Help:      "Total reviewed documents by status.",
		},
		[]string{"service", "status"},
	)
	reviewDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "adgm",
			Subsystem: "worker",
			Name:      "document_review_duration_seconds",
			Help:      "Document review duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	reviewInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "adgm",
			Subsystem: "worker",
			Name:      "document_review_in_flight",
			Help:      "Number of in-flight document reviews.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	issuesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adgm",
			Subsystem: "worker",
			Name:      "issues_found_total",
			Help:      "Total red-flag issues found by severity.",
		},
		[]string{"service", "severity"},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "adgm",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between document upload and review start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(reviewTotal, reviewDuration, reviewInFlight, issuesTotal, queueLag)

	return &WorkerMetrics{
		registry:       registry,
		reviewTotal:    reviewTotal,
		reviewDuration: reviewDuration,
		reviewInFlight: reviewInFlight,
		issuesTotal:    issuesTotal,
		queueLag:       queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartReview() {
	m.reviewInFlight.Inc()
}

func (m *WorkerMetrics) FinishReview(service string, duration time.Duration, err error) {
	m.reviewInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.reviewTotal.WithLabelValues(service, status).Inc()
	m.reviewDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) RecordIssues(service, severity string, count int) {
	if count <= 0 {
		return
	}
	m.issuesTotal.WithLabelValues(service, severity).Add(float64(count))
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
