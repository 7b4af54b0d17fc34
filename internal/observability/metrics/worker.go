package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	narrationTotal    *prometheus.CounterVec
	narrationDuration *prometheus.HistogramVec
	narrationInFlight prometheus.Gauge
	queueLag          *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	narrationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssync",
			Subsystem: "worker",
			Name:      "narration_total",
			Help:      "Total narration jobs by status.",
		},
		[]string{"service", "status"},
	)
	narrationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssync",
			Subsystem: "worker",
			Name:      "narration_duration_seconds",
			Help:      "Narration job duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	narrationInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ssync",
			Subsystem: "worker",
			Name:      "narration_in_flight",
			Help:      "Number of in-flight narration jobs.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssync",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between narration request and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(narrationTotal, narrationDuration, narrationInFlight, queueLag)

	return &WorkerMetrics{
		registry:          registry,
		narrationTotal:    narrationTotal,
		narrationDuration: narrationDuration,
		narrationInFlight: narrationInFlight,
		queueLag:          queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartNarration() {
	m.narrationInFlight.Inc()
}

func (m *WorkerMetrics) FinishNarration(service string, duration time.Duration, err error) {
	m.narrationInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.narrationTotal.WithLabelValues(service, status).Inc()
	m.narrationDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
