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

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	parseFilesTotal    *prometheus.CounterVec
	ocrFallbacksTotal  *prometheus.CounterVec
	extractedChars     *prometheus.HistogramVec
	parseDuration      *prometheus.HistogramVec
	llmRequestsTotal   *prometheus.CounterVec
	llmRequestDuration *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssync",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssync",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ssync",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	parseFilesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssync",
			Subsystem: "parse",
			Name:      "files_total",
			Help:      "Total uploaded syllabus files by outcome.",
		},
		[]string{"service", "outcome"},
	)
	ocrFallbacksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssync",
			Subsystem: "parse",
			Name:      "ocr_fallbacks_total",
			Help:      "Total files whose text layer was insufficient and went through OCR.",
		},
		[]string{"service"},
	)
	extractedChars := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssync",
			Subsystem: "parse",
			Name:      "extracted_chars",
			Help:      "Distribution of extracted characters per request.",
			Buckets:   []float64{0, 500, 2000, 6000, 12000, 30000, 60000},
		},
		[]string{"service"},
	)
	parseDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssync",
			Subsystem: "parse",
			Name:      "duration_seconds",
			Help:      "Parse request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	llmRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssync",
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "Total model requests by status.",
		},
		[]string{"service", "operation", "status"},
	)
	llmRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssync",
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Model request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		parseFilesTotal,
		ocrFallbacksTotal,
		extractedChars,
		parseDuration,
		llmRequestsTotal,
		llmRequestDuration,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		parseFilesTotal:    parseFilesTotal,
		ocrFallbacksTotal:  ocrFallbacksTotal,
		extractedChars:     extractedChars,
		parseDuration:      parseDuration,
		llmRequestsTotal:   llmRequestsTotal,
		llmRequestDuration: llmRequestDuration,
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
	case strings.HasSuffix(path, "/narrate"):
		return "/v1/syllabi/{syllabus_id}/narrate"
	case strings.HasSuffix(path, "/audio"):
		return "/v1/syllabi/{syllabus_id}/audio"
	case strings.HasPrefix(path, "/v1/syllabi/") && path != "/v1/syllabi/parse" && path != "/v1/syllabi/deadlines":
		return "/v1/syllabi/{syllabus_id}"
	default:
		return path
	}
}

// RecordParse folds one parse/estimate request's extraction stats into the
// parse metric family.
func (m *HTTPServerMetrics) RecordParse(service, endpoint string, stats domain.ExtractionStats, duration time.Duration) {
	succeeded := stats.SuccessfulExtractions
	skipped := stats.TotalFiles - succeeded
	if succeeded > 0 {
		m.parseFilesTotal.WithLabelValues(service, "parsed").Add(float64(succeeded))
	}
	if skipped > 0 {
		m.parseFilesTotal.WithLabelValues(service, "skipped").Add(float64(skipped))
	}
	if stats.OCRFallbacks > 0 {
		m.ocrFallbacksTotal.WithLabelValues(service).Add(float64(stats.OCRFallbacks))
	}
	m.extractedChars.WithLabelValues(service).Observe(float64(stats.TotalCharacters))
	m.parseDuration.WithLabelValues(service, endpoint).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordLLMRequest(service, operation string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.llmRequestsTotal.WithLabelValues(service, operation, status).Inc()
	m.llmRequestDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
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
