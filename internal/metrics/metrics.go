package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jobmatch"

// Metrics holds the engine's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	useCases        *prometheus.CounterVec
	useCaseDuration *prometheus.HistogramVec
	retries         *prometheus.CounterVec
	toolCalls       *prometheus.CounterVec
	httpInFlight    prometheus.Gauge
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		useCases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "use_cases_total",
				Help:      "Total number of engine use-case executions.",
			},
			[]string{"use_case", "outcome"},
		),

		useCaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "use_case_duration_seconds",
				Help:      "Duration of engine use-cases including retries.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"use_case"},
		),

		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "tx_retries_total",
				Help:      "Transactions re-run after a conflicting concurrent write.",
			},
			[]string{"use_case"},
		),

		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mcp",
				Name:      "tool_calls_total",
				Help:      "Total number of MCP tool calls.",
			},
			[]string{"tool", "success"},
		),

		httpInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "inflight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
		),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		),

		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "path"},
		),
	}

	m.registry.MustRegister(
		m.useCases,
		m.useCaseDuration,
		m.retries,
		m.toolCalls,
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveUseCase records one finished use-case. outcome is "ok" or an error code.
func (m *Metrics) ObserveUseCase(useCase, outcome string, elapsed time.Duration) {
	if elapsed <= 0 {
		elapsed = time.Microsecond
	}
	m.useCases.WithLabelValues(useCase, outcome).Inc()
	m.useCaseDuration.WithLabelValues(useCase).Observe(elapsed.Seconds())
}

// ObserveRetry records a transaction re-run
func (m *Metrics) ObserveRetry(useCase string) {
	m.retries.WithLabelValues(useCase).Inc()
}

// RecordToolCall records an MCP tool invocation
func (m *Metrics) RecordToolCall(tool string, success bool) {
	m.toolCalls.WithLabelValues(tool, strconv.FormatBool(success)).Inc()
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func (m *Metrics) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)

		m.httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streamed MCP responses working through the wrapper
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func canonicalPath(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	if parts[0] == "mcp" && len(parts) > 1 {
		return "/mcp/" + parts[1]
	}
	return "/" + parts[0]
}
