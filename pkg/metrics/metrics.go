package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	enrichmentTotal *prometheus.CounterVec
	commandsTotal   *prometheus.CounterVec
	confidence      prometheus.Histogram
	authTotal       *prometheus.CounterVec
	scheduledTotal  *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "assistant",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	enrichmentTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "enrichment",
			Name:      "calls_total",
			Help:      "Enrichment calls by answering source and failure tier.",
		},
		[]string{"operation", "source", "failure"},
	)
	commandsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "pipeline",
			Name:      "commands_total",
			Help:      "Understood commands by final command type.",
		},
		[]string{"command_type"},
	)
	confidence := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "assistant",
			Subsystem: "pipeline",
			Name:      "confidence",
			Help:      "Distribution of final confidence scores.",
			Buckets:   []float64{0.1, 0.3, 0.5, 0.7, 0.8, 0.9, 1},
		},
	)
	authTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Bearer token checks by outcome.",
		},
		[]string{"outcome"},
	)
	scheduledTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "scheduler",
			Name:      "runs_total",
			Help:      "Scheduled hook runs by hook name.",
		},
		[]string{"hook"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		enrichmentTotal,
		commandsTotal,
		confidence,
		authTotal,
		scheduledTotal,
	)

	return &Metrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		enrichmentTotal: enrichmentTotal,
		commandsTotal:   commandsTotal,
		confidence:      confidence,
		authTotal:       authTotal,
		scheduledTotal:  scheduledTotal,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware labels requests by route pattern. Paths that match no route share
// the "unmatched" label.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		if path == "/" && c.Path() != "/" {
			path = "unmatched"
		}

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			}
		}

		m.requestTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())

		return err
	}
}

func (m *Metrics) RecordEnrichment(operation, source, failure string) {
	if m == nil {
		return
	}
	if failure == "" {
		failure = "none"
	}
	m.enrichmentTotal.WithLabelValues(operation, source, failure).Inc()
}

func (m *Metrics) RecordCommand(commandType string, confidence float64) {
	if m == nil {
		return
	}
	if commandType == "" {
		commandType = "unknown"
	}
	m.commandsTotal.WithLabelValues(commandType).Inc()
	m.confidence.Observe(confidence)
}

func (m *Metrics) RecordAuth(outcome string) {
	if m == nil {
		return
	}
	m.authTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordScheduledRun(hook string) {
	if m == nil {
		return
	}
	m.scheduledTotal.WithLabelValues(hook).Inc()
}
