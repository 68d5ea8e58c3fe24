package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AIReplies counts completion replies by feature and how they were
	// decoded (structured, recovered, raw_fallback, upstream_error).
	AIReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_replies_total",
			Help: "Completion replies by feature and decode outcome",
		},
		[]string{"feature", "outcome"},
	)

	// ExtractedPages counts PDF pages by the source their text came from.
	ExtractedPages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extracted_pages_total",
			Help: "PDF pages processed by text source",
		},
		[]string{"source"},
	)

	Exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_exports_total",
			Help: "PDF exports by tier",
		},
		[]string{"tier"},
	)
)

type HTTPMetrics struct {
	summaryVec *prometheus.SummaryVec
	counterVec *prometheus.CounterVec
}

func NewHTTPMetrics() *HTTPMetrics {
	summaryVec := promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.99: 0.001,
			},
		},
		[]string{"method", "path", "status_code"},
	)
	counterVec := promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	return &HTTPMetrics{summaryVec: summaryVec, counterVec: counterVec}
}

func (m *HTTPMetrics) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		status := strconv.Itoa(c.Response().StatusCode())
		m.summaryVec.WithLabelValues(c.Method(), path, status).Observe(time.Since(start).Seconds())
		m.counterVec.WithLabelValues(c.Method(), path, status).Inc()
		return err
	}
}
