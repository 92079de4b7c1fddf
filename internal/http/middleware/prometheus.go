package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMiddleware holds the HTTP request metrics.
type PrometheusMiddleware struct {
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheusMiddleware creates the collectors and registers them with reg.
func NewPrometheusMiddleware(reg prometheus.Registerer) (*PrometheusMiddleware, error) {
	m := &PrometheusMiddleware{
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	for _, c := range []prometheus.Collector{m.requestCount, m.requestDuration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register http metrics: %w", err)
		}
	}

	return m, nil
}

// unmatchedRoute labels requests no handler matched, so probing random paths
// cannot grow the series count.
const unmatchedRoute = "unmatched"

// Handler records one count and one latency sample per request. /metrics
// itself is not measured.
func (m *PrometheusMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		self := c.Route()
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		// Labels are retained by the collector; fasthttp reuses the
		// request buffers behind c.Method().
		method := utils.CopyString(c.Method())
		route := routeLabel(c.Route(), self)
		m.requestCount.WithLabelValues(method, route, strconv.Itoa(responseStatus(c, err))).Inc()
		m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())

		return err
	}
}

// routeLabel returns the matched route pattern (/files/current/:id). Ending
// on a route with the middleware's own mount path means only Use handlers
// ran.
func routeLabel(r, self *fiber.Route) string {
	if r == nil || r.Path == "" || (self != nil && r.Path == self.Path) {
		return unmatchedRoute
	}
	return r.Path
}

// responseStatus is the status the error handler will eventually write.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
