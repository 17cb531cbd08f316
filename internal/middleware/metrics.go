package middleware

import (
	"strconv"
	"time"

	"github.com/deppfellow/user-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsMiddleware records Prometheus request metrics on the server's
// registry.
type MetricsMiddleware struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsMiddleware registers the HTTP collectors. Collectors already
// present on the registry are reused.
func NewMetricsMiddleware(s *server.Server) *MetricsMiddleware {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userapi",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "userapi",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	return &MetricsMiddleware{
		requests: register(s.Metrics, requests),
		duration: register(s.Metrics, duration),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}

	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// Instrument observes every request. Unmatched requests are grouped under
// a single route label to keep cardinality bounded.
func (m *MetricsMiddleware) Instrument() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := statusFromError(err, c.Response().Status)

			m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
