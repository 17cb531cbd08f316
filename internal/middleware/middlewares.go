package middleware

import (
	"github.com/deppfellow/user-api/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// SupportedVersions are the API versions served under /api/v{n}.
var SupportedVersions = []int{1, 2}

// Middlewares groups all middleware components used by the HTTP server so
// they are built once and reused during router setup.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers and the
	// global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer enriches each request with a request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing provides New Relic middleware and custom attributes.
	Tracing *TracingMiddleware

	RateLimit *RateLimitMiddleware
	Metrics   *MetricsMiddleware

	// Versioning resolves /api/v{n} segments.
	Versioning *Versioning
}

// NewMiddlewares constructs all middleware components. When New Relic is
// disabled nrApp is nil and tracing degrades to a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
		Metrics:         NewMetricsMiddleware(s),
		Versioning:      NewVersioning(SupportedVersions...),
	}
}
