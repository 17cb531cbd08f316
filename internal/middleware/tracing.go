package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/user-api/internal/server"
)

// TracingMiddleware owns New Relic related Echo middleware.
//
// It has two layers:
//  1. NewRelicMiddleware() -> starts a transaction per request
//  2. EnhanceTracing()     -> adds custom attributes and notices errors
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

// NewTracingMiddleware constructs TracingMiddleware. nrApp may be nil.
func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// NewRelicMiddleware returns the New Relic Echo middleware, or a pass
// through when New Relic is disabled. It is what makes
// newrelic.FromContext work later in the chain.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing adds request attributes to the transaction and reports
// errors with their stack through nrpkgerrors.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			err := next(c)

			// Only unexpected errors are noticed; 4xx outcomes are part of
			// normal operation.
			if err != nil && statusFromError(err, c.Response().Status) >= 500 {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}

			for key, value := range requestAttributes(c, err) {
				txn.AddAttribute(key, value)
			}

			return err
		}
	}
}

// requestAttributes are the custom transaction attributes of a finished
// request. api.version is only known once the version group has run.
func requestAttributes(c echo.Context, err error) map[string]interface{} {
	attrs := map[string]interface{}{
		"http.real_ip":     c.RealIP(),
		"http.user_agent":  c.Request().UserAgent(),
		"http.status_code": statusFromError(err, c.Response().Status),
	}

	if requestID := GetRequestID(c); requestID != "" {
		attrs["request.id"] = requestID
	}

	if version, ok := c.Get(APIVersionKey).(int); ok {
		attrs["api.version"] = version
	}

	return attrs
}
