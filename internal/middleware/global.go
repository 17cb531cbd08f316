package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/deppfellow/user-api/internal/result"
	"github.com/deppfellow/user-api/internal/server"
	"github.com/deppfellow/user-api/internal/sqlerr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups “global” middleware and the global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns Echo’s CORS middleware configured from the allowed origin
// list. Any header and method is allowed and credentials are permitted.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch,
			http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
		// An empty list echoes back whatever the preflight asks for.
		AllowHeaders:     nil,
		AllowCredentials: true,
		ExposeHeaders:    []string{RequestIDHeader, SupportedVersionsHeader, echo.HeaderLocation},
	})
}

// statusCoder is implemented by errs.Failure and errs.ProblemDetails.
type statusCoder interface {
	StatusCode() int
}

// statusFromError returns the status the global error handler will write
// for err. The response status is not final yet when a handler returns an
// error, so loggers and metrics derive it here instead.
// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
func statusFromError(err error, fallback int) int {
	if err == nil {
		return fallback
	}

	var sc statusCoder
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &sc):
		return sc.StatusCode()
	case errors.As(err, &echoErr):
		return echoErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// RequestLogger produces one “API” log line per request, with severity based
// on status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := statusFromError(v.Error, v.Status)

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover turns panics into errors handled by GlobalErrorHandler.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			GetLogger(c).Error().
				Err(err).
				Str("stack", string(stack)).
				Msg("recovered from panic")
			return err
		},
	})
}

// Secure returns Echo’s secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Expected failures (*errs.Failure) are written as a Result envelope.
// Everything else becomes an RFC 7807 problem: problems raised by the
// application pass through, echo errors are mapped by status and any other
// error is classified by sqlerr, which yields a generic 500 for anything it
// does not recognise. The original error is logged, never sent.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err
	logger := GetLogger(c)

	var failure *errs.Failure
	if errors.As(err, &failure) {
		logger.Warn().
			Int("status", failure.Status).
			Str("error_code", failure.Err.Code).
			Msg(failure.Error())

		if !c.Response().Committed {
			_ = c.JSON(failure.Status, result.Failure[any](failure.Err))
		}
		return
	}

	problem := toProblem(err)
	problem.Instance = c.Request().Method + " " + c.Request().URL.Path
	problem.RequestID = GetRequestID(c)
	problem.TraceID = traceID(c)

	var e *zerolog.Event
	if problem.Status >= http.StatusInternalServerError {
		e = logger.Error().Stack().Err(originalErr)
	} else {
		e = logger.Warn().Err(originalErr)
	}
	e.Int("status", problem.Status).
		Str("error_code", problem.Code).
		Msg(problem.Title)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(problem.Status)
		return
	}

	body, marshalErr := json.Marshal(problem)
	if marshalErr != nil {
		logger.Error().Err(marshalErr).Msg("failed to encode problem details")
		_ = c.NoContent(http.StatusInternalServerError)
		return
	}

	_ = c.Blob(problem.Status, errs.ProblemContentType, body)
}

// toProblem returns a fresh problem for err. Problems are copied so the
// request-specific fields never leak into shared values.
func toProblem(err error) *errs.ProblemDetails {
	var problem *errs.ProblemDetails
	if errors.As(err, &problem) {
		cp := *problem
		return &cp
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		switch echoErr.Code {
		case http.StatusNotFound:
			return errs.NewNotFoundProblem("Route not found", nil)
		case http.StatusInternalServerError:
			return errs.NewInternalServerProblem()
		default:
			return errs.NewProblem(echoErr.Code, echoMessage(echoErr))
		}
	}

	if errors.As(sqlerr.HandleError(err), &problem) {
		return problem
	}

	return errs.NewInternalServerProblem()
}

func echoMessage(echoErr *echo.HTTPError) string {
	switch msg := echoErr.Message.(type) {
	case string:
		return msg
	case error:
		return msg.Error()
	case nil:
		return http.StatusText(echoErr.Code)
	default:
		return fmt.Sprint(msg)
	}
}

// traceID returns the New Relic trace id of the request, falling back to
// the trace id of an incoming W3C traceparent header.
func traceID(c echo.Context) string {
	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		if id := txn.GetTraceMetadata().TraceID; id != "" {
			return id
		}
	}

	// traceparent: version-traceid-parentid-flags
	parts := strings.Split(c.Request().Header.Get("traceparent"), "-")
	if len(parts) == 4 && len(parts[1]) == 32 {
		return parts[1]
	}

	return ""
}
