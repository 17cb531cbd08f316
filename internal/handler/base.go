package handler

import (
	"time"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/deppfellow/user-api/internal/middleware"
	"github.com/deppfellow/user-api/internal/result"
	"github.com/deppfellow/user-api/internal/server"
	"github.com/deppfellow/user-api/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
)

// Handler is the base handler type that holds shared application dependencies.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// NoParams is the request type of routes without path parameters.
type NoParams struct{}

// IDParams binds the integer "id" path parameter.
type IDParams struct {
	ID int64 `param:"id"`
}

// ResponseHandler defines how a successful handler result is written and
// which attributes it adds to the New Relic transaction.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// ResultResponseHandler writes results as a Result envelope with a fixed
// status code.
type ResultResponseHandler struct {
	status int
}

func (h ResultResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h ResultResponseHandler) GetOperation() string {
	return "handler"
}

func (h ResultResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by tracing middleware (EnhanceTracing).
}

// handleRequest is the shared execution pipeline of every route.
//
// It binds path parameters, runs the handler and writes the outcome:
//   - success: Result.Success(value) with the route status
//   - *errs.Failure: Result.Failure(error) with the failure status
//   - anything else: returned to middleware.GlobalErrorHandler
func handleRequest[Req any](
	c echo.Context,
	handler func(c echo.Context, req *Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	req := new(Req)
	if err := validation.BindParams(c, req); err != nil {
		logger.Warn().Err(err).Msg("path parameter binding failed")
		return err
	}

	handlerStart := time.Now()
	res, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		var failure *errs.Failure
		if errors.As(err, &failure) {
			logger.Info().
				Str("error_code", failure.Err.Code).
				Int("status", failure.Status).
				Dur("handler_duration", handlerDuration).
				Msg("request completed with failure")

			if txn != nil {
				txn.AddAttribute("handler.status", "failure")
				txn.AddAttribute("handler.error_code", failure.Err.Code)
			}

			return c.JSON(failure.Status, result.Failure[any](failure.Err))
		}

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		responseHandler.AddAttributes(txn, res)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, res)
}

// Handle wraps a typed endpoint function into the pipeline and returns an
// echo.HandlerFunc that can be registered directly on routes.
//
// Req holds the bound path parameters; a request body, if any, has already
// been validated by a validation.Filter and is read with validation.Payload.
//
//	router.GET("/users/:id", handler.Handle(h.User.Get, http.StatusOK))
func Handle[Req any, Res any](handler func(c echo.Context, req *Req) (Res, error), status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, func(c echo.Context, req *Req) (interface{}, error) {
			res, err := handler(c, req)
			if err != nil {
				return nil, err
			}
			return result.Success(res), nil
		}, ResultResponseHandler{status: status})
	}
}
