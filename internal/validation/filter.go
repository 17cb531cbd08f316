package validation

import (
	"github.com/deppfellow/user-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Outcome is the state a request ends in after passing through a Filter.
type Outcome int

const (
	// Pass means the payload is valid and the next stage runs.
	Pass Outcome = iota
	// Rejected means the payload failed validation; the handler never runs.
	Rejected
)

func (o Outcome) String() string {
	if o == Rejected {
		return "rejected"
	}
	return "pass"
}

// PayloadKey is the echo context key the validated payload is stored under.
const PayloadKey = "validated_payload"

// Evaluate validates payload and returns the filter outcome together with
// the field errors that caused a rejection.
func Evaluate(v *Validator, payload Validatable) (Outcome, []errs.FieldError) {
	if fieldErrors := Collect(v, payload); len(fieldErrors) > 0 {
		return Rejected, fieldErrors
	}
	return Pass, nil
}

// Filter returns a route middleware that binds the request body into a new
// T and validates it before the handler runs.
//
// On Rejected it returns a 400 validation problem and the rest of the chain
// is skipped, so no side effects can occur. On Pass the payload is stored
// in the echo context (see Payload) and the next stage is invoked unchanged.
func Filter[T any, PT interface {
	*T
	Validatable
}](v *Validator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			payload := PT(new(T))
			logger := zerolog.Ctx(c.Request().Context())

			if err := BindAndValidate(c, v, payload); err != nil {
				logger.Debug().
					Str("filter", Rejected.String()).
					Err(err).
					Msg("request payload rejected")
				return err
			}

			logger.Debug().Str("filter", Pass.String()).Msg("request payload accepted")

			c.Set(PayloadKey, payload)
			return next(c)
		}
	}
}

// Payload returns the payload stored by Filter for this request.
func Payload[T any](c echo.Context) (*T, bool) {
	payload, ok := c.Get(PayloadKey).(*T)
	return payload, ok
}
