package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidationError represents a single validation issue for a field.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var (
	codeInvalidBody  = "INVALID_REQUEST_BODY"
	codeInvalidParam = "INVALID_PATH_PARAMETER"
)

// BindAndValidate binds the request body into payload and validates it.
//
// It returns a 400 *errs.ProblemDetails when the body cannot be decoded or
// when validation fails.
func BindAndValidate(c echo.Context, v *Validator, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestProblem(bindMessage(err, "The request body could not be read."), &codeInvalidBody, nil)
	}

	if outcome, fieldErrors := Evaluate(v, payload); outcome == Rejected {
		return errs.NewValidationProblem(fieldErrors)
	}

	return nil
}

// BindParams binds path parameters (fields tagged `param:"..."`) only. The
// body is left untouched so a filter earlier in the chain may own it.
func BindParams(c echo.Context, params any) error {
	if err := (&echo.DefaultBinder{}).BindPathParams(c, params); err != nil {
		return errs.NewBadRequestProblem("A path parameter has an invalid format.", &codeInvalidParam, nil)
	}
	return nil
}

// Collect runs payload.Validate and converts any failure into field errors.
// It returns nil when the payload is valid.
func Collect(v *Validator, payload Validatable) []errs.FieldError {
	if err := payload.Validate(v); err != nil {
		return extractValidationError(err)
	}
	return nil
}

func bindMessage(err error, fallback string) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return fallback
}

func extractValidationError(err error) []errs.FieldError {
	var fieldErrors []errs.FieldError

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, ce := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: ce.Field,
				Error: ce.Message,
			})
		}
		return fieldErrors
	}

	// Anything else is reported against the payload as a whole.
	return []errs.FieldError{{Field: "body", Error: err.Error()}}
}

// messageFor derives a message for a failed rule without an explicit one.
func messageFor(field string, err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return describe(field, validationErrors[0])
	}
	return "is invalid"
}

// describe converts a validator field error into a user-friendly message.
func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"

	case "min":
		// For strings min is a length, for numbers a value.
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())

	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())

	case "e164":
		return "must be a valid phone number with country code"

	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", field, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s: %s", field, fe.Tag())
	}
}
