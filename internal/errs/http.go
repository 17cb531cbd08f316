package errs

import (
	"net/http"
)

// RFC 9110 section links used as problem "type" values.
const (
	typeBadRequest          = "https://tools.ietf.org/html/rfc9110#section-15.5.1"
	typeNotFound            = "https://tools.ietf.org/html/rfc9110#section-15.5.5"
	typeMethodNotAllowed    = "https://tools.ietf.org/html/rfc9110#section-15.5.6"
	typeConflict            = "https://tools.ietf.org/html/rfc9110#section-15.5.10"
	typeInternalServerError = "https://tools.ietf.org/html/rfc9110#section-15.6.1"
)

// NewProblem creates a problem for an arbitrary status. The title defaults
// to the status text and the code to its UPPER_CASE form.
func NewProblem(status int, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   problemType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Code:   MakeUpperCaseWithUnderscores(http.StatusText(status)),
	}
}

// NewValidationProblem creates the 400 problem returned when a payload
// fails validation.
func NewValidationProblem(fieldErrors []FieldError) *ProblemDetails {
	return &ProblemDetails{
		Type:   typeBadRequest,
		Title:  "Validation Failed",
		Status: http.StatusBadRequest,
		Detail: "One or more validation errors occurred.",
		Code:   "VALIDATION_FAILED",
		Errors: GroupFieldErrors(fieldErrors),
	}
}

// NewBadRequestProblem creates a 400 problem.
//
// code overrides the default "BAD_REQUEST" when non-nil, and fieldErrors
// are optional.
func NewBadRequestProblem(detail string, code *string, fieldErrors []FieldError) *ProblemDetails {
	p := NewProblem(http.StatusBadRequest, detail)
	if code != nil {
		p.Code = *code
	}
	if len(fieldErrors) > 0 {
		p.Errors = GroupFieldErrors(fieldErrors)
	}
	return p
}

// NewNotFoundProblem creates a 404 problem.
func NewNotFoundProblem(detail string, code *string) *ProblemDetails {
	p := NewProblem(http.StatusNotFound, detail)
	if code != nil {
		p.Code = *code
	}
	return p
}

// NewConflictProblem creates a 409 problem.
func NewConflictProblem(detail string, code *string) *ProblemDetails {
	p := NewProblem(http.StatusConflict, detail)
	if code != nil {
		p.Code = *code
	}
	return p
}

// NewInternalServerProblem creates the generic 500 problem. The detail is
// deliberately fixed: the real error is only logged.
func NewInternalServerProblem() *ProblemDetails {
	p := NewProblem(http.StatusInternalServerError, "")
	p.Title = "An error occurred while processing your request."
	return p
}

func problemType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return typeBadRequest
	case http.StatusNotFound:
		return typeNotFound
	case http.StatusMethodNotAllowed:
		return typeMethodNotAllowed
	case http.StatusConflict:
		return typeConflict
	case http.StatusInternalServerError:
		return typeInternalServerError
	default:
		return "about:blank"
	}
}
