package errs

import (
	"fmt"
	"net/http"
	"strings"
)

// Error is the error carried by a Result envelope.
//
// Code is a stable machine-readable identifier (e.g. "User.NotFound").
// Description is optional human-readable detail and serializes as null
// when absent.
type Error struct {
	Code        string  `json:"code"`
	Description *string `json:"description"`
}

// None is the sentinel meaning "no error".
var None = Error{}

// NewError creates an Error with a description.
func NewError(code, description string) Error {
	return Error{Code: code, Description: &description}
}

// IsNone reports whether e is the "no error" sentinel.
func (e Error) IsNone() bool {
	return e.Code == "" && e.Description == nil
}

// Failure is returned by handlers for an expected, well-formed failure.
// The handler pipeline writes it as Result.Failure(Err) with Status.
type Failure struct {
	Status int
	Err    Error
}

func (f *Failure) Error() string {
	if f.Err.Description != nil {
		return fmt.Sprintf("%s: %s", f.Err.Code, *f.Err.Description)
	}
	return f.Err.Code
}

// StatusCode returns the HTTP status of the failure.
func (f *Failure) StatusCode() int { return f.Status }

// NewNotFoundFailure creates a 404 Failure.
func NewNotFoundFailure(code, description string) *Failure {
	return &Failure{Status: http.StatusNotFound, Err: NewError(code, description)}
}

// FieldError represents a field-level validation error.
//
//	{ "field": "name", "error": "Name is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ProblemDetails is an RFC 7807 problem details body.
//
// Errors holds validation messages grouped by field. RequestID and TraceID
// are filled in by the global error handler right before writing.
type ProblemDetails struct {
	Type      string              `json:"type,omitempty"`
	Title     string              `json:"title"`
	Status    int                 `json:"status"`
	Detail    string              `json:"detail,omitempty"`
	Instance  string              `json:"instance,omitempty"`
	Code      string              `json:"code,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
	RequestID string              `json:"requestId,omitempty"`
	TraceID   string              `json:"traceId,omitempty"`
}

// ProblemContentType is the media type of ProblemDetails bodies.
const ProblemContentType = "application/problem+json"

func (p *ProblemDetails) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the HTTP status of the problem.
func (p *ProblemDetails) StatusCode() int { return p.Status }

// WithDetail returns a copy of p with Detail replaced.
func (p *ProblemDetails) WithDetail(detail string) *ProblemDetails {
	cp := *p
	cp.Detail = detail
	return &cp
}

// GroupFieldErrors folds field errors into the field -> messages map used by
// validation problems, keeping message order per field.
func GroupFieldErrors(fieldErrors []FieldError) map[string][]string {
	grouped := make(map[string][]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		grouped[fe.Field] = append(grouped[fe.Field], fe.Error)
	}
	return grouped
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
