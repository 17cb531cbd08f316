// Package result provides the success/failure envelope every API response
// is wrapped in, so callers can branch on isSuccess instead of the status
// code alone.
package result

import "github.com/deppfellow/user-api/internal/errs"

// Result is either a success holding Value or a failure holding Error.
// Exactly one side is populated; the zero Error means "no error".
type Result[T any] struct {
	IsSuccess bool       `json:"isSuccess"`
	Value     *T         `json:"value"`
	Error     errs.Error `json:"error"`
}

// Success wraps a value.
func Success[T any](value T) Result[T] {
	return Result[T]{IsSuccess: true, Value: &value, Error: errs.None}
}

// Failure wraps an error. Value is left nil and serializes as null.
func Failure[T any](err errs.Error) Result[T] {
	return Result[T]{IsSuccess: false, Error: err}
}
