package errs_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_None(t *testing.T) {
	t.Parallel()

	assert.True(t, errs.None.IsNone())
	assert.False(t, errs.NewError("User.NotFound", "missing").IsNone())

	b, err := json.Marshal(errs.None)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"","description":null}`, string(b))
}

func TestNewNotFoundFailure(t *testing.T) {
	t.Parallel()

	var err error = errs.NewNotFoundFailure("User.NotFound", "User with ID 7 does not exist")

	var failure *errs.Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, http.StatusNotFound, failure.StatusCode())
	assert.Equal(t, "User.NotFound", failure.Err.Code)
	assert.EqualError(t, err, "User.NotFound: User with ID 7 does not exist")
}

func TestNewValidationProblem(t *testing.T) {
	t.Parallel()

	p := errs.NewValidationProblem([]errs.FieldError{
		{Field: "name", Error: "Name is required"},
		{Field: "address", Error: "Address is required"},
		{Field: "name", Error: "Name must not exceed 5 characters"},
	})

	assert.Equal(t, http.StatusBadRequest, p.StatusCode())
	assert.Equal(t, "Validation Failed", p.Title)
	assert.Equal(t, map[string][]string{
		"name":    {"Name is required", "Name must not exceed 5 characters"},
		"address": {"Address is required"},
	}, p.Errors)
}

func TestProblemConstructors(t *testing.T) {
	t.Parallel()

	code := "USER_INVALID"
	tests := map[string]struct {
		problem    *errs.ProblemDetails
		wantStatus int
		wantCode   string
	}{
		"bad request default code": {
			problem:    errs.NewBadRequestProblem("bad", nil, nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		"bad request custom code": {
			problem:    errs.NewBadRequestProblem("bad", &code, nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   code,
		},
		"not found": {
			problem:    errs.NewNotFoundProblem("Route not found", nil),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		"internal": {
			problem:    errs.NewInternalServerProblem(),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantStatus, tc.problem.Status)
			assert.Equal(t, tc.wantCode, tc.problem.Code)
			assert.NotEmpty(t, tc.problem.Type)
		})
	}
}

func TestProblemDetails_WithDetail(t *testing.T) {
	t.Parallel()

	base := errs.NewNotFoundProblem("a", nil)
	changed := base.WithDetail("b")

	assert.Equal(t, "a", base.Detail)
	assert.Equal(t, "b", changed.Detail)
	assert.EqualError(t, changed, "b")
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "METHOD_NOT_ALLOWED", errs.MakeUpperCaseWithUnderscores("Method Not Allowed"))
}
