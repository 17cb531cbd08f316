package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		segment string
		want    int
		ok      bool
	}{
		{"v1", 1, true},
		{"v2.0", 2, true},
		{"v10", 10, true},
		{"2", 0, false},
		{"v", 0, false},
		{"v0", 0, false},
		{"vx", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseVersion(tt.segment)
		assert.Equal(t, tt.ok, ok, tt.segment)
		assert.Equal(t, tt.want, got, tt.segment)
	}
}

func TestNewVersioning_SortsVersions(t *testing.T) {
	t.Parallel()

	v := NewVersioning(2, 1)
	assert.Equal(t, []int{1, 2}, v.Supported())
	assert.Equal(t, "1, 2", v.header)
}

func fallbackContext(path, version string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), rec)
	c.SetParamNames("version")
	c.SetParamValues(version)
	return c, rec
}

func TestVersioning_Fallback(t *testing.T) {
	t.Parallel()

	v := NewVersioning(1, 2)

	t.Run("unsupported", func(t *testing.T) {
		c, rec := fallbackContext("/api/v3/users", "v3")

		var problem *errs.ProblemDetails
		require.ErrorAs(t, v.Fallback(c), &problem)
		assert.Equal(t, http.StatusBadRequest, problem.Status)
		assert.Equal(t, codeUnsupportedVersion, problem.Code)
		assert.Equal(t,
			"The HTTP resource that matches the request URI '/api/v3/users' does not support the API version '3'.",
			problem.Detail)
		assert.Equal(t, "1, 2", rec.Header().Get(SupportedVersionsHeader))
	})

	t.Run("unparsable", func(t *testing.T) {
		c, _ := fallbackContext("/api/latest/users", "latest")

		var problem *errs.ProblemDetails
		require.ErrorAs(t, v.Fallback(c), &problem)
		assert.Equal(t, codeUnsupportedVersion, problem.Code)
	})

	t.Run("supported version without route", func(t *testing.T) {
		c, _ := fallbackContext("/api/v1/nothing", "v1")

		var httpErr *echo.HTTPError
		require.ErrorAs(t, v.Fallback(c), &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestVersioning_Group(t *testing.T) {
	t.Parallel()

	v := NewVersioning(1, 2)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v2/users", nil), rec)

	var seen any
	err := v.Group(2)(func(c echo.Context) error {
		seen = c.Get(APIVersionKey)
		return nil
	})(c)

	require.NoError(t, err)
	assert.Equal(t, 2, seen)
	assert.Equal(t, "1, 2", rec.Header().Get(SupportedVersionsHeader))
}
