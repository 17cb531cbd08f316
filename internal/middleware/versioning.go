package middleware

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/labstack/echo/v4"
)

const (
	// SupportedVersionsHeader lists the API versions a route supports.
	SupportedVersionsHeader = "api-supported-versions"

	// APIVersionKey is the echo context key of the resolved API version.
	APIVersionKey = "api_version"

	codeUnsupportedVersion = "UnsupportedApiVersion"
)

// Versioning resolves the URL segment version ("v2") of versioned routes.
type Versioning struct {
	supported []int
	header    string
}

// NewVersioning creates a Versioning for the given supported versions.
func NewVersioning(supported ...int) *Versioning {
	sorted := slices.Clone(supported)
	slices.Sort(sorted)

	labels := make([]string, len(sorted))
	for i, v := range sorted {
		labels[i] = strconv.Itoa(v)
	}

	return &Versioning{supported: sorted, header: strings.Join(labels, ", ")}
}

// Supported returns the supported versions in ascending order.
func (v *Versioning) Supported() []int {
	return slices.Clone(v.supported)
}

// Group returns the middleware of a version group: it records the version
// and reports the supported versions on every response.
func (v *Versioning) Group(version int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(APIVersionKey, version)
			c.Response().Header().Set(SupportedVersionsHeader, v.header)
			return next(c)
		}
	}
}

// Fallback handles requests under /api/:version that matched no route.
// An unknown version is a 400 problem; a known version falls through to a
// 404.
func (v *Versioning) Fallback(c echo.Context) error {
	segment := c.Param("version")
	c.Response().Header().Set(SupportedVersionsHeader, v.header)

	version, ok := ParseVersion(segment)
	if !ok || !slices.Contains(v.supported, version) {
		code := codeUnsupportedVersion
		detail := fmt.Sprintf(
			"The HTTP resource that matches the request URI '%s' does not support the API version '%s'.",
			c.Request().URL.Path, strings.TrimPrefix(segment, "v"),
		)
		return errs.NewBadRequestProblem(detail, &code, nil)
	}

	return echo.NewHTTPError(http.StatusNotFound)
}

// ParseVersion parses "v2" (or "v2.0") into 2.
func ParseVersion(segment string) (int, bool) {
	if !strings.HasPrefix(segment, "v") {
		return 0, false
	}

	major, _, _ := strings.Cut(segment[1:], ".")
	n, err := strconv.Atoi(major)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
