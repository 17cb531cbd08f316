// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"strconv"

	"github.com/deppfellow/user-api/internal/handler"
	"github.com/deppfellow/user-api/internal/middleware"
	"github.com/deppfellow/user-api/internal/openapi"
	"github.com/deppfellow/user-api/internal/server"
	"github.com/deppfellow/user-api/internal/validation"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// APITitle is the title of the generated API documents.
const APITitle = "User API"

// NewRouter builds the echo instance with the global middleware chain, the
// versioned API groups and the system routes.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)
	v := validation.New(s.Config.Validation)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Pre(echoMiddleware.RemoveTrailingSlash())

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Metrics.Instrument(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.RateLimit.Limit(),
	)

	routes := userRoutes(h.User, v)
	for _, version := range middlewares.Versioning.Supported() {
		doc := registerVersion(router, middlewares.Versioning, version, routes)
		doc.AddSchemas(openapi.UserSchemas(v.Limits().NameMaxLength))
		h.OpenAPI.SetDocument(version, doc)
	}

	// Requests under /api/{segment} that matched no versioned route.
	router.Any("/api/:version", middlewares.Versioning.Fallback)
	router.Any("/api/:version/*", middlewares.Versioning.Fallback)

	registerSystemRoutes(router, s, h)

	return router
}

// registerVersion mounts the routes served in version under /api/v{n} and
// returns the matching OpenAPI document.
func registerVersion(router *echo.Echo, versioning *middleware.Versioning, version int, routes []Route) *openapi.Document {
	prefix := "/api/v" + strconv.Itoa(version)
	group := router.Group(prefix, versioning.Group(version))
	doc := openapi.New(APITitle, "v"+strconv.Itoa(version))

	for _, route := range routes {
		if !route.servedIn(version) {
			continue
		}
		group.Add(route.Method, route.Path, route.Handler, route.Middleware...)
		doc.AddOperation(route.Method, prefix+route.Path, route.Doc)
	}

	return doc
}
