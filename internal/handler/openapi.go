package handler

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/deppfellow/user-api/internal/middleware"
	"github.com/deppfellow/user-api/internal/openapi"
	"github.com/deppfellow/user-api/internal/server"
	"github.com/labstack/echo/v4"
)

//go:embed static/docs.html
var docsHTML string

var docsTemplate = template.Must(template.New("docs").Parse(docsHTML))

// OpenAPIHandler serves one OpenAPI document per API version and a Swagger
// UI page listing them. Documents are registered by the router once the
// route table is known.
type OpenAPIHandler struct {
	Handler

	mu   sync.RWMutex
	docs map[int]*openapi.Document
}

// NewOpenAPIHandler constructs an OpenAPIHandler with access to shared dependencies.
func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		docs:    make(map[int]*openapi.Document),
	}
}

// SetDocument registers the document of an API version.
func (h *OpenAPIHandler) SetDocument(version int, doc *openapi.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.docs[version] = doc
}

func (h *OpenAPIHandler) document(c echo.Context) (*openapi.Document, error) {
	version, ok := middleware.ParseVersion(c.Param("version"))

	h.mu.RLock()
	doc := h.docs[version]
	h.mu.RUnlock()

	if !ok || doc == nil {
		return nil, errs.NewNotFoundProblem(fmt.Sprintf("No API document for version %q", c.Param("version")), nil)
	}
	return doc, nil
}

// ServeJSON serves /swagger/:version/swagger.json.
func (h *OpenAPIHandler) ServeJSON(c echo.Context) error {
	doc, err := h.document(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := doc.WriteJSON(&buf); err != nil {
		return fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, buf.Bytes())
}

// ServeYAML serves /swagger/:version/swagger.yaml.
func (h *OpenAPIHandler) ServeYAML(c echo.Context) error {
	doc, err := h.document(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := doc.WriteYAML(&buf); err != nil {
		return fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}
	return c.Blob(http.StatusOK, "application/yaml", buf.Bytes())
}

type docLink struct {
	Name string
	URL  string
}

// ServeOpenAPIUI serves the Swagger UI page. Caching is disabled so docs
// updates appear immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	h.mu.RLock()
	versions := make([]int, 0, len(h.docs))
	for v := range h.docs {
		versions = append(versions, v)
	}
	h.mu.RUnlock()
	sort.Ints(versions)

	links := make([]docLink, len(versions))
	for i, v := range versions {
		links[i] = docLink{
			Name: "v" + strconv.Itoa(v),
			URL:  "/swagger/v" + strconv.Itoa(v) + "/swagger.json",
		}
	}

	var buf bytes.Buffer
	err := docsTemplate.Execute(&buf, struct {
		Title string
		Docs  []docLink
	}{Title: "User API", Docs: links})
	if err != nil {
		return fmt.Errorf("failed to render OpenAPI UI: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")

	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
