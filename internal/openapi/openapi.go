// Package openapi builds the OpenAPI 3 documents served for each API
// version. Operations are declared next to their routes and collected here;
// nothing is discovered through reflection.
package openapi

import (
	"encoding/json"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is the OpenAPI version every document declares.
const Version = "3.0.3"

// Document is the top-level OpenAPI document.
type Document struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       Info                `json:"info" yaml:"info"`
	Servers    []Server            `json:"servers,omitempty" yaml:"servers,omitempty"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components Components          `json:"components" yaml:"components"`
}

// Info holds API metadata.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Server is a base URL the API is reachable at.
type Server struct {
	URL string `json:"url" yaml:"url"`
}

// PathItem maps lowercase HTTP methods to operations.
type PathItem map[string]Operation

// Operation describes a single API operation on a path.
type Operation struct {
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string              `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
}

// Parameter describes a path, query or header parameter.
type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Schema      *Schema `json:"schema" yaml:"schema"`
}

// RequestBody describes the request body.
type RequestBody struct {
	Required bool                 `json:"required" yaml:"required"`
	Content  map[string]MediaType `json:"content" yaml:"content"`
}

// MediaType is a media type object with a schema.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Response describes a single response.
type Response struct {
	Description string               `json:"description" yaml:"description"`
	Headers     map[string]Header    `json:"headers,omitempty" yaml:"headers,omitempty"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// Header describes a response header.
type Header struct {
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      *Schema `json:"schema" yaml:"schema"`
}

// Components holds the reusable schemas referenced by operations.
type Components struct {
	Schemas map[string]*Schema `json:"schemas" yaml:"schemas"`
}

// Schema is the subset of JSON Schema used by the documents.
type Schema struct {
	Ref                  string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type                 string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format               string             `json:"format,omitempty" yaml:"format,omitempty"`
	Description          string             `json:"description,omitempty" yaml:"description,omitempty"`
	Nullable             bool               `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	MinLength            *int               `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength            *int               `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Required             []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
	Example              any                `json:"example,omitempty" yaml:"example,omitempty"`
}

// Ref returns a schema referencing a component schema by name.
func Ref(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

// New creates an empty document for one API version.
func New(title, version string) *Document {
	return &Document{
		OpenAPI: Version,
		Info: Info{
			Title:   title,
			Version: version,
		},
		Paths:      make(map[string]PathItem),
		Components: Components{Schemas: make(map[string]*Schema)},
	}
}

// AddOperation registers op under method and path. Echo style parameters
// (":id") are rewritten to OpenAPI templates ("{id}").
func (d *Document) AddOperation(method, path string, op Operation) {
	path = ToOpenAPIPath(path)
	method = strings.ToLower(method)

	if op.Responses == nil {
		op.Responses = make(map[string]Response)
	}

	if d.Paths[path] == nil {
		d.Paths[path] = make(PathItem)
	}
	d.Paths[path][method] = op
}

// AddSchemas merges schemas into the document components.
func (d *Document) AddSchemas(schemas map[string]*Schema) {
	for name, s := range schemas {
		d.Components.Schemas[name] = s
	}
}

// Operations returns "METHOD path" keys sorted, mainly for inspection.
func (d *Document) Operations() []string {
	var ops []string
	for path, item := range d.Paths {
		for method := range item {
			ops = append(ops, strings.ToUpper(method)+" "+path)
		}
	}
	sort.Strings(ops)
	return ops
}

// WriteJSON writes the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteYAML writes the document as YAML.
func (d *Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

// ToOpenAPIPath converts "/users/:id" into "/users/{id}".
func ToOpenAPIPath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, ":") {
			segments[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}
