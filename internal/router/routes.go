package router

import (
	"net/http"

	"github.com/deppfellow/user-api/internal/handler"
	"github.com/deppfellow/user-api/internal/model"
	"github.com/deppfellow/user-api/internal/openapi"
	"github.com/deppfellow/user-api/internal/validation"
	"github.com/labstack/echo/v4"
)

// Route describes one versioned endpoint. Path is relative to /api/v{n}.
type Route struct {
	Method     string
	Path       string
	Versions   []int
	Handler    echo.HandlerFunc
	Middleware []echo.MiddlewareFunc
	Doc        openapi.Operation
}

func (r Route) servedIn(version int) bool {
	for _, v := range r.Versions {
		if v == version {
			return true
		}
	}
	return false
}

func responses(pairs ...any) map[string]openapi.Response {
	out := make(map[string]openapi.Response, len(pairs)/2+1)
	for i := 0; i+1 < len(pairs); i += 2 {
		out[openapi.Status(pairs[i].(int))] = pairs[i+1].(openapi.Response)
	}
	status, internal := openapi.InternalError()
	out[status] = internal
	return out
}

// userRoutes is the static route table of the user resource.
func userRoutes(h *handler.UserHandler, v *validation.Validator) []Route {
	userBody := validation.Filter[model.UserRequest](v)
	userID := openapi.PathID("User id")
	notFound := openapi.JSONResponse("No user with this id", openapi.SchemaUserResult)
	invalid := openapi.ProblemResponse("The payload failed validation")

	return []Route{
		{
			Method:   http.MethodGet,
			Path:     "/users",
			Versions: []int{1},
			Handler:  handler.Handle(h.List, http.StatusOK),
			Doc: openapi.Operation{
				Summary:     "List users",
				OperationID: "listUsers",
				Tags:        []string{"Users"},
				Responses: responses(
					http.StatusOK, openapi.JSONResponse("All users", openapi.SchemaUserListResult),
				),
			},
		},
		{
			Method:   http.MethodGet,
			Path:     "/users",
			Versions: []int{2},
			Handler:  handler.Handle(h.ListPreview, http.StatusOK),
			Doc: openapi.Operation{
				Summary:     "List users with preview record",
				Description: "Returns every user followed by an unsaved record derived from the first one.",
				OperationID: "listUsersPreview",
				Tags:        []string{"Users"},
				Responses: responses(
					http.StatusOK, openapi.JSONResponse("All users plus the preview record", openapi.SchemaUserListResult),
				),
			},
		},
		{
			Method:   http.MethodGet,
			Path:     "/users/:id",
			Versions: []int{1},
			Handler:  handler.Handle(h.Get, http.StatusOK),
			Doc: openapi.Operation{
				Summary:     "Get a user",
				OperationID: "getUser",
				Tags:        []string{"Users"},
				Parameters:  []openapi.Parameter{userID},
				Responses: responses(
					http.StatusOK, openapi.JSONResponse("The user", openapi.SchemaUserResult),
					http.StatusNotFound, notFound,
				),
			},
		},
		{
			Method:     http.MethodPost,
			Path:       "/users",
			Versions:   []int{1},
			Handler:    handler.Handle(h.Create, http.StatusCreated),
			Middleware: []echo.MiddlewareFunc{userBody},
			Doc: openapi.Operation{
				Summary:     "Create a user",
				OperationID: "createUser",
				Tags:        []string{"Users"},
				RequestBody: openapi.JSONBody(openapi.SchemaUserRequest),
				Responses: responses(
					http.StatusCreated, openapi.Response{
						Description: "The created user",
						Headers: map[string]openapi.Header{
							"Location": {Description: "URL of the created user", Schema: &openapi.Schema{Type: "string"}},
						},
						Content: openapi.JSONResponse("", openapi.SchemaUserResult).Content,
					},
					http.StatusBadRequest, invalid,
				),
			},
		},
		{
			Method:     http.MethodPut,
			Path:       "/users/:id",
			Versions:   []int{1},
			Handler:    handler.Handle(h.Update, http.StatusOK),
			Middleware: []echo.MiddlewareFunc{userBody},
			Doc: openapi.Operation{
				Summary:     "Update a user",
				OperationID: "updateUser",
				Tags:        []string{"Users"},
				Parameters:  []openapi.Parameter{userID},
				RequestBody: openapi.JSONBody(openapi.SchemaUserRequest),
				Responses: responses(
					http.StatusOK, openapi.JSONResponse("The updated user", openapi.SchemaUserResult),
					http.StatusBadRequest, invalid,
					http.StatusNotFound, notFound,
				),
			},
		},
		{
			Method:   http.MethodDelete,
			Path:     "/users/:id",
			Versions: []int{1},
			Handler:  handler.Handle(h.Delete, http.StatusOK),
			Doc: openapi.Operation{
				Summary:     "Delete a user",
				OperationID: "deleteUser",
				Tags:        []string{"Users"},
				Parameters:  []openapi.Parameter{userID},
				Responses: responses(
					http.StatusOK, openapi.JSONResponse("Confirmation message", openapi.SchemaMessageResult),
					http.StatusNotFound, notFound,
				),
			},
		},
	}
}
