package openapi

import (
	"net/http"
	"strconv"

	"github.com/deppfellow/user-api/internal/errs"
)

const (
	MediaJSON    = "application/json"
	MediaProblem = errs.ProblemContentType
)

// Component schema names.
const (
	SchemaUser           = "User"
	SchemaUserRequest    = "UserRequest"
	SchemaContactInfo    = "ContactInfo"
	SchemaError          = "Error"
	SchemaProblem        = "ProblemDetails"
	SchemaUserResult     = "UserResult"
	SchemaUserListResult = "UserListResult"
	SchemaMessageResult  = "MessageResult"
)

func intPtr(v int) *int { return &v }

func str() *Schema { return &Schema{Type: "string"} }

// resultSchema describes the Result envelope around value.
func resultSchema(value *Schema) *Schema {
	value.Nullable = true
	return &Schema{
		Type:     "object",
		Required: []string{"isSuccess", "value", "error"},
		Properties: map[string]*Schema{
			"isSuccess": {Type: "boolean"},
			"value":     value,
			"error":     Ref(SchemaError),
		},
	}
}

// UserSchemas returns the component schemas of the user API. nameMaxLength
// is reflected on the request schema.
func UserSchemas(nameMaxLength int) map[string]*Schema {
	return map[string]*Schema{
		SchemaUser: {
			Type:     "object",
			Required: []string{"id", "name", "address"},
			Properties: map[string]*Schema{
				"id":      {Type: "integer", Format: "int64"},
				"name":    str(),
				"address": str(),
			},
		},
		SchemaUserRequest: {
			Type:     "object",
			Required: []string{"name", "address"},
			Properties: map[string]*Schema{
				"name":        {Type: "string", MinLength: intPtr(1), MaxLength: intPtr(nameMaxLength), Example: "Alice"},
				"address":     {Type: "string", MinLength: intPtr(1), Example: "1 Main"},
				"contactInfo": Ref(SchemaContactInfo),
			},
		},
		SchemaContactInfo: {
			Type:     "object",
			Required: []string{"mobileNumber", "office"},
			Properties: map[string]*Schema{
				"mobileNumber": {Type: "string", MinLength: intPtr(1)},
				"office":       {Type: "string", MinLength: intPtr(1)},
				"residence":    str(),
			},
		},
		SchemaError: {
			Type:     "object",
			Required: []string{"code", "description"},
			Properties: map[string]*Schema{
				"code":        str(),
				"description": {Type: "string", Nullable: true},
			},
		},
		SchemaProblem: {
			Type:     "object",
			Required: []string{"title", "status"},
			Properties: map[string]*Schema{
				"type":      str(),
				"title":     str(),
				"status":    {Type: "integer"},
				"detail":    str(),
				"instance":  str(),
				"code":      str(),
				"requestId": str(),
				"traceId":   str(),
				"errors": {
					Type:                 "object",
					AdditionalProperties: &Schema{Type: "array", Items: str()},
				},
			},
		},
		SchemaUserResult:     resultSchema(Ref(SchemaUser)),
		SchemaUserListResult: resultSchema(&Schema{Type: "array", Items: Ref(SchemaUser)}),
		SchemaMessageResult:  resultSchema(str()),
	}
}

// JSONBody is a required JSON request body of the named schema.
func JSONBody(schema string) *RequestBody {
	return &RequestBody{
		Required: true,
		Content:  map[string]MediaType{MediaJSON: {Schema: Ref(schema)}},
	}
}

// JSONResponse is a JSON response of the named schema.
func JSONResponse(description, schema string) Response {
	return Response{
		Description: description,
		Content:     map[string]MediaType{MediaJSON: {Schema: Ref(schema)}},
	}
}

// ProblemResponse is a problem-details response.
func ProblemResponse(description string) Response {
	return Response{
		Description: description,
		Content:     map[string]MediaType{MediaProblem: {Schema: Ref(SchemaProblem)}},
	}
}

// PathID is the integer "id" path parameter.
func PathID(description string) Parameter {
	return Parameter{
		Name:        "id",
		In:          "path",
		Description: description,
		Required:    true,
		Schema:      &Schema{Type: "integer", Format: "int64"},
	}
}

// Status renders a status code as a responses map key.
func Status(code int) string {
	return strconv.Itoa(code)
}

// InternalError is attached to every operation.
func InternalError() (string, Response) {
	return Status(http.StatusInternalServerError), ProblemResponse("Unexpected error")
}
