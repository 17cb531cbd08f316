package handler

import (
	"github.com/deppfellow/user-api/internal/server"
	"github.com/deppfellow/user-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
type Handlers struct {
	User    *UserHandler
	Health  *HealthHandler  // Health serves GET /status.
	OpenAPI *OpenAPIHandler // OpenAPI serves the per-version documents and the docs UI.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		User:    NewUserHandler(s, services.User),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
