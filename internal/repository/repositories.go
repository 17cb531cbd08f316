package repository

import (
	"github.com/deppfellow/user-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users UserStore
}

// NewRepositories constructs the repository container on top of the
// server's bun handle.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Users: NewUserRepository(s.DB.Bun),
	}
}
