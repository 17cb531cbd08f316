// Package repository handles all interactions with the database.
//
// It contains the ORM queries used to fetch, persist, or update data,
// abstracting SQL away from the service layer.
package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/user-api/internal/model"
)

// ErrUserNotFound is returned when no user matches the given id.
var ErrUserNotFound = errors.New("user not found")

// UserStore is the persistence contract for users.
//
// Error semantics:
//   - ErrUserNotFound: the id does not exist (FindByID, Update, Delete)
//   - other errors: infrastructure failures
type UserStore interface {
	// List returns every user ordered by id.
	List(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// Create inserts user and sets its ID.
	Create(ctx context.Context, user *model.User) error
	// Update overwrites name and address of the user with user.ID.
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
}
