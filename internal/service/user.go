package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/deppfellow/user-api/internal/model"
	"github.com/deppfellow/user-api/internal/repository"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// CodeUserNotFound is the Result error code for a missing user.
const CodeUserNotFound = "User.NotFound"

// previewSuffix is appended to the synthetic record of the v2 list.
const previewSuffix = " V2"

// UserNotFound builds the failure returned for an unknown id.
func UserNotFound(id int64) *errs.Failure {
	return errs.NewNotFoundFailure(CodeUserNotFound, fmt.Sprintf("User with ID %d does not exist", id))
}

// UserService implements the user operations on top of a UserStore.
type UserService struct {
	users repository.UserStore
}

func NewUserService(users repository.UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// ListPreview returns every user followed by one synthetic record derived
// from the first user. The synthetic record is never persisted and has id 0.
// With an empty store it is built from a zero-value user (" V2").
func (s *UserService) ListPreview(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	var first model.User
	if len(users) > 0 {
		first = users[0]
	}

	return append(users, model.User{
		Name:    first.Name + previewSuffix,
		Address: first.Address + previewSuffix,
	}), nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, id)
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, req *model.UserRequest) (*model.User, error) {
	user := req.ToUser()

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("user_id", user.ID).
		Msg("user created")

	return user, nil
}

// Update overwrites name and address of an existing user. A missing id
// short-circuits before anything is written.
func (s *UserService) Update(ctx context.Context, id int64, req *model.UserRequest) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, id)
	}

	req.Apply(user)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFoundOr(err, id)
	}

	zerolog.Ctx(ctx).Info().
		Int64("user_id", user.ID).
		Msg("user updated")

	return user, nil
}

// Delete removes a user and returns the confirmation message.
func (s *UserService) Delete(ctx context.Context, id int64) (string, error) {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return "", notFoundOr(err, id)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return "", notFoundOr(err, id)
	}

	zerolog.Ctx(ctx).Info().
		Int64("user_id", id).
		Msg("user deleted")

	return fmt.Sprintf("User %d is deleted successfully", id), nil
}

func notFoundOr(err error, id int64) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return UserNotFound(id)
	}
	return err
}
