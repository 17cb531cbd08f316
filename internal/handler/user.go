package handler

import (
	"fmt"

	"github.com/deppfellow/user-api/internal/model"
	"github.com/deppfellow/user-api/internal/server"
	"github.com/deppfellow/user-api/internal/service"
	"github.com/deppfellow/user-api/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler exposes the user endpoints. Request bodies are validated by
// validation.Filter before any method here runs.
type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

// errMissingPayload means a body route was registered without its filter.
var errMissingPayload = errors.New("validated payload missing from request context")

func userPayload(c echo.Context) (*model.UserRequest, error) {
	payload, ok := validation.Payload[model.UserRequest](c)
	if !ok {
		return nil, errors.WithStack(errMissingPayload)
	}
	return payload, nil
}

func (h *UserHandler) List(c echo.Context, _ *NoParams) ([]model.User, error) {
	return h.users.List(c.Request().Context())
}

// ListPreview is the v2 list: every user plus one unsaved derived record.
func (h *UserHandler) ListPreview(c echo.Context, _ *NoParams) ([]model.User, error) {
	return h.users.ListPreview(c.Request().Context())
}

func (h *UserHandler) Get(c echo.Context, req *IDParams) (model.User, error) {
	user, err := h.users.Get(c.Request().Context(), req.ID)
	if err != nil {
		return model.User{}, err
	}
	return *user, nil
}

// Create persists a new user and points Location at it.
func (h *UserHandler) Create(c echo.Context, _ *NoParams) (model.User, error) {
	payload, err := userPayload(c)
	if err != nil {
		return model.User{}, err
	}

	user, err := h.users.Create(c.Request().Context(), payload)
	if err != nil {
		return model.User{}, err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/v1/users/%d", user.ID))

	return *user, nil
}

func (h *UserHandler) Update(c echo.Context, req *IDParams) (model.User, error) {
	payload, err := userPayload(c)
	if err != nil {
		return model.User{}, err
	}

	user, err := h.users.Update(c.Request().Context(), req.ID, payload)
	if err != nil {
		return model.User{}, err
	}
	return *user, nil
}

func (h *UserHandler) Delete(c echo.Context, req *IDParams) (string, error) {
	return h.users.Delete(c.Request().Context(), req.ID)
}
