// Package repositorytest provides an in-memory UserStore for tests that
// exercise the service and HTTP layers without a database.
package repositorytest

import (
	"context"
	"sort"
	"sync"

	"github.com/deppfellow/user-api/internal/model"
	"github.com/deppfellow/user-api/internal/repository"
)

// UserStore keeps users in a map. IDs are assigned sequentially from 1 and
// are never reused.
type UserStore struct {
	mu     sync.Mutex
	users  map[int64]model.User
	nextID int64

	// Err, when set, is returned by every call.
	Err error
}

var _ repository.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]model.User), nextID: 1}
}

func (s *UserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

func (s *UserStore) FindByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (s *UserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Update(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// Len returns the number of stored users.
func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
