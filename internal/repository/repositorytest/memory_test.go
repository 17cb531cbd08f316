package repositorytest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/user-api/internal/model"
	"github.com/deppfellow/user-api/internal/repository"
	"github.com/deppfellow/user-api/internal/repository/repositorytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := repositorytest.NewUserStore()

	a := &model.User{Name: "A", Address: "1"}
	b := &model.User{Name: "B", Address: "2"}
	require.NoError(t, store.Create(ctx, a))
	require.NoError(t, store.Create(ctx, b))
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	require.NoError(t, store.Delete(ctx, a.ID))
	assert.ErrorIs(t, store.Delete(ctx, a.ID), repository.ErrUserNotFound)

	c := &model.User{Name: "C", Address: "3"}
	require.NoError(t, store.Create(ctx, c))
	assert.Equal(t, int64(3), c.ID)

	users, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.User{*b, *c}, users)

	assert.ErrorIs(t, store.Update(ctx, &model.User{ID: 42}), repository.ErrUserNotFound)

	store.Err = errors.New("down")
	_, err = store.List(ctx)
	assert.EqualError(t, err, "down")
}
