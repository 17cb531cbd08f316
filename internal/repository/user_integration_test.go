package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/deppfellow/user-api/internal/database"
	"github.com/deppfellow/user-api/internal/model"
	"github.com/deppfellow/user-api/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a throwaway Postgres, applies the embedded
// migrations and returns a Database connected to it.
func setupPostgres(t *testing.T) *database.Database {
	t.Helper()

	if os.Getenv("USERAPI_INTEGRATION") != "1" {
		t.Skip("set USERAPI_INTEGRATION=1 to run database integration tests")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("userapi"),
		postgres.WithUsername("userapi"),
		postgres.WithPassword("userapi"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := zerolog.Nop()
	require.NoError(t, database.Migrate(ctx, &logger, dsn))

	status, err := database.Status(ctx, dsn)
	require.NoError(t, err)
	require.True(t, status.UpToDate())

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	db := database.FromPool(pool, &logger)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestUserRepository_Integration(t *testing.T) {
	db := setupPostgres(t)
	repo := repository.NewUserRepository(db.Bun)
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	alice := &model.User{Name: "Alice", Address: "1 Main"}
	require.NoError(t, repo.Create(ctx, alice))
	assert.Positive(t, alice.ID)

	bob := &model.User{Name: "Bob", Address: "2 Oak"}
	require.NoError(t, repo.Create(ctx, bob))
	assert.Greater(t, bob.ID, alice.ID)

	got, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	got.Name = "Alicia"
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)
	assert.Equal(t, "1 Main", got.Address)

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, alice.ID, users[0].ID)

	require.NoError(t, repo.Delete(ctx, alice.ID))

	_, err = repo.FindByID(ctx, alice.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, alice.ID), repository.ErrUserNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &model.User{ID: 9999, Name: "x", Address: "y"}), repository.ErrUserNotFound)

	// Ids are never reused after a delete.
	carol := &model.User{Name: "Carol", Address: "3 Elm"}
	require.NoError(t, repo.Create(ctx, carol))
	assert.Greater(t, carol.ID, bob.ID)
}

func TestUserRepository_CheckConstraint(t *testing.T) {
	db := setupPostgres(t)
	repo := repository.NewUserRepository(db.Bun)

	err := repo.Create(context.Background(), &model.User{Name: "  ", Address: "1 Main"})
	assert.Error(t, err)
}
