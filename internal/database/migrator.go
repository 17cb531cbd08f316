package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// Migrations are embedded so the binary carries its own schema.
//
//go:embed migrations/*.sql
var migrations embed.FS

// versionTable stores the applied migration version.
const versionTable = "schema_version"

// MigrationStatus describes where the schema stands relative to the
// embedded migrations.
type MigrationStatus struct {
	Current int32
	Latest  int32
}

// UpToDate reports whether every embedded migration has been applied.
func (s MigrationStatus) UpToDate() bool {
	return s.Current == s.Latest
}

func newMigrator(ctx context.Context, dsn string) (*pgx.Conn, *tern.Migrator, error) {
	// A single connection is enough for a one-time action.
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	m, err := tern.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		conn.Close(ctx)
		return nil, nil, fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		conn.Close(ctx)
		return nil, nil, fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		conn.Close(ctx)
		return nil, nil, fmt.Errorf("loading database migrations: %w", err)
	}

	return conn, m, nil
}

// Migrate applies every pending embedded migration using jackc/tern.
func Migrate(ctx context.Context, logger *zerolog.Logger, dsn string) error {
	conn, m, err := newMigrator(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}

// Status reports the applied and latest migration versions without
// changing anything.
func Status(ctx context.Context, dsn string) (MigrationStatus, error) {
	conn, m, err := newMigrator(ctx, dsn)
	if err != nil {
		return MigrationStatus{}, err
	}
	defer conn.Close(ctx)

	current, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("retrieving current database migration version: %w", err)
	}

	return MigrationStatus{Current: current, Latest: int32(len(m.Migrations))}, nil
}
