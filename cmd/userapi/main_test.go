package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestServe_MigrationFailureIsReturned(t *testing.T) {
	t.Setenv("USERAPI_PRIMARY__ENV", "development")
	t.Setenv("USERAPI_SERVER__PORT", "0")
	t.Setenv("USERAPI_SERVER__READ_TIMEOUT", "5")
	t.Setenv("USERAPI_SERVER__WRITE_TIMEOUT", "5")
	t.Setenv("USERAPI_SERVER__IDLE_TIMEOUT", "5")
	t.Setenv("USERAPI_SERVER__CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	// Nothing listens on port 1, so the migration connect fails fast.
	t.Setenv("USERAPI_DATABASE__URL", "postgres://u:p@127.0.0.1:1/users?sslmode=disable&connect_timeout=2")

	app := &cli.App{Name: "userapi", Commands: []*cli.Command{serveCommand()}}

	err := app.Run([]string{"userapi", "serve"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to migrate database")
}
