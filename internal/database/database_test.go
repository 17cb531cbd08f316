package database

import (
	"context"
	"testing"
	"time"

	"github.com/deppfellow/user-api/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPoolSettings(t *testing.T) {
	t.Parallel()

	pc, err := pgxpool.ParseConfig("postgres://u:p@localhost:5432/db?sslmode=disable")
	require.NoError(t, err)

	applyPoolSettings(pc, config.DatabaseConfig{
		MaxOpenConns:    8,
		MaxIdleConns:    20,
		ConnMaxLifetime: 300,
		ConnMaxIdleTime: 60,
	})

	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(8), pc.MinConns, "idle conns are capped at max conns")
	assert.Equal(t, 5*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, time.Minute, pc.MaxConnIdleTime)
}

type recordingTracer struct {
	started, ended int
}

func (r *recordingTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	r.started++
	return ctx
}

func (r *recordingTracer) TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData) {
	r.ended++
}

func TestChain(t *testing.T) {
	t.Parallel()

	a, b, c := &recordingTracer{}, &recordingTracer{}, &recordingTracer{}

	assert.Same(t, a, chain(nil, a))

	tracer := chain(chain(a, b), c)
	mt, ok := tracer.(*multiTracer)
	require.True(t, ok)
	assert.Len(t, mt.tracers, 3)

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "select 1"})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	for _, r := range []*recordingTracer{a, b, c} {
		assert.Equal(t, 1, r.started)
		assert.Equal(t, 1, r.ended)
	}
}

func TestWithLocalTracer(t *testing.T) {
	t.Parallel()

	tracer := withLocalTracer(nil, zerolog.DebugLevel)
	local, ok := tracer.(*tracelog.TraceLog)
	require.True(t, ok)
	assert.Equal(t, tracelog.LogLevelDebug, local.LogLevel)
}
