// Package database contains the logic for establishing connections to the
// PostgreSQL database.
//
// It handles:
//   - creating a pgx connection pool (pgxpool) from the configured DSN
//   - applying pool tuning from config
//   - wiring query tracing/logging (pgx tracelog)
//   - optional New Relic instrumentation (nrpgx5)
//   - exposing a bun ORM handle that shares the same pool
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/deppfellow/user-api/internal/config"
	loggerConfig "github.com/deppfellow/user-api/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// Database wraps the pgx connection pool and the bun ORM built on top of it.
//
// Pool is used for health checks and raw access. Bun is what repositories
// query through; closing the Database closes both.
type Database struct {
	Pool *pgxpool.Pool
	Bun  *bun.DB
	sql  *sql.DB
	log  *zerolog.Logger
}

// multiTracer allows chaining multiple tracers.
//
// pgx supports a single Tracer in ConnConfig, so New Relic and the local SQL
// logger are run through this adapter when both are enabled.
type multiTracer struct {
	tracers []any
}

// TraceQueryStart implements pgx.QueryTracer, threading ctx through every
// tracer that supports it.
func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

// TraceQueryEnd implements pgx.QueryTracer.
func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// DatabasePingTimeout is the number of seconds to wait for the startup ping.
const DatabasePingTimeout = 10

// New creates a PostgreSQL connection pool with instrumentation.
//
// Behavior:
//   - Parse the DSN into a pgxpool config and apply pool tuning
//   - Attach the New Relic tracer if available
//   - In local env: attach the SQL tracelogger (chained if both exist)
//   - Create the pool, ping it, and open bun over it
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	applyPoolSettings(pgxPoolConfig, cfg.Database)

	if loggerService != nil && loggerService.GetApplication() != nil {
		pgxPoolConfig.ConnConfig.Tracer = nrpgx5.NewTracer()
	}

	// SQL logging is very noisy, so it's only enabled in local.
	if cfg.Primary.Env == "local" {
		pgxPoolConfig.ConnConfig.Tracer = withLocalTracer(pgxPoolConfig.ConnConfig.Tracer, logger.GetLevel())
	}

	if threshold := cfg.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		pgxPoolConfig.ConnConfig.Tracer = chain(pgxPoolConfig.ConnConfig.Tracer, &slowQueryTracer{
			threshold: threshold,
			log:       logger,
		})
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := FromPool(pool, logger)

	logger.Info().
		Int32("max_conns", pgxPoolConfig.MaxConns).
		Msg("connected to the database")

	return database, nil
}

// FromPool wraps an existing pool. bun talks to the pool through pgx's
// database/sql adapter so both share the same connections and tracers.
func FromPool(pool *pgxpool.Pool, logger *zerolog.Logger) *Database {
	sqldb := stdlib.OpenDBFromPool(pool)

	return &Database{
		Pool: pool,
		Bun:  bun.NewDB(sqldb, pgdialect.New()),
		sql:  sqldb,
		log:  logger,
	}
}

func applyPoolSettings(pc *pgxpool.Config, dc config.DatabaseConfig) {
	if dc.MaxOpenConns > 0 {
		pc.MaxConns = int32(dc.MaxOpenConns)
	}
	if dc.MaxIdleConns > 0 {
		// pgxpool has no idle cap; keeping that many warm is the closest match.
		minConns := int32(dc.MaxIdleConns)
		if minConns > pc.MaxConns {
			minConns = pc.MaxConns
		}
		pc.MinConns = minConns
	}
	if dc.ConnMaxLifetime > 0 {
		pc.MaxConnLifetime = time.Duration(dc.ConnMaxLifetime) * time.Second
	}
	if dc.ConnMaxIdleTime > 0 {
		pc.MaxConnIdleTime = time.Duration(dc.ConnMaxIdleTime) * time.Second
	}
}

func withLocalTracer(existing pgx.QueryTracer, level zerolog.Level) pgx.QueryTracer {
	localTracer := &tracelog.TraceLog{
		Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(level)),
		LogLevel: loggerConfig.GetPgxTraceLogLevel(level),
	}

	return chain(existing, localTracer)
}

// chain appends next to the existing tracer, if any.
func chain(existing, next pgx.QueryTracer) pgx.QueryTracer {
	if existing == nil {
		return next
	}

	if mt, ok := existing.(*multiTracer); ok {
		mt.tracers = append(mt.tracers, next)
		return mt
	}

	return &multiTracer{tracers: []any{existing, next}}
}

type queryStartKey struct{}

type queryStart struct {
	at  time.Time
	sql string
}

// slowQueryTracer warns about queries slower than threshold.
type slowQueryTracer struct {
	threshold time.Duration
	log       *zerolog.Logger
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{at: time.Now(), sql: data.SQL})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	if elapsed := time.Since(start.at); elapsed > t.threshold {
		t.log.Warn().
			Dur("duration", elapsed).
			Dur("threshold", t.threshold).
			Str("sql", start.sql).
			Str("command_tag", data.CommandTag.String()).
			Msg("slow query")
	}
}

// Close closes bun's handle and the underlying pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")

	var err error
	if db.sql != nil {
		err = db.sql.Close()
	}
	db.Pool.Close()
	return err
}
