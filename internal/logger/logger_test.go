package logger

import (
	"testing"

	"github.com/deppfellow/user-api/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPgxTraceLogLevel(t *testing.T) {
	tests := map[zerolog.Level]tracelog.LogLevel{
		zerolog.TraceLevel: tracelog.LogLevelTrace,
		zerolog.DebugLevel: tracelog.LogLevelDebug,
		zerolog.InfoLevel:  tracelog.LogLevelInfo,
		zerolog.WarnLevel:  tracelog.LogLevelWarn,
		zerolog.ErrorLevel: tracelog.LogLevelError,
		zerolog.Disabled:   tracelog.LogLevelNone,
	}

	for in, want := range tests {
		assert.Equal(t, want, GetPgxTraceLogLevel(in), in.String())
	}
}

func TestNewLoggerService_WithoutLicense(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()

	service, err := NewLoggerService(cfg)
	require.NoError(t, err)
	assert.Nil(t, service.GetApplication())

	// Shutdown on a disabled service must be safe.
	service.Shutdown()
}

func TestNewLogger_Level(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	log := NewLogger(cfg)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	log := zerolog.Nop()
	assert.Equal(t, log, WithTraceContext(log, nil))
}
