// Package config manages environment variables.
//
// It reads variables from the process environment (and an optional `.env`
// file), loads them into structured Go types, and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any config is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the USERAPI_ prefix. Keys are lowercased, the
	prefix is removed and a double underscore marks nesting:

		USERAPI_SERVER__PORT               -> server.port
		USERAPI_DATABASE__MAX_OPEN_CONNS   -> database.max_open_conns

	Values of list keys (see listKeys) are split on commas. koanf's decoder
	parses duration strings ("5s", "100ms").
*/

// EnvPrefix is the prefix every application env var must carry.
const EnvPrefix = "USERAPI_"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Validation    ValidationConfig     `koanf:"validation"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the sustained number of requests per second allowed per
	// client IP. Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
	RateBurst int     `koanf:"rate_burst" validate:"min=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// URL, when set, is used verbatim as the connection string and the
// individual host/port/user/... fields become optional.
type DatabaseConfig struct {
	URL             string `koanf:"url"`
	Host            string `koanf:"host" validate:"required_without=URL"`
	Port            int    `koanf:"port" validate:"required_without=URL"`
	User            string `koanf:"user" validate:"required_without=URL"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required_without=URL"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"min=0"`
}

// DSN returns the postgres connection string for this config.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	// JoinHostPort adds brackets for IPv6 hosts.
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		hostPort,
		d.Name,
		sslMode,
	)
}

// ValidationConfig carries the limits enforced on incoming payloads.
type ValidationConfig struct {
	NameMaxLength int `koanf:"name_max_length" validate:"min=0"`
}

// DefaultNameMaxLength is used when validation.name_max_length is unset.
const DefaultNameMaxLength = 50

// listKeys are the config keys whose env value is a comma separated list.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

// envKeyValue maps USERAPI_SERVER__PORT to server.port and splits the
// values of list keys.
func envKeyValue(name, value string) (string, interface{}) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")

	if !listKeys[key] {
		return key, value
	}

	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, applies defaults and validates the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Observability defaults are seeded so a partial env section only
	// overrides what it names.
	mainConfig := &Config{Observability: DefaultObservabilityConfig()}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.applyDefaults()

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Service name and environment are forced so telemetry stays consistent
	// regardless of what was configured.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	if c.Validation.NameMaxLength == 0 {
		c.Validation.NameMaxLength = DefaultNameMaxLength
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst == 0 {
		c.Server.RateBurst = int(c.Server.RateLimit * 2)
	}
}
