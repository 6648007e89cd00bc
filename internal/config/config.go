package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration, read once at startup.
type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	AppAddr         string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout  time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"APP_SHUTDOWN_TIMEOUT" default:"5s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// JWTSecret signs every token; loaded once, never rotated at runtime.
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"1h"`

	// BootstrapUsers: "username:password:ROLE|ROLE" entries, comma
	// separated. Matches the reference deployment by default.
	BootstrapUsers string `envconfig:"BOOTSTRAP_USERS" default:"user:user:USER,admin:admin:ADMIN"`

	// PGDSN empty means the in-memory book store (dev/test mode).
	PGDSN     string `envconfig:"PG_DSN" default:""`
	RedisAddr string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("signing secret must be provided")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &cfg, nil
}

// IsProduction returns true when running in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
