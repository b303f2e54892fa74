package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StatusModeLegacy       = "legacy"
	StatusModeConventional = "conventional"
)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"5000"  validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"postgres"     validate:"oneof=postgres sqlite"`
	DatabaseURL    string `env:"DATABASE_URL"                              validate:"required_if=DatabaseDriver postgres"`
	SQLitePath     string `env:"SQLITE_PATH"     envDefault:"data/notes.db" validate:"required_if=DatabaseDriver sqlite"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	JWTSecret  string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	TokenTTL   time.Duration `env:"TOKEN_TTL"   envDefault:"8760h" validate:"gt=0"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"    validate:"min=4,max=31"`

	HTTPStatusMode   string        `env:"HTTP_STATUS_MODE"   envDefault:"legacy" validate:"oneof=legacy conventional"`
	UserCacheTTL     time.Duration `env:"USER_CACHE_TTL"     envDefault:"30s"    validate:"gte=0"`
	CORSAllowOrigins []string      `env:"CORS_ALLOW_ORIGINS" envDefault:"*"      envSeparator:","`

	MetricsPort         string `env:"METRICS_PORT"          envDefault:"9090"`
	HealthCheckSchedule string `env:"HEALTH_CHECK_SCHEDULE" envDefault:"@every 30s" validate:"required"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SlogLevel converts LOG_LEVEL into a slog.Level. Unknown values fall back
// to info; Load has already rejected them.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
