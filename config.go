package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

const devJWTSecret = "dev-insecure-secret-change"

var errMissingJWTSecret = errors.New("JWT_SECRET is not set; set it, or DEV_MODE=true to use the development secret")

// Config is read from the environment (after .env) at startup.
type Config struct {
	Addr string `env:"ADDR" envDefault:":8081"`

	DSN             string `env:"DB_DSN,required,notEmpty"`
	AutoMigrate     bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	AllowInsecureDB bool   `env:"DB_ALLOW_INSECURE" envDefault:"false"`

	// DevMode permits the built-in JWT secret when JWT_SECRET is unset.
	DevMode bool `env:"DEV_MODE" envDefault:"false"`

	JWTSecret     string        `env:"JWT_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SecureCookies bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`

	// BestEffortWrites keeps redirecting after a failed invoice write.
	BestEffortWrites bool          `env:"INVOICE_BEST_EFFORT_WRITES" envDefault:"true"`
	ViewCacheTTL     time.Duration `env:"VIEW_CACHE_TTL" envDefault:"5m"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTSecret == "" {
		if !cfg.DevMode {
			return Config{}, errMissingJWTSecret
		}
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
