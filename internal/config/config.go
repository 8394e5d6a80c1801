package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverLocal = "local"
	DriverBolt  = "bolt"
)

// Config holds the server configuration read from the environment.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	DBPath          string        `env:"DB_PATH" envDefault:"blog.db"`
	StorageDriver   string        `env:"STORAGE_DRIVER" envDefault:"local"`
	StorageDir      string        `env:"STORAGE_DIR" envDefault:"storage/app/public"`
	StorageBoltPath string        `env:"STORAGE_BOLT_PATH" envDefault:"storage/blobs.db"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	SweepInterval   time.Duration `env:"SWEEP_INTERVAL" envDefault:"0s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a Config and checks the values env tags
// cannot express.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch cfg.StorageDriver {
	case DriverLocal, DriverBolt:
	default:
		return Config{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if cfg.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("max upload bytes must be positive, got %d", cfg.MaxUploadBytes)
	}
	if cfg.SweepInterval < 0 {
		return Config{}, fmt.Errorf("sweep interval must not be negative")
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Level maps LOG_LEVEL onto a slog level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
