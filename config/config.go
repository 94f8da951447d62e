// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/wuroud/islamic-hub/store"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"WUROUD_SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort int    `env:"WUROUD_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"WUROUD_ENV" envDefault:"development"`
	LogLevel   string `env:"WUROUD_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"WUROUD_LOG_FORMAT" envDefault:"text"` // text or json

	// Local storage
	DataDir    string `env:"WUROUD_DATA_DIR" envDefault:"./data"`
	LocalStore string `env:"WUROUD_LOCAL_STORE" envDefault:"file"` // file or memory

	// DBMode overrides the persisted dbMode flag when set.
	DBMode string `env:"WUROUD_DB_MODE"`

	// Remote document store
	RemoteStore   string        `env:"WUROUD_REMOTE_STORE" envDefault:"sqlite"` // sqlite or redis
	RemoteDBPath  string        `env:"WUROUD_REMOTE_DB_PATH"`                   // defaults to DataDir/remote.db
	RedisURL      string        `env:"WUROUD_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPrefix   string        `env:"WUROUD_REDIS_PREFIX" envDefault:"wuroud:"`
	RemoteTimeout time.Duration `env:"WUROUD_REMOTE_TIMEOUT" envDefault:"5s"`
	MirrorWrites  bool          `env:"WUROUD_MIRROR_WRITES" envDefault:"false"`

	// HTTP
	AllowedOrigins []string `env:"WUROUD_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	RateLimit      float64  `env:"WUROUD_RATE_LIMIT" envDefault:"20"` // requests per second, 0 disables
	RateBurst      int      `env:"WUROUD_RATE_BURST" envDefault:"40"`

	// Seed writes the default records for collections that were never written.
	Seed bool `env:"WUROUD_SEED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Level returns the slog level for LogLevel, defaulting to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values outside the supported sets.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("WUROUD_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	switch c.LocalStore {
	case "file", "memory":
	default:
		return fmt.Errorf("WUROUD_LOCAL_STORE must be file or memory, got %q", c.LocalStore)
	}
	switch c.RemoteStore {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("WUROUD_REMOTE_STORE must be sqlite or redis, got %q", c.RemoteStore)
	}
	if c.DBMode != "" {
		if _, err := store.ParseMode(c.DBMode); err != nil {
			return fmt.Errorf("WUROUD_DB_MODE: %w", err)
		}
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("WUROUD_SERVER_PORT out of range: %d", c.ServerPort)
	}
	if c.RemoteTimeout < 0 {
		return fmt.Errorf("WUROUD_REMOTE_TIMEOUT must not be negative")
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("WUROUD_RATE_LIMIT and WUROUD_RATE_BURST must not be negative")
	}
	return nil
}
