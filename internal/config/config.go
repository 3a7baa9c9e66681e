// Package config loads server settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends
const (
	BackendRedis  = "redis"
	BackendBoltDB = "boltdb"
	BackendMemory = "memory"
)

// Config holds runtime settings for the server.
//
// JWTSecret has no default: the process refuses to start without it.
// Zero BcryptCost and TokenTTL select crypto.DefaultCost and jwt.DefaultTTL.
type Config struct {
	JWTSecret       string        `env:"JWT_SECRET,required,notEmpty"`
	StoreBackend    string        `env:"STORE_BACKEND"    envDefault:"redis"`
	RedisAddr       string        `env:"REDIS_ADDR"       envDefault:"localhost:6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	BoltPath        string        `env:"BOLT_PATH"        envDefault:"authcache.db"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	Port            int           `env:"PORT"             envDefault:"3000"`
	RedisDB         int           `env:"REDIS_DB"         envDefault:"0"`
	BcryptCost      int           `env:"BCRYPT_COST"`
	TokenTTL        time.Duration `env:"TOKEN_TTL"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the process environment
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the env tags can't express
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be in 1..65535, got %d", c.Port))
	}

	switch c.StoreBackend {
	case BackendRedis, BackendBoltDB, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be one of %s, %s, %s; got %q",
			BackendRedis, BackendBoltDB, BackendMemory, c.StoreBackend))
	}

	if c.TokenTTL < 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must not be negative, got %s", c.TokenTTL))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for http.Server
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// SlogLevel parses LogLevel (debug, info, warn, error)
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
