// Package config loads gateway configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Backend selects the cache store implementation.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds the cache gateway configuration.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `env:"GATEWAY_ADDR" envDefault:":8080"`

	// Backend selects the cache store: "redis" or "memory".
	Backend string `env:"CACHE_BACKEND" envDefault:"redis"`

	// RedisAddr is the Redis host:port, used when Backend is "redis".
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// JWTSecret signs the bearer tokens accepted on private routes.
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LogPretty enables human-readable console logs.
	LogPretty bool `env:"LOG_PRETTY" envDefault:"false"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Backend != BackendMemory && cfg.Backend != BackendRedis {
		return Config{}, fmt.Errorf("invalid CACHE_BACKEND %q (want %q or %q)", cfg.Backend, BackendRedis, BackendMemory)
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET cannot be empty")
	}

	return cfg, nil
}
