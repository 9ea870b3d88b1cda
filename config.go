//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package learnstate

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backend names accepted in configuration.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// StorageConfig selects and parameterizes the storage backend.
type StorageConfig struct {
	// Backend is one of memory, file, sqlite, redis.
	Backend string `yaml:"backend"`
	// Path is the data file for the file and sqlite backends.
	Path string `yaml:"path"`
	// RedisURL is the connection URL for the redis backend.
	RedisURL string `yaml:"redis_url"`
	// KeyPrefix namespaces every key this library writes.
	KeyPrefix string `yaml:"key_prefix"`
}

// Config is the library configuration, decodable from YAML with
// optional environment overrides.
type Config struct {
	Storage StorageConfig `yaml:"storage"`

	// SessionTTL is the sliding session lifetime.
	SessionTTL time.Duration `yaml:"session_ttl"`
	// AutosaveInterval is the default checkpoint cadence per lesson.
	AutosaveInterval time.Duration `yaml:"autosave_interval"`
	// SweepInterval is the scheduler period for lifecycle checks.
	SweepInterval time.Duration `yaml:"sweep_interval"`
	// AuditMaxEntries caps the audit log length.
	AuditMaxEntries int `yaml:"audit_max_entries"`
	// SweepWorkers sizes the weekly-summary worker pool.
	SweepWorkers int `yaml:"sweep_workers"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend:   BackendMemory,
			KeyPrefix: "futurxplore",
		},
		SessionTTL:       24 * time.Hour,
		AutosaveInterval: 5 * time.Second,
		SweepInterval:    time.Hour,
		AuditMaxEntries:  1000,
		SweepWorkers:     4,
	}
}

// LoadConfig reads a YAML config file and applies environment
// overrides on top of the defaults. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadDotenv loads a .env file into the process environment so that
// applyEnv picks its values up. A missing file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// applyEnv overrides config fields from LEARNSTATE_* variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("LEARNSTATE_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("LEARNSTATE_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("LEARNSTATE_REDIS_URL"); v != "" {
		c.Storage.RedisURL = v
	}
	if v := os.Getenv("LEARNSTATE_KEY_PREFIX"); v != "" {
		c.Storage.KeyPrefix = v
	}
	if v := os.Getenv("LEARNSTATE_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SessionTTL = d
		}
	}
	if v := os.Getenv("LEARNSTATE_AUTOSAVE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.AutosaveInterval = d
		}
	}
	if v := os.Getenv("LEARNSTATE_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SweepInterval = d
		}
	}
	if v := os.Getenv("LEARNSTATE_AUDIT_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.AuditMaxEntries = n
		}
	}
	if v := os.Getenv("LEARNSTATE_SWEEP_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.SweepWorkers = n
		}
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFile, BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage backend %s requires storage.path", c.Storage.Backend)
		}
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage backend redis requires storage.redis_url")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if c.AutosaveInterval <= 0 {
		return fmt.Errorf("autosave_interval must be positive")
	}
	return nil
}
