package config

import (
	"os"
	"strconv"

	"neurosym/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Storage StorageConfig
	Runner  RunnerConfig
}

// StorageBackend selects the storage collaborator implementation
type StorageBackend string

const (
	BackendMemory   StorageBackend = "memory"
	BackendFile     StorageBackend = "file"
	BackendPostgres StorageBackend = "postgres"
)

// StorageConfig holds storage collaborator settings
type StorageConfig struct {
	Backend StorageBackend
	// Root is the directory for the file backend
	Root string
	// DatabaseURL is the connection string for the postgres backend
	DatabaseURL string
}

// RunnerConfig holds batch execution settings
type RunnerConfig struct {
	// Parallelism bounds concurrent runs in a batch; 1 means sequential
	Parallelism int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Storage: StorageConfig{
			Backend:     StorageBackend(envOr("NEUROSYM_STORAGE", string(BackendFile))),
			Root:        envOr("NEUROSYM_STORAGE_ROOT", "./runs"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		Runner: RunnerConfig{
			Parallelism: envIntOr("NEUROSYM_PARALLELISM", 1),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Storage.Root == "" {
			return errors.ConfigInvalid("NEUROSYM_STORAGE_ROOT is required for the file backend")
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres backend")
		}
	default:
		return errors.ConfigInvalid("unknown storage backend: " + string(c.Storage.Backend))
	}

	if c.Runner.Parallelism < 1 {
		return errors.ConfigInvalid("NEUROSYM_PARALLELISM must be at least 1")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
