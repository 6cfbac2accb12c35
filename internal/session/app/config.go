package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend names for the pluggable collaborators.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// BlobBackend selects the persisted blob driver: memory, sqlite, redis.
	BlobBackend string `env:"SESSION_BLOB_BACKEND" envDefault:"memory"`
	// BlobKey is the single key the serialized identity is stored under.
	BlobKey string `env:"SESSION_BLOB_KEY" envDefault:"sessionkit:identity"`
	// BlobFile is the SQLite database file for the sqlite blob backend.
	BlobFile string `env:"SESSION_BLOB_FILE" envDefault:"session.db"`
	// RedisURL is required when BlobBackend is redis.
	RedisURL string `env:"SESSION_REDIS_URL"`

	// SigningKey, when set, signs the persisted blob so out-of-band edits
	// restore to anonymous instead of loading tampered data.
	SigningKey string `env:"SESSION_SIGNING_KEY"`

	// DirectoryBackend selects the credential directory: memory (seeded
	// with the demo accounts) or sqlite.
	DirectoryBackend string `env:"SESSION_DIRECTORY_BACKEND" envDefault:"memory"`
	// DirectoryFile is the SQLite database file for the sqlite directory.
	DirectoryFile string `env:"SESSION_DIRECTORY_FILE" envDefault:"credentials.db"`
	// ThrottleLookups enables the per-email directory lookup rate limit.
	ThrottleLookups bool `env:"SESSION_THROTTLE_LOOKUPS" envDefault:"false"`

	// Latency is the simulated remote round-trip for login and save.
	Latency time.Duration `env:"SESSION_LATENCY" envDefault:"0s"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
