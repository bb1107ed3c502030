package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	APIURL            string        `env:"REVIEW_API_URL" envDefault:"http://localhost:8080"`
	APIToken          string        `env:"REVIEW_API_TOKEN"`
	DevMode           bool          `env:"DEV_MODE" envDefault:"false"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND" envDefault:"10"`
	RequestBurst      int           `env:"REQUEST_BURST" envDefault:"20"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	DefaultPageSize   int           `env:"DEFAULT_PAGE_SIZE" envDefault:"10"`

	// Mutation event sinks are optional. Redis is enabled by an endpoint,
	// SQS by a queue name (SQS_ENDPOINT only overrides it in dev mode).
	RedisEndpoint      string        `env:"REDIS_ENDPOINT"`
	SQSEndpoint        string        `env:"SQS_ENDPOINT"`
	SQSQueue           string        `env:"SQS_QUEUE"`
	EventFlushInterval time.Duration `env:"EVENT_FLUSH_INTERVAL" envDefault:"2s"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("REVIEW_API_URL must not be empty")
	}
	if c.RequestsPerSecond <= 0 {
		return errors.New("REQUESTS_PER_SECOND must be positive")
	}
	if c.RequestBurst < 1 {
		return errors.New("REQUEST_BURST must be at least 1")
	}
	if c.DefaultPageSize < 1 {
		return errors.New("DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.EventFlushInterval <= 0 {
		return errors.New("EVENT_FLUSH_INTERVAL must be positive")
	}
	return nil
}

// EventsEnabled reports whether any mutation event sink is configured.
func (c Config) EventsEnabled() bool {
	return c.RedisEndpoint != "" || c.SQSQueue != ""
}
