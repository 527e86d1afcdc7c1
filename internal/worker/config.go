package worker

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds worker configuration
type Config struct {
	// Worker identification
	WorkerID string `validate:"required"`

	// Processing settings
	BatchSize             int           `validate:"min=1"`
	BatchTimeout          time.Duration `validate:"gt=0"`
	ProcessingConcurrency int           `validate:"min=1"`

	// MaxAttempts bounds how often a failing cluster is carried into the
	// next batch.
	MaxAttempts int `validate:"min=1"`

	// Monitoring
	HealthCheckPort int `validate:"min=1,max=65535"`
}

// DefaultConfig returns the configuration used when no variable is set
func DefaultConfig() *Config {
	return &Config{
		WorkerID:              generateWorkerID(),
		BatchSize:             100,
		BatchTimeout:          5 * time.Second,
		ProcessingConcurrency: 4,
		MaxAttempts:           3,
		HealthCheckPort:       8081,
	}
}

// NewConfigFromEnv creates a new Config from environment variables
func NewConfigFromEnv() (*Config, error) {
	c := DefaultConfig()
	c.WorkerID = getEnvOrDefault("WORKER_ID", c.WorkerID)

	ints := []struct {
		key string
		dst *int
	}{
		{"WORKER_BATCH_SIZE", &c.BatchSize},
		{"WORKER_PROCESSING_CONCURRENCY", &c.ProcessingConcurrency},
		{"WORKER_MAX_ATTEMPTS", &c.MaxAttempts},
		{"WORKER_HEALTH_PORT", &c.HealthCheckPort},
	}
	for _, v := range ints {
		raw := os.Getenv(v.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", v.key, err)
		}
		*v.dst = n
	}

	if raw := os.Getenv("WORKER_BATCH_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid WORKER_BATCH_TIMEOUT: %w", err)
		}
		c.BatchTimeout = d
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid worker configuration: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func generateWorkerID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}
