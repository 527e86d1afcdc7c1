package queue

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds queue configuration
type Config struct {
	// NATS connection settings
	URL      string `validate:"required"`
	Name     string `validate:"required"`
	User     string
	Password string

	// JetStream settings
	StreamName     string        `validate:"required,excludesall=.*>"`
	StreamMaxAge   time.Duration `validate:"min=0"`
	StreamMaxBytes int64         `validate:"min=-1"`
	StreamMaxMsgs  int64         `validate:"min=-1"`
	StreamReplicas int           `validate:"min=1,max=5"`

	// Consumer settings
	ConsumerName       string        `validate:"required"`
	ConsumerMaxDeliver int           `validate:"min=1"`
	ConsumerAckWait    time.Duration `validate:"min=0"`

	// DLQ settings
	DLQStreamName string `validate:"required,excludesall=.*>,nefield=StreamName"`

	// Publishing and fetching
	PublishTimeout time.Duration `validate:"min=0"`
	BatchSize      int           `validate:"min=1"`
	BatchTimeout   time.Duration `validate:"min=0"`
}

// DefaultConfig returns the configuration used when no environment is set.
func DefaultConfig() *Config {
	return &Config{
		URL:                "nats://localhost:4222",
		Name:               "clusterapi",
		StreamName:         "CLUSTERAPI",
		StreamMaxAge:       7 * 24 * time.Hour,
		StreamMaxBytes:     1 << 30,
		StreamMaxMsgs:      1_000_000,
		StreamReplicas:     1,
		ConsumerName:       "clusterapi-watch",
		ConsumerMaxDeliver: 3,
		ConsumerAckWait:    30 * time.Second,
		DLQStreamName:      "CLUSTERAPI_DLQ",
		PublishTimeout:     5 * time.Second,
		BatchSize:          100,
		BatchTimeout:       time.Second,
	}
}

// NewConfigFromEnv creates a new Config from environment variables
func NewConfigFromEnv() (*Config, error) {
	cfg := DefaultConfig()
	cfg.URL = getEnvOrDefault("NATS_URL", cfg.URL)
	cfg.Name = getEnvOrDefault("NATS_NAME", cfg.Name)
	cfg.User = os.Getenv("NATS_USER")
	cfg.Password = os.Getenv("NATS_PASSWORD")
	cfg.StreamName = getEnvOrDefault("NATS_STREAM_NAME", cfg.StreamName)
	cfg.ConsumerName = getEnvOrDefault("NATS_CONSUMER_NAME", cfg.ConsumerName)
	cfg.DLQStreamName = getEnvOrDefault("DLQ_STREAM_NAME", cfg.DLQStreamName)

	var err error
	if cfg.StreamMaxBytes, err = parseInt64("NATS_STREAM_MAX_BYTES", cfg.StreamMaxBytes); err != nil {
		return nil, err
	}
	if cfg.StreamMaxMsgs, err = parseInt64("NATS_STREAM_MAX_MSGS", cfg.StreamMaxMsgs); err != nil {
		return nil, err
	}
	if cfg.StreamReplicas, err = parseInt("NATS_STREAM_REPLICAS", cfg.StreamReplicas); err != nil {
		return nil, err
	}
	if cfg.ConsumerMaxDeliver, err = parseInt("NATS_CONSUMER_MAX_DELIVER", cfg.ConsumerMaxDeliver); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = parseInt("NATS_BATCH_SIZE", cfg.BatchSize); err != nil {
		return nil, err
	}
	if cfg.StreamMaxAge, err = parseDuration("NATS_STREAM_MAX_AGE", cfg.StreamMaxAge); err != nil {
		return nil, err
	}
	if cfg.PublishTimeout, err = parseDuration("NATS_PUBLISH_TIMEOUT", cfg.PublishTimeout); err != nil {
		return nil, err
	}
	if cfg.BatchTimeout, err = parseDuration("NATS_BATCH_TIMEOUT", cfg.BatchTimeout); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid queue configuration: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseInt64(key string, def int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
