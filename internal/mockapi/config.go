package mockapi

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config holds the mock API configuration
type Config struct {
	// Server configuration
	Host     string `validate:"required"`
	Port     int    `validate:"min=1,max=65535"`
	BasePath string `validate:"required,startswith=/"`

	// APIToken is the bearer token clients must present. Empty disables
	// authentication.
	APIToken string

	// Data
	DefaultClusterID int `validate:"min=1"`
	SeedFile         string

	// Task callback delivery
	CallbackQueueSize  int `validate:"min=1"`
	CallbackWorkers    int `validate:"min=1"`
	CallbackMaxRetries int `validate:"min=0"`

	// Requests per minute per client IP, 0 disables the limiter
	RateLimit int `validate:"min=0"`

	RequestTimeout  int `validate:"min=1"`
	ShutdownTimeout int `validate:"min=1"`

	MetricsPath string `validate:"required,startswith=/"`
}

// DefaultConfig returns the configuration used when no environment is set.
func DefaultConfig() *Config {
	return &Config{
		Host:               "0.0.0.0",
		Port:               8080,
		BasePath:           "/api/v1",
		DefaultClusterID:   1,
		CallbackQueueSize:  1000,
		CallbackWorkers:    4,
		CallbackMaxRetries: 3,
		RequestTimeout:     30,
		ShutdownTimeout:    30,
		MetricsPath:        "/metrics",
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()
	cfg.Host = getEnvOrDefault("HOST", cfg.Host)
	cfg.BasePath = getEnvOrDefault("BASE_PATH", cfg.BasePath)
	cfg.APIToken = os.Getenv("API_TOKEN")
	cfg.SeedFile = os.Getenv("SEED_FILE")
	cfg.MetricsPath = getEnvOrDefault("METRICS_PATH", cfg.MetricsPath)

	ints := []struct {
		key string
		dst *int
	}{
		{"PORT", &cfg.Port},
		{"DEFAULT_CLUSTER_ID", &cfg.DefaultClusterID},
		{"CALLBACK_QUEUE_SIZE", &cfg.CallbackQueueSize},
		{"CALLBACK_WORKERS", &cfg.CallbackWorkers},
		{"CALLBACK_MAX_RETRIES", &cfg.CallbackMaxRetries},
		{"RATE_LIMIT", &cfg.RateLimit},
		{"REQUEST_TIMEOUT", &cfg.RequestTimeout},
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid mock API configuration: %w", err)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
