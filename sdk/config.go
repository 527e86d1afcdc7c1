package sdk

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the production cluster API.
const DefaultBaseURL = "https://core-api.cyberfusion.io/api/v1/"

// Environment variables read by LoadConfigFromEnv.
const (
	EnvBaseURL    = "CLUSTER_API_URL"
	EnvToken      = "CLUSTER_API_TOKEN"
	EnvTimeout    = "CLUSTER_API_TIMEOUT"
	EnvMaxRetries = "CLUSTER_API_MAX_RETRIES"
)

var validate = validator.New()

// Config holds the configuration for the cluster API client.
// All fields are optional and have sensible defaults.
//
// Configuration can be built using the fluent builder pattern:
//
//	config := sdk.DefaultConfig().
//	    WithBaseURL("https://core-api.example.com/api/v1/").
//	    WithToken(token).
//	    WithTimeout(30 * time.Second).
//	    WithRetries(5).
//	    WithCircuitBreaker(sdk.DefaultCircuitBreakerConfig())
//
//	client, err := sdk.NewClient(config)
type Config struct {
	// BaseURL is the base URL of the cluster API. Request URLs are resolved
	// against it, so it should end with a slash.
	// Default: DefaultBaseURL
	BaseURL string `validate:"required,url"`

	// Token is sent as a bearer token when not empty.
	Token string

	// UserAgent is sent with every request.
	UserAgent string

	// Timeout is the HTTP request timeout.
	// This includes connection time, any redirects, and reading the response body.
	// Default: 30s
	Timeout time.Duration `validate:"gte=0"`

	// RetryConfig holds retry-related settings.
	RetryConfig RetryConfig

	// TransportConfig holds HTTP transport settings.
	TransportConfig TransportConfig

	// Headers are custom headers to include in all requests.
	Headers map[string]string

	// CircuitBreakerConfig holds circuit breaker settings.
	// If nil, circuit breaker is disabled.
	CircuitBreakerConfig *CircuitBreakerConfig `validate:"omitempty"`

	// Observer for monitoring operations.
	// If nil, NoopObserver is used.
	Observer Observer `validate:"-"`

	// Logger receives request and bookkeeping logs.
	// If nil, a logger discarding everything below warn is used.
	Logger *logrus.Logger `validate:"-"`

	// TracerProvider creates the client spans.
	// If nil, the global OpenTelemetry provider is used.
	TracerProvider trace.TracerProvider `validate:"-"`

	// Transport replaces the built-in HTTP transport. When set, RetryConfig,
	// TransportConfig and CircuitBreakerConfig are ignored.
	Transport Transport `validate:"-"`
}

// RetryConfig holds retry-related configuration. Only idempotent requests
// (GET, PUT, DELETE) are retried, and only on transport faults and
// 502/503/504 answers.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts.
	// Set to 0 to disable retries.
	// Default: 3
	MaxRetries int `validate:"gte=0,lte=20"`

	// InitialInterval is the initial retry interval.
	// Default: 100ms
	InitialInterval time.Duration

	// MaxInterval is the maximum retry interval.
	// Default: 5s
	MaxInterval time.Duration

	// Multiplier is the exponential backoff multiplier.
	// Default: 2.0
	Multiplier float64
}

// TransportConfig holds HTTP transport configuration for connection pooling.
type TransportConfig struct {
	// MaxIdleConns controls the maximum number of idle connections
	// across all hosts. Zero means no limit.
	// Default: 100
	MaxIdleConns int `validate:"gte=0"`

	// MaxConnsPerHost controls the maximum connections per host.
	// Default: 10
	MaxConnsPerHost int `validate:"gte=0"`

	// IdleConnTimeout is the maximum time an idle connection will remain idle
	// before closing itself. Zero means no limit.
	// Default: 90s
	IdleConnTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults suitable for most use cases.
// The default configuration includes:
//   - Base URL: DefaultBaseURL
//   - Timeout: 30 seconds
//   - Retries: 3 attempts with exponential backoff
//   - Connection pooling: 100 idle connections, 10 per host
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: "clusterapi-go-sdk/1.0",
		Timeout:   30 * time.Second,
		RetryConfig: RetryConfig{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2.0,
		},
		TransportConfig: TransportConfig{
			MaxIdleConns:    100,
			MaxConnsPerHost: 10,
			IdleConnTimeout: 90 * time.Second,
		},
		Headers:  make(map[string]string),
		Observer: NoopObserver{},
	}
}

// LoadConfigFromEnv returns DefaultConfig overridden by the CLUSTER_API_*
// environment variables.
//
// Example:
//
//	config, err := sdk.LoadConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadConfigFromEnv() (*Config, error) {
	c := DefaultConfig()
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	c.Token = os.Getenv(EnvToken)
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := os.Getenv(EnvMaxRetries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvMaxRetries, err)
		}
		c.RetryConfig.MaxRetries = n
	}
	return c, nil
}

// WithBaseURL sets the base URL of the cluster API.
func (c *Config) WithBaseURL(url string) *Config {
	c.BaseURL = url
	return c
}

// WithToken sets the bearer token.
func (c *Config) WithToken(token string) *Config {
	c.Token = token
	return c
}

// WithTimeout sets the request timeout for all operations.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRetries sets the maximum number of retry attempts for failed requests.
// Set to 0 to disable automatic retries.
func (c *Config) WithRetries(maxRetries int) *Config {
	c.RetryConfig.MaxRetries = maxRetries
	return c
}

// WithHeader adds a custom header to be sent with all requests.
//
// Example:
//
//	config := sdk.DefaultConfig().
//	    WithHeader("X-Correlation-ID", id)
func (c *Config) WithHeader(key, value string) *Config {
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	c.Headers[key] = value
	return c
}

// WithCircuitBreaker enables and configures circuit breaker protection.
func (c *Config) WithCircuitBreaker(config CircuitBreakerConfig) *Config {
	c.CircuitBreakerConfig = &config
	return c
}

// WithObserver sets a custom observer for monitoring SDK operations.
func (c *Config) WithObserver(observer Observer) *Config {
	c.Observer = observer
	return c
}

// WithLogger sets the logger.
func (c *Config) WithLogger(logger *logrus.Logger) *Config {
	c.Logger = logger
	return c
}

// WithTracerProvider sets the OpenTelemetry tracer provider.
func (c *Config) WithTracerProvider(tp trace.TracerProvider) *Config {
	c.TracerProvider = tp
	return c
}

// WithTransport replaces the built-in HTTP transport.
//
// Example:
//
//	config := sdk.DefaultConfig().WithTransport(sdk.TransportFunc(
//	    func(ctx context.Context, req *sdk.Request) (*sdk.Response, error) {
//	        return sdk.NewResponse(200, map[string]any{}, nil), nil
//	    },
//	))
func (c *Config) WithTransport(t Transport) *Config {
	c.Transport = t
	return c
}

// Validate validates the configuration and sets defaults for missing values.
// This is called automatically by NewClient.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "clusterapi-go-sdk/1.0"
	}
	if c.RetryConfig.InitialInterval <= 0 {
		c.RetryConfig.InitialInterval = 100 * time.Millisecond
	}
	if c.RetryConfig.MaxInterval <= 0 {
		c.RetryConfig.MaxInterval = 5 * time.Second
	}
	if c.RetryConfig.Multiplier <= 1 {
		c.RetryConfig.Multiplier = 2.0
	}
	if c.Observer == nil {
		c.Observer = NoopObserver{}
	}
	if c.Logger == nil {
		c.Logger = logrus.New()
		c.Logger.SetOutput(io.Discard)
		c.Logger.SetLevel(logrus.WarnLevel)
	}
	if cb := c.CircuitBreakerConfig; cb != nil {
		if cb.FailureThreshold <= 0 {
			cb.FailureThreshold = 5
		}
		if cb.SuccessThreshold <= 0 {
			cb.SuccessThreshold = 2
		}
		if cb.Timeout <= 0 {
			cb.Timeout = 30 * time.Second
		}
		if cb.HalfOpenRequests <= 0 {
			cb.HalfOpenRequests = 3
		}
	}
	return nil
}
