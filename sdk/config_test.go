package sdk

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, DefaultBaseURL, config.BaseURL)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 3, config.RetryConfig.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, config.RetryConfig.InitialInterval)
	assert.Equal(t, 5*time.Second, config.RetryConfig.MaxInterval)
	assert.Equal(t, 2.0, config.RetryConfig.Multiplier)
	assert.Equal(t, 100, config.TransportConfig.MaxIdleConns)
	assert.Equal(t, 10, config.TransportConfig.MaxConnsPerHost)
	assert.Equal(t, 90*time.Second, config.TransportConfig.IdleConnTimeout)
	assert.Empty(t, config.Token)
	assert.Nil(t, config.CircuitBreakerConfig)
	assert.IsType(t, NoopObserver{}, config.Observer)
	assert.NoError(t, config.Validate())
}

func TestConfig_Chaining(t *testing.T) {
	logger := logrus.New()
	tp := noop.NewTracerProvider()
	metrics := NewMetricsCollector()
	api := TransportFunc(nil)

	config := DefaultConfig().
		WithBaseURL("https://core-api.example.com/api/v1/").
		WithToken("secret").
		WithTimeout(10*time.Second).
		WithRetries(5).
		WithHeader("X-Correlation-ID", "abc").
		WithCircuitBreaker(DefaultCircuitBreakerConfig()).
		WithObserver(metrics).
		WithLogger(logger).
		WithTracerProvider(tp).
		WithTransport(api)

	assert.Equal(t, "https://core-api.example.com/api/v1/", config.BaseURL)
	assert.Equal(t, "secret", config.Token)
	assert.Equal(t, 10*time.Second, config.Timeout)
	assert.Equal(t, 5, config.RetryConfig.MaxRetries)
	assert.Equal(t, "abc", config.Headers["X-Correlation-ID"])
	require.NotNil(t, config.CircuitBreakerConfig)
	assert.Equal(t, 5, config.CircuitBreakerConfig.FailureThreshold)
	assert.Same(t, metrics, config.Observer)
	assert.Same(t, logger, config.Logger)
	assert.Equal(t, tp, config.TracerProvider)
}

func TestConfig_WithHeader(t *testing.T) {
	config := &Config{}
	config.WithHeader("A", "1").WithHeader("B", "2").WithHeader("A", "3")
	assert.Equal(t, map[string]string{"A": "3", "B": "2"}, config.Headers)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{
			name:   "defaults filled in",
			config: &Config{BaseURL: "http://localhost:8000/api/v1/"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 30*time.Second, c.Timeout)
				assert.Equal(t, "clusterapi-go-sdk/1.0", c.UserAgent)
				assert.Equal(t, 100*time.Millisecond, c.RetryConfig.InitialInterval)
				assert.Equal(t, 5*time.Second, c.RetryConfig.MaxInterval)
				assert.Equal(t, 2.0, c.RetryConfig.Multiplier)
				assert.IsType(t, NoopObserver{}, c.Observer)
				require.NotNil(t, c.Logger)
				assert.Equal(t, logrus.WarnLevel, c.Logger.GetLevel())
			},
		},
		{
			name:   "circuit breaker defaults",
			config: DefaultConfig().WithCircuitBreaker(CircuitBreakerConfig{PerResource: true}),
			check: func(t *testing.T, c *Config) {
				cb := c.CircuitBreakerConfig
				assert.Equal(t, 5, cb.FailureThreshold)
				assert.Equal(t, 2, cb.SuccessThreshold)
				assert.Equal(t, 30*time.Second, cb.Timeout)
				assert.Equal(t, 3, cb.HalfOpenRequests)
				assert.True(t, cb.PerResource)
			},
		},
		{name: "missing base url", config: &Config{}, wantErr: true},
		{name: "malformed base url", config: DefaultConfig().WithBaseURL("::"), wantErr: true},
		{name: "negative timeout", config: DefaultConfig().WithTimeout(-time.Second), wantErr: true},
		{name: "negative retries", config: DefaultConfig().WithRetries(-1), wantErr: true},
		{name: "too many retries", config: DefaultConfig().WithRetries(21), wantErr: true},
		{
			name:    "negative pool size",
			config:  &Config{BaseURL: DefaultBaseURL, TransportConfig: TransportConfig{MaxIdleConns: -1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, tt.config)
			}
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("overrides", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "http://localhost:8000/api/v1/")
		t.Setenv(EnvToken, "secret")
		t.Setenv(EnvTimeout, "5s")
		t.Setenv(EnvMaxRetries, "1")

		config, err := LoadConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8000/api/v1/", config.BaseURL)
		assert.Equal(t, "secret", config.Token)
		assert.Equal(t, 5*time.Second, config.Timeout)
		assert.Equal(t, 1, config.RetryConfig.MaxRetries)
	})

	t.Run("unset keeps defaults", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "")
		t.Setenv(EnvTimeout, "")
		t.Setenv(EnvMaxRetries, "")

		config, err := LoadConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, config.BaseURL)
		assert.Equal(t, 3, config.RetryConfig.MaxRetries)
	})

	t.Run("bad timeout", func(t *testing.T) {
		t.Setenv(EnvTimeout, "soon")
		_, err := LoadConfigFromEnv()
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("bad retries", func(t *testing.T) {
		t.Setenv(EnvTimeout, "")
		t.Setenv(EnvMaxRetries, "many")
		_, err := LoadConfigFromEnv()
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func BenchmarkConfig_Validate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = DefaultConfig().Validate()
	}
}
