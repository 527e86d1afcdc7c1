package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"WORKER_ID", "WORKER_BATCH_SIZE", "WORKER_BATCH_TIMEOUT",
		"WORKER_PROCESSING_CONCURRENCY", "WORKER_MAX_ATTEMPTS", "WORKER_HEALTH_PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := NewConfigFromEnv()
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.WorkerID)
		assert.Equal(t, 100, cfg.BatchSize)
		assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
		assert.Equal(t, 4, cfg.ProcessingConcurrency)
		assert.Equal(t, 3, cfg.MaxAttempts)
		assert.Equal(t, 8081, cfg.HealthCheckPort)
	})

	t.Run("overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("WORKER_ID", "w-1")
		t.Setenv("WORKER_BATCH_SIZE", "5")
		t.Setenv("WORKER_BATCH_TIMEOUT", "250ms")
		t.Setenv("WORKER_MAX_ATTEMPTS", "1")

		cfg, err := NewConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "w-1", cfg.WorkerID)
		assert.Equal(t, 5, cfg.BatchSize)
		assert.Equal(t, 250*time.Millisecond, cfg.BatchTimeout)
		assert.Equal(t, 1, cfg.MaxAttempts)
	})

	for _, tt := range []struct {
		key, value, want string
	}{
		{"WORKER_BATCH_SIZE", "many", "invalid WORKER_BATCH_SIZE"},
		{"WORKER_BATCH_TIMEOUT", "soon", "invalid WORKER_BATCH_TIMEOUT"},
		{"WORKER_BATCH_SIZE", "0", "invalid worker configuration"},
		{"WORKER_HEALTH_PORT", "70000", "invalid worker configuration"},
		{"WORKER_BATCH_TIMEOUT", "-1s", "invalid worker configuration"},
	} {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := NewConfigFromEnv()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
