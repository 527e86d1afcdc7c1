package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birbparty/clusterapi/sdk"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clusterctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileConfig(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
url: https://api.example.com/api/v1/
token: abc
timeout: 10s
max_retries: 0
circuit_breaker: true
headers:
  X-Correlation-ID: deploy-42
publish: true
output: yaml
`)
		cfg, err := LoadFileConfig(path, true)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/api/v1/", cfg.URL)
		assert.Equal(t, "abc", cfg.Token)
		require.NotNil(t, cfg.MaxRetries)
		assert.Equal(t, 0, *cfg.MaxRetries)
		assert.True(t, cfg.Publish)
		assert.Equal(t, "yaml", cfg.Output)

		sdkCfg := sdk.DefaultConfig()
		require.NoError(t, cfg.Apply(sdkCfg))
		assert.Equal(t, "https://api.example.com/api/v1/", sdkCfg.BaseURL)
		assert.Equal(t, "abc", sdkCfg.Token)
		assert.Equal(t, 10*time.Second, sdkCfg.Timeout)
		assert.Equal(t, 0, sdkCfg.RetryConfig.MaxRetries)
		assert.NotNil(t, sdkCfg.CircuitBreakerConfig)
		assert.Equal(t, "deploy-42", sdkCfg.Headers["X-Correlation-ID"])
	})

	t.Run("unset fields keep the defaults", func(t *testing.T) {
		cfg, err := LoadFileConfig(writeConfig(t, "token: abc\n"), true)
		require.NoError(t, err)

		sdkCfg := sdk.DefaultConfig()
		require.NoError(t, cfg.Apply(sdkCfg))
		assert.Equal(t, sdk.DefaultConfig().BaseURL, sdkCfg.BaseURL)
		assert.Equal(t, 3, sdkCfg.RetryConfig.MaxRetries)
		assert.Nil(t, sdkCfg.CircuitBreakerConfig)
	})

	t.Run("missing optional file", func(t *testing.T) {
		cfg, err := LoadFileConfig(filepath.Join(t.TempDir(), "none.yaml"), false)
		require.NoError(t, err)
		assert.Equal(t, &FileConfig{}, cfg)
	})

	t.Run("missing required file", func(t *testing.T) {
		_, err := LoadFileConfig(filepath.Join(t.TempDir(), "none.yaml"), true)
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := LoadFileConfig(writeConfig(t, "url: [unclosed"), true)
		assert.ErrorContains(t, err, "failed to parse config file")
	})

	t.Run("invalid timeout", func(t *testing.T) {
		cfg, err := LoadFileConfig(writeConfig(t, "timeout: soon\n"), true)
		require.NoError(t, err)
		assert.ErrorContains(t, cfg.Apply(sdk.DefaultConfig()), `invalid timeout "soon"`)
	})
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv(EnvConfigFile, "/etc/clusterctl.yaml")
	assert.Equal(t, "/etc/clusterctl.yaml", DefaultConfigPath())

	t.Setenv(EnvConfigFile, "")
	t.Setenv("HOME", "/home/ops")
	assert.Equal(t, "/home/ops/.clusterctl.yaml", DefaultConfigPath())
}

func TestCLI_ConfigFileAndFlags(t *testing.T) {
	url := startMock(t)

	t.Run("file supplies url and token", func(t *testing.T) {
		path := writeConfig(t, "url: "+url+"\ntoken: "+token+"\noutput: yaml\n")
		r := clusterctl(t, "", "--config", path, "clusters", "get", "2")
		require.NoError(t, r.err, r.stderr)
		assert.Contains(t, r.stdout, "name: apps\n")
	})

	t.Run("flags win over the file", func(t *testing.T) {
		path := writeConfig(t, "url: http://127.0.0.1:1/api/v1/\ntoken: wrong\noutput: yaml\n")
		r := clusterctl(t, url, "--config", path, "-o", "json", "clusters", "get", "2")
		assert.Equal(t, "apps", r.object(t)["name"])
	})

	t.Run("missing explicit config", func(t *testing.T) {
		r := clusterctl(t, url, "--config", filepath.Join(t.TempDir(), "none.yaml"), "clusters", "list")
		assert.ErrorContains(t, r.err, "failed to read config file")
	})
}
