package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/birbparty/clusterapi/sdk"
)

// EnvConfigFile names the config file when --config is not given
const EnvConfigFile = "CLUSTERCTL_CONFIG"

// FileConfig is the YAML configuration file of clusterctl. Every field is
// optional; set fields override the CLUSTER_API_* environment.
//
//	url: https://core-api.cyberfusion.io/api/v1/
//	token: ...
//	timeout: 10s
//	max_retries: 2
//	circuit_breaker: true
//	headers:
//	  X-Correlation-ID: deploy-42
//	publish: true
//	output: yaml
type FileConfig struct {
	URL            string            `yaml:"url"`
	Token          string            `yaml:"token"`
	Timeout        string            `yaml:"timeout"`
	MaxRetries     *int              `yaml:"max_retries"`
	CircuitBreaker bool              `yaml:"circuit_breaker"`
	Headers        map[string]string `yaml:"headers"`
	Publish        bool              `yaml:"publish"`
	Output         string            `yaml:"output"`
}

// DefaultConfigPath returns $CLUSTERCTL_CONFIG or ~/.clusterctl.yaml
func DefaultConfigPath() string {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".clusterctl.yaml")
}

// LoadFileConfig reads path. A missing file is an empty configuration
// unless required is set.
func LoadFileConfig(path string, required bool) (*FileConfig, error) {
	cfg := &FileConfig{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Apply copies the set fields onto an SDK configuration
func (f *FileConfig) Apply(cfg *sdk.Config) error {
	if f.URL != "" {
		cfg.WithBaseURL(f.URL)
	}
	if f.Token != "" {
		cfg.WithToken(f.Token)
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q in config file: %w", f.Timeout, err)
		}
		cfg.WithTimeout(d)
	}
	if f.MaxRetries != nil {
		cfg.WithRetries(*f.MaxRetries)
	}
	if f.CircuitBreaker {
		cfg.WithCircuitBreaker(sdk.DefaultCircuitBreakerConfig())
	}
	for k, v := range f.Headers {
		cfg.WithHeader(k, v)
	}
	return nil
}
