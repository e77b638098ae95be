// Package config loads the admin-client configuration from YAML files
// with environment-variable expansion.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the documented default backend address, used when
// neither configuration nor KB_BACKEND_URL provide one.
const DefaultBaseURL = "http://localhost:8000"

// BaseURLEnv is the single recognized environment value for the
// backend address.
const BaseURLEnv = "KB_BACKEND_URL"

// Entry store defaults shared with the client options.
const (
	DefaultKeyPrefix = "kb:entry:"
	DefaultIndexName = "kb-entries-idx"
)

// Config holds the kbadmin client configuration.
type Config struct {
	Backend    BackendConfig    `yaml:"backend"`
	EntryStore EntryStoreConfig `yaml:"entry_store"`
	Bulk       BulkConfig       `yaml:"bulk"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// BackendConfig holds KB backend API settings.
type BackendConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// EntryStoreConfig holds direct-read settings for the document store.
// Reads bypass the backend API; all writes still go through it.
// Leave Addrs empty to disable direct reads.
type EntryStoreConfig struct {
	Addrs               []string `yaml:"addrs"`
	Username            string   `yaml:"username"`
	Password            string   `yaml:"password"`
	DB                  int      `yaml:"db"`
	KeyPrefix           string   `yaml:"key_prefix"`
	IndexName           string   `yaml:"index_name"`
	ReadinessTimeoutSec int      `yaml:"readiness_timeout_sec"`
}

// BulkConfig holds fan-out settings for bulk operations.
type BulkConfig struct {
	MaxConcurrency int `yaml:"max_concurrency"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name
// (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable,
// defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// BaseURLFromEnv resolves the backend address from KB_BACKEND_URL,
// falling back to the documented default.
func BaseURLFromEnv() string {
	if u := os.Getenv(BaseURLEnv); u != "" {
		return u
	}
	return DefaultBaseURL
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = BaseURLFromEnv()
	}
	if c.Backend.TimeoutSec <= 0 {
		c.Backend.TimeoutSec = 30
	}
	if c.EntryStore.KeyPrefix == "" {
		c.EntryStore.KeyPrefix = DefaultKeyPrefix
	}
	if c.EntryStore.IndexName == "" {
		c.EntryStore.IndexName = DefaultIndexName
	}
	if c.EntryStore.ReadinessTimeoutSec <= 0 {
		c.EntryStore.ReadinessTimeoutSec = 10
	}
	if c.Bulk.MaxConcurrency <= 0 {
		c.Bulk.MaxConcurrency = 8
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an absolute URL, got %q", c.Backend.BaseURL)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// expandEnvVars replaces ${VAR} placeholders with environment values.
// Unset variables expand to an empty string.
func expandEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}
