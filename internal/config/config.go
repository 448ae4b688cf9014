package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the fedvid API configuration.
type Config struct {
	HTTP       HTTPConfig        `yaml:"http"`
	Partitions []PartitionConfig `yaml:"partitions"`
	Similarity SimilarityConfig  `yaml:"similarity"`
	Cache      CacheConfig       `yaml:"cache"`
	Search     SearchConfig      `yaml:"search"`
	Auth       AuthConfig        `yaml:"auth"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// PartitionConfig holds one content partition's backend endpoint.
type PartitionConfig struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// SimilarityConfig holds the similarity/readiness backend endpoint.
type SimilarityConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// CacheConfig holds the detail-metadata cache settings.
// An empty Addrs list disables caching.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// SearchConfig holds aggregation settings.
type SearchConfig struct {
	PageSize          int `yaml:"page_size"`
	RequestTimeoutSec int `yaml:"request_timeout_sec"`
	MaxCandidates     int `yaml:"max_candidates"`
	SessionTTLSec     int `yaml:"session_ttl_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = 20
	}
	if c.Search.RequestTimeoutSec <= 0 {
		c.Search.RequestTimeoutSec = 10
	}
	if c.Search.MaxCandidates <= 0 {
		c.Search.MaxCandidates = 500
	}
	if c.Search.SessionTTLSec <= 0 {
		c.Search.SessionTTLSec = 1800
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Partitions) == 0 {
		return fmt.Errorf("at least one partition is required")
	}
	seen := make(map[string]bool, len(c.Partitions))
	for i, p := range c.Partitions {
		if p.Name == "" {
			return fmt.Errorf("partitions[%d].name is required", i)
		}
		if p.BaseURL == "" {
			return fmt.Errorf("partitions[%d].base_url is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate partition name %q", p.Name)
		}
		seen[p.Name] = true
	}
	if c.Similarity.BaseURL == "" {
		return fmt.Errorf("similarity.base_url is required")
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

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
