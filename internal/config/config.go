package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file omits a value.
const (
	DefaultServerURL = "http://localhost:3002"
	DefaultProvider  = "gemini"
	DefaultModel     = "gemini-1.5-flash"
	DefaultCacheTTL  = 300
)

// Config represents the complete taskman configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	LLM    LLMConfig    `yaml:"llm"`
	Cache  CacheConfig  `yaml:"cache"`
}

// ServerConfig points at the task management server
type ServerConfig struct {
	// BaseURL is the root of the task server's REST surface
	BaseURL string `yaml:"base_url"`
}

// LLMConfig selects and authenticates the completion provider
type LLMConfig struct {
	Provider string `yaml:"provider"` // "openai" or "gemini"
	Model    string `yaml:"model"`
	// APIKey supports ${VAR} expansion, e.g. "${GEMINI_API_KEY}"
	APIKey string `yaml:"api_key"`
}

// CacheConfig controls the discovered tool schema cache
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

// TTL returns the cache TTL as a duration
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Load reads and parses the YAML config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg.applyDefaults()
	cfg.LLM.APIKey = ExpandEnv(cfg.LLM.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config with fallback to default locations
// Checks: ./taskman.yaml, ~/.config/taskman/taskman.yaml, /etc/taskman/taskman.yaml
func LoadWithDefaults() (*Config, error) {
	locations := []string{
		"./taskman.yaml",
		"./configs/taskman.yaml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "taskman", "taskman.yaml"))
	}

	locations = append(locations, "/etc/taskman/taskman.yaml")

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return Load(loc)
		}
	}

	// No config found - defaults only (not an error)
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = DefaultServerURL
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = DefaultCacheTTL
	}
}

// Validate checks config correctness
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unsupported llm provider: %s (expected 'openai' or 'gemini')", c.LLM.Provider)
	}

	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache ttl_seconds cannot be negative: %d", c.Cache.TTLSeconds)
	}

	return nil
}
