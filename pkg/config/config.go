package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"

	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-2.0-flash"
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3.1"
)

type Config struct {
	Environment string         `yaml:"environment" default:"development"`
	Server      ServerConfig   `yaml:"server"`
	Log         LogConfig      `yaml:"log"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	Session     SessionConfig  `yaml:"session"`
	Advisory    AdvisoryConfig `yaml:"advisory"`
	Redis       RedisConfig    `yaml:"redis"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"console"`
	Output string `yaml:"output" default:"stdout"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

// SessionConfig bounds dashboard session lifetime. Sessions slide on every access.
type SessionConfig struct {
	TTL             time.Duration `yaml:"ttl" default:"2h"`
	MaxSessions     int           `yaml:"max_sessions" default:"10000"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" default:"5m"`
}

type AdvisoryConfig struct {
	Provider string        `yaml:"provider" default:"gemini"`
	BaseURL  string        `yaml:"base_url"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout" default:"60s"`
	// Currency is the code appended to every amount in the prompt.
	Currency       string          `yaml:"currency" default:"MMK"`
	AdviceLanguage string          `yaml:"advice_language" default:"Myanmar"`
	MarketContext  string          `yaml:"market_context" default:"local market"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig is a per-session token bucket. Burst <= 0 disables limiting.
type RateLimitConfig struct {
	Burst     int     `yaml:"burst" default:"5"`
	PerMinute float64 `yaml:"per_minute" default:"2"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"forecastai"`
}

// Default returns a configuration with every default applied.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	c.applyProviderDefaults()
	return &c, nil
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}
	c.applyProviderDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func parse(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A missing file is not an error: defaults and the environment are used instead.
func LoadWithEnv(path string) (*Config, error) {
	c, err := parse(path)
	if errors.Is(err, os.ErrNotExist) {
		c, err = Default()
	}
	if err != nil {
		return nil, err
	}

	if v := firstEnv("ADVISORY_API_KEY", "GEMINI_API_KEY", "API_KEY"); v != "" {
		c.Advisory.APIKey = v
	}
	if v := os.Getenv("ADVISORY_PROVIDER"); v != "" {
		c.Advisory.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("ADVISORY_MODEL"); v != "" {
		c.Advisory.Model = v
	}
	if v := os.Getenv("ADVISORY_BASE_URL"); v != "" {
		c.Advisory.BaseURL = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("HTTP_PORT: %w", err)
		}
		c.Server.Port = p
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	c.applyProviderDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) applyProviderDefaults() {
	switch c.Advisory.Provider {
	case ProviderGemini:
		if c.Advisory.BaseURL == "" {
			c.Advisory.BaseURL = defaultGeminiBaseURL
		}
		if c.Advisory.Model == "" {
			c.Advisory.Model = defaultGeminiModel
		}
	case ProviderOllama:
		if c.Advisory.BaseURL == "" {
			c.Advisory.BaseURL = defaultOllamaBaseURL
		}
		if c.Advisory.Model == "" {
			c.Advisory.Model = defaultOllamaModel
		}
	}
}

// Validate checks if the configuration is valid. A missing API key is allowed:
// the advisory call then fails at request time while forecasts keep working.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Advisory.Provider != ProviderGemini && c.Advisory.Provider != ProviderOllama {
		return fmt.Errorf("advisory.provider must be '%s' or '%s', got '%s'", ProviderGemini, ProviderOllama, c.Advisory.Provider)
	}
	if c.Advisory.Timeout <= 0 {
		return fmt.Errorf("advisory.timeout must be positive")
	}
	if c.Advisory.Currency == "" {
		return fmt.Errorf("advisory.currency is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Advisory.RateLimit.Burst > 0 && c.Advisory.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("advisory.rate_limit.per_minute must be positive when burst is set")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	return nil
}
