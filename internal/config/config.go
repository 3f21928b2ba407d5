// Package config loads server configuration from an optional YAML file
// with environment-variable overrides. Environment always wins.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Port string `yaml:"port"`

	// Database selects the record-store backend.
	Database DatabaseConfig `yaml:"database"`

	// Sessions selects the session-store backend.
	Sessions SessionConfig `yaml:"sessions"`

	// LLM configures the optional response renderer.
	LLM LLMConfig `yaml:"llm"`

	// SecretKey signs session cookies (HMAC-SHA256). Required, at
	// least 32 bytes.
	SecretKey    string   `yaml:"secret_key"`
	CookieSecure bool     `yaml:"cookie_secure"`
	CISOID       string   `yaml:"ciso_employee_id"`
	Origins      []string `yaml:"allowed_origins"`

	// RateLimit caps chat requests per client per minute. Zero
	// disables limiting.
	RateLimit int `yaml:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	Path   string `yaml:"path"`   // sqlite file path
	DSN    string `yaml:"dsn"`    // postgres connection string
}

type SessionConfig struct {
	Backend        string `yaml:"backend"` // "memory" or "redis"
	TimeoutMinutes int    `yaml:"timeout_minutes"`
	RedisAddr      string `yaml:"redis_addr"`
	RedisPassword  string `yaml:"redis_password"`
	RedisDB        int    `yaml:"redis_db"`
}

type LLMConfig struct {
	Provider       string `yaml:"provider"` // "openai", "anthropic", or "none"
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Port: "8080",
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "trainquery.db",
		},
		Sessions: SessionConfig{
			Backend:        "memory",
			TimeoutMinutes: 30,
			RedisAddr:      "localhost:6379",
		},
		LLM: LLMConfig{
			Provider:       "none",
			TimeoutSeconds: 60,
		},
		CookieSecure: true,
		CISOID:       "123456789",
		Origins:      []string{"http://localhost:3000"},
		RateLimit:    30,
	}
}

// Load builds the configuration from defaults, then the YAML file at
// path (skipped when path is empty or the file does not exist), then
// the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants main relies on.
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required")
	}
	if len(c.SecretKey) < 32 {
		return fmt.Errorf("secret key must be at least 32 characters for HMAC-SHA256 security")
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Sessions.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown session backend %q", c.Sessions.Backend)
	}
	if c.Sessions.TimeoutMinutes <= 0 {
		return fmt.Errorf("session timeout must be positive")
	}
	return nil
}

// SessionTTL returns the session timeout as a duration.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Sessions.TimeoutMinutes) * time.Minute
}

// LLMTimeout returns the renderer timeout as a duration.
func (c Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.Path, "DATABASE_PATH")
	setString(&cfg.Database.DSN, "DATABASE_DSN")
	setString(&cfg.Sessions.Backend, "SESSION_BACKEND")
	setInt(&cfg.Sessions.TimeoutMinutes, "SESSION_TIMEOUT_MINUTES")
	setString(&cfg.Sessions.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Sessions.RedisPassword, "REDIS_PASSWORD")
	setInt(&cfg.Sessions.RedisDB, "REDIS_DB")
	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setInt(&cfg.LLM.TimeoutSeconds, "LLM_TIMEOUT_SECONDS")
	setString(&cfg.SecretKey, "SECRET_KEY")
	setString(&cfg.CISOID, "CISO_EMPLOYEE_ID")
	setInt(&cfg.RateLimit, "RATE_LIMIT_PER_MINUTE")

	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		cfg.CookieSecure = v != "false"
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
