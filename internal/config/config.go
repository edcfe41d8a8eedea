// ABOUTME: Configuration loading and parsing for sverigesradio-mcp
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/2389/sverigesradio-mcp/internal/srclient"
)

// Config represents the complete sverigesradio-mcp configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" toml:"server"`
	API     APIConfig     `yaml:"api" toml:"api"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`
}

// APIConfig holds the upstream client configuration
type APIConfig struct {
	BaseURL          string `yaml:"base_url" toml:"base_url"`
	UserAgent        string `yaml:"user_agent" toml:"user_agent"`
	MaxRetries       int    `yaml:"max_retries" toml:"max_retries"`
	MaxCacheEntries  int    `yaml:"max_cache_entries" toml:"max_cache_entries"`
	CoalesceRequests bool   `yaml:"coalesce_requests" toml:"coalesce_requests"`

	Timeout          time.Duration `yaml:"-" toml:"-"`
	RetryBackoff     time.Duration `yaml:"-" toml:"-"`
	DefaultFreshness time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	TimeoutRaw          string `yaml:"timeout" toml:"timeout"`
	RetryBackoffRaw     string `yaml:"retry_backoff" toml:"retry_backoff"`
	DefaultFreshnessRaw string `yaml:"default_freshness" toml:"default_freshness"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig holds metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr: ":3000",
		},
		API: APIConfig{
			BaseURL:          srclient.DefaultBaseURL,
			UserAgent:        srclient.DefaultUserAgent,
			MaxRetries:       srclient.DefaultMaxRetries,
			MaxCacheEntries:  srclient.DefaultMaxCacheEntries,
			Timeout:          srclient.DefaultTimeout,
			RetryBackoff:     srclient.DefaultRetryBackoff,
			DefaultFreshness: srclient.DefaultFreshness,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
// A missing file yields the defaults. Environment overrides apply last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Defaults only
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := decode(path, expandEnvVars(string(data)), cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func decode(path, content string, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(content, cfg)
		return err
	}
	return yaml.Unmarshal([]byte(content), cfg)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// applyEnv applies the environment overrides hosting platforms set directly.
func applyEnv(cfg *Config) {
	if raw := os.Getenv("SR_API_TIMEOUT_MS"); raw != "" {
		// Non-numeric or non-positive values keep the configured timeout
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			cfg.API.Timeout = time.Duration(ms) * time.Millisecond
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.HTTPAddr = ":" + port
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = strings.ToLower(level)
	}
}

// Validate checks that all configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.API.MaxRetries < 0 || c.API.MaxRetries > 10 {
		return fmt.Errorf("api.max_retries must be between 0 and 10, got %d", c.API.MaxRetries)
	}
	if c.API.RetryBackoff < 0 {
		return fmt.Errorf("api.retry_backoff must not be negative")
	}
	if c.API.MaxCacheEntries <= 0 {
		return fmt.Errorf("api.max_cache_entries must be positive, got %d", c.API.MaxCacheEntries)
	}
	if c.API.DefaultFreshness <= 0 {
		return fmt.Errorf("api.default_freshness must be positive")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"timeout", cfg.API.TimeoutRaw, &cfg.API.Timeout},
		{"retry_backoff", cfg.API.RetryBackoffRaw, &cfg.API.RetryBackoff},
		{"default_freshness", cfg.API.DefaultFreshnessRaw, &cfg.API.DefaultFreshness},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}
	return nil
}

// ClientConfig maps the API section onto the upstream client configuration.
func (c *Config) ClientConfig() srclient.Config {
	retries := c.API.MaxRetries
	if retries == 0 {
		// The client reads zero as "use the default"
		retries = -1
	}
	return srclient.Config{
		BaseURL:          c.API.BaseURL,
		Timeout:          c.API.Timeout,
		MaxRetries:       retries,
		RetryBackoff:     c.API.RetryBackoff,
		MaxCacheEntries:  c.API.MaxCacheEntries,
		DefaultFreshness: c.API.DefaultFreshness,
		UserAgent:        c.API.UserAgent,
		CoalesceRequests: c.API.CoalesceRequests,
	}
}

// DefaultPath returns the config file location: $SR_MCP_CONFIG, then
// $XDG_CONFIG_HOME/sverigesradio-mcp/config.yaml, then ~/.config/sverigesradio-mcp/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("SR_MCP_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sverigesradio-mcp", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sverigesradio-mcp", "config.yaml")
}
