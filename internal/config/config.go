// ABOUTME: Configuration loading and parsing for the summariser web frontend
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/2389/chat-summariser/internal/api"
)

// EnvConfigPath names the environment variable that overrides the config location.
const EnvConfigPath = "SUMMARISER_CONFIG"

// Defaults applied when a field is absent.
const (
	DefaultHTTPAddr           = "127.0.0.1:8090"
	DefaultTitle              = "New Chat"
	DefaultNarrowWidth        = 768
	DefaultSessionIdleTimeout = 30 * time.Minute
	DefaultTailscaleHostname  = "summariser"
)

// Config represents the complete summariser-web configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	API       APIConfig       `yaml:"api"`
	Chat      ChatConfig      `yaml:"chat"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds the local listen address
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// APIConfig points at the conversation service
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"-"`

	TimeoutRaw string `yaml:"timeout"`
}

// ChatConfig holds chat page behaviour
type ChatConfig struct {
	DefaultTitle       string        `yaml:"default_title"`
	NarrowWidth        int           `yaml:"narrow_width"`
	SessionIdleTimeout time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	SessionIdleTimeoutRaw string `yaml:"session_idle_timeout"`
}

// TailscaleConfig holds Tailscale tsnet configuration
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Hostname  string `yaml:"hostname"`
	AuthKey   string `yaml:"auth_key"`
	StateDir  string `yaml:"state_dir"`
	Ephemeral bool   `yaml:"ephemeral"`
	CertFile  string `yaml:"cert_file"` // TLS cert file (generate via: tailscale cert <hostname>)
	KeyFile   string `yaml:"key_file"`
	Funnel    bool   `yaml:"funnel"` // public Funnel, implies HTTPS
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// DefaultPath returns the config location: $SUMMARISER_CONFIG, else
// $XDG_CONFIG_HOME/summariser/web.yaml, else ~/.config/summariser/web.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "summariser", "web.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "summariser", "web.yaml")
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPAddr == "" && !cfg.Tailscale.Enabled {
		cfg.Server.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = api.DefaultBaseURL
	}
	if cfg.Chat.DefaultTitle == "" {
		cfg.Chat.DefaultTitle = DefaultTitle
	}
	if cfg.Chat.NarrowWidth == 0 {
		cfg.Chat.NarrowWidth = DefaultNarrowWidth
	}
	if cfg.Chat.SessionIdleTimeout == 0 {
		cfg.Chat.SessionIdleTimeout = DefaultSessionIdleTimeout
	}
	if cfg.Tailscale.Enabled && cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = DefaultTailscaleHostname
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if !c.Tailscale.Enabled && c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required (or enable tailscale)")
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https scheme")
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if c.Chat.NarrowWidth < 0 {
		return fmt.Errorf("chat.narrow_width must not be negative")
	}

	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if (c.Tailscale.CertFile == "") != (c.Tailscale.KeyFile == "") {
		return fmt.Errorf("tailscale.cert_file and tailscale.key_file must be set together")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.API.TimeoutRaw != "" {
		cfg.API.Timeout, err = time.ParseDuration(cfg.API.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", cfg.API.TimeoutRaw, err)
		}
	}

	if cfg.Chat.SessionIdleTimeoutRaw != "" {
		cfg.Chat.SessionIdleTimeout, err = time.ParseDuration(cfg.Chat.SessionIdleTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing session_idle_timeout %q: %w", cfg.Chat.SessionIdleTimeoutRaw, err)
		}
	}

	return nil
}
