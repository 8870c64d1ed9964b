// ABOUTME: Configuration loading for the summariser terminal client
// ABOUTME: Loads TOML config from XDG path with environment variable expansion

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/2389/chat-summariser/internal/api"
	"github.com/2389/chat-summariser/internal/chat"
)

// envConfigPath overrides the config file location.
const envConfigPath = "SUMMARISER_TUI_CONFIG"

const defaultNarrowWidth = 80

type Config struct {
	API     APIConfig     `toml:"api"`
	Chat    ChatConfig    `toml:"chat"`
	UI      UIConfig      `toml:"ui"`
	Logging LoggingConfig `toml:"logging"`
}

type APIConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

type ChatConfig struct {
	DefaultTitle string `toml:"default_title"`
	// NarrowWidth is the terminal width, in columns, below which selecting
	// a conversation hides the list.
	NarrowWidth int `toml:"narrow_width"`
}

type UIConfig struct {
	GlamourStyle string `toml:"glamour_style"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// defaultConfig is used when no config file exists.
func defaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// configPath returns $SUMMARISER_TUI_CONFIG, else the XDG location.
func configPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "tui.toml"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "summariser", "tui.toml")
}

// statePath returns the default log file location under XDG_STATE_HOME.
func statePath(name string) string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return name
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "summariser", name)
}

// Load reads config from the given path, expanding environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables (${VAR} syntax)
	expanded := expandEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultConfig(), nil
	}
	return cfg, err
}

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = api.DefaultBaseURL
	}
	if c.Chat.DefaultTitle == "" {
		c.Chat.DefaultTitle = chat.DefaultTitle
	}
	if c.Chat.NarrowWidth == 0 {
		c.Chat.NarrowWidth = defaultNarrowWidth
	}
	if c.UI.GlamourStyle == "" {
		c.UI.GlamourStyle = "dark"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.File == "" {
		c.Logging.File = statePath("tui.log")
	}
}

// Timeout returns the parsed api.timeout, zero when unset.
func (c *Config) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.API.Timeout)
	return d
}

// Validate checks that config fields are present and valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https scheme")
	}
	if c.API.Timeout != "" {
		d, err := time.ParseDuration(c.API.Timeout)
		if err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("api.timeout must not be negative")
		}
	}
	if c.Chat.NarrowWidth < 0 {
		return fmt.Errorf("chat.narrow_width must not be negative")
	}
	return nil
}
