package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/chat-summariser/internal/api"
	"github.com/2389/chat-summariser/internal/chat"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tui.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("SUMMARISER_API", "http://localhost:8091/api")
	path := writeConfig(t, `
[api]
base_url = "${SUMMARISER_API}"
timeout = "15s"

[chat]
default_title = "Scratch"
narrow_width = 100

[ui]
glamour_style = "light"

[logging]
level = "debug"
file = "/tmp/summariser-tui.log"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8091/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout())
	assert.Equal(t, "Scratch", cfg.Chat.DefaultTitle)
	assert.Equal(t, 100, cfg.Chat.NarrowWidth)
	assert.Equal(t, "light", cfg.UI.GlamourStyle)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/summariser-tui.log", cfg.Logging.File)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[ui]\n"))
	require.NoError(t, err)
	assert.Equal(t, api.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, chat.DefaultTitle, cfg.Chat.DefaultTitle)
	assert.Equal(t, defaultNarrowWidth, cfg.Chat.NarrowWidth)
	assert.Equal(t, "dark", cfg.UI.GlamourStyle)
	assert.Equal(t, time.Duration(0), cfg.Timeout())
	assert.NotEmpty(t, cfg.Logging.File)
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, api.DefaultBaseURL, cfg.API.BaseURL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad toml", "[api\n", "parsing config"},
		{"bad scheme", "[api]\nbase_url = \"ftp://example.com\"\n", "http or https"},
		{"bad timeout", "[api]\ntimeout = \"soon\"\n", "api.timeout"},
		{"negative width", "[chat]\nnarrow_width = -1\n", "narrow_width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv(envConfigPath, "/etc/summariser/tui.toml")
	assert.Equal(t, "/etc/summariser/tui.toml", configPath())

	t.Setenv(envConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "summariser", "tui.toml"), configPath())
}

func TestStatePath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	assert.Equal(t, filepath.Join("/state", "summariser", "tui.log"), statePath("tui.log"))
}
