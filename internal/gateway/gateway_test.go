// ABOUTME: Tests for the Gateway orchestrator
// ABOUTME: Runs the frontend on a loopback listener against the dev conversation service

package gateway

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/chat-summariser/internal/config"
	"github.com/2389/chat-summariser/internal/devserver"
)

// testLogger creates a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	backend := httptest.NewServer(devserver.New(devserver.NewMemoryStore(), nil, nil))
	t.Cleanup(backend.Close)

	cfg := config.Default()
	cfg.Server.HTTPAddr = "127.0.0.1:0"
	cfg.API.BaseURL = backend.URL + "/api"
	return cfg
}

func TestGatewayNew(t *testing.T) {
	cfg := testConfig(t)

	gw, err := New(cfg, testLogger())
	require.NoError(t, err)
	defer gw.Shutdown(context.Background())

	assert.Same(t, cfg, gw.config)
	assert.Equal(t, cfg.API.BaseURL, gw.client.BaseURL())
	assert.NotNil(t, gw.Handler())
	assert.Nil(t, gw.tsnetServer)
}

func TestGatewayServeAndShutdown(t *testing.T) {
	gw, err := New(testConfig(t), testLogger())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gw.Serve(ctx, ln) }()

	resp, err := http.Get(base + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "No conversation open")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	_, err = http.Get(base + "/health")
	assert.Error(t, err)
}

func TestGatewayRunListenError(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	cfg := testConfig(t)
	cfg.Server.HTTPAddr = occupied.Addr().String()
	gw, err := New(cfg, testLogger())
	require.NoError(t, err)

	err = gw.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on HTTP address")
}

func TestResolveTailscaleStateDir(t *testing.T) {
	dir, err := resolveTailscaleStateDir("/var/lib/summariser")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/summariser", dir)

	home := t.TempDir()
	t.Setenv("HOME", home)
	dir, err = resolveTailscaleStateDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", "summariser", "tailscale"), dir)
}

func TestResolveTailscaleAuthKey(t *testing.T) {
	t.Setenv("TS_AUTHKEY", "")
	_, err := resolveTailscaleAuthKey("")
	assert.Error(t, err)

	key, err := resolveTailscaleAuthKey("tskey-config")
	require.NoError(t, err)
	assert.Equal(t, "tskey-config", key)

	t.Setenv("TS_AUTHKEY", "tskey-env")
	key, err = resolveTailscaleAuthKey("")
	require.NoError(t, err)
	assert.Equal(t, "tskey-env", key)
}

func TestAppendCloseError(t *testing.T) {
	errs := appendCloseError(nil, "noop", nil)
	assert.Empty(t, errs)

	errs = appendCloseError(errs, "store", io.ErrUnexpectedEOF)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], io.ErrUnexpectedEOF)
	assert.Contains(t, errs[0].Error(), "store")
}
