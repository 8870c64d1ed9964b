// ABOUTME: Entry point for the summariser web frontend
// ABOUTME: Serves the browser chat page backed by the conversation service

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/2389/chat-summariser/internal/config"
	"github.com/2389/chat-summariser/internal/gateway"
)

// version is set at build time.
var version = "dev"

const banner = `
                                         _
 ___ _   _ _ __ ___  _ __ ___   __ _ _ __(_)___  ___ _ __
/ __| | | | '_ ' _ \| '_ ' _ \ / _' | '__| / __|/ _ \ '__|
\__ \ |_| | | | | | | | | | | | (_| | |  | \__ \  __/ |
|___/\__,_|_| |_| |_|_| |_| |_|\__,_|_|  |_|___/\___|_|
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: summariser-web <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve    Start the web frontend")
		fmt.Println("  health   Check a running frontend")
		os.Exit(1)
	}

	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := config.DefaultPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := config.NewLogger(cfg.Logging, os.Stdout)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("API:       %s\n", cfg.API.BaseURL)
	if cfg.Tailscale.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Tailscale: ")
		cyan.Print(cfg.Tailscale.Hostname)
		if cfg.Tailscale.Funnel {
			yellow.Print(" [funnel]")
		}
		if cfg.Tailscale.Ephemeral {
			gray.Print(" (ephemeral)")
		}
		fmt.Println()
	} else {
		green.Print("    ▶ ")
		fmt.Printf("HTTP:      http://%s\n", cfg.Server.HTTPAddr)
	}
	fmt.Println()

	logger.Info("starting summariser-web",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"api_base_url", cfg.API.BaseURL,
	)

	gw, err := gateway.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}
	return gw.Run(ctx)
}

func runHealth(ctx context.Context) error {
	cfg, err := config.LoadOrDefault(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is not set")
	}

	addr := cfg.Server.HTTPAddr
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}
	url := fmt.Sprintf("http://%s/health", addr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}
