// ABOUTME: Terminal client for the chat summariser
// ABOUTME: Runs the chat page as a bubbletea program, logging to a file

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/2389/chat-summariser/internal/api"
	"github.com/2389/chat-summariser/internal/chat"
	"github.com/2389/chat-summariser/internal/config"
	"github.com/2389/chat-summariser/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	path := flag.String("config", configPath(), "Config file path")
	baseURL := flag.String("api", "", "Conversation service base URL (overrides config)")
	style := flag.String("style", "", "Markdown style: dark, light, notty, ... (overrides config)")
	logFile := flag.String("log", "", "Log file path (overrides config)")
	flag.Parse()

	cfg, err := LoadOrDefault(*path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}
	if *style != "" {
		cfg.UI.GlamourStyle = *style
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	logger := config.NewLogger(config.LoggingConfig{Level: cfg.Logging.Level}, f)
	logger.Info("starting summariser-tui", "api_base_url", cfg.API.BaseURL, "config", *path)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger),
	)
	page := chat.New(client, chat.Config{
		DefaultTitle: cfg.Chat.DefaultTitle,
		Breakpoint:   cfg.Chat.NarrowWidth,
		Logger:       logger,
	})
	defer page.Close()

	model := tui.New(ctx, page, tui.Options{GlamourStyle: cfg.UI.GlamourStyle})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
