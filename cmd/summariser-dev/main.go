// ABOUTME: Local stand-in for the conversation service, for development and E2E runs
// ABOUTME: Usage: summariser-dev [-addr 127.0.0.1:8091] [-db conversations.db]

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/2389/chat-summariser/internal/config"
	"github.com/2389/chat-summariser/internal/devserver"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", "127.0.0.1:8091", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path (in-memory when empty)")
	level := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	logger := config.NewLogger(config.LoggingConfig{Level: *level}, os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *addr, *dbPath, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStore(dbPath string, logger *slog.Logger) (devserver.Store, error) {
	if dbPath == "" {
		return devserver.NewMemoryStore(), nil
	}
	return devserver.NewSQLiteStore(dbPath, logger)
}

func run(ctx context.Context, addr, dbPath string, logger *slog.Logger) error {
	store, err := openStore(dbPath, logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)
	green.Print("    ▶ ")
	fmt.Printf("API:    http://%s/api\n", ln.Addr())
	green.Print("    ▶ ")
	if dbPath == "" {
		fmt.Print("Store:  ")
		gray.Println("in-memory")
	} else {
		fmt.Printf("Store:  %s\n", dbPath)
	}
	fmt.Println()

	srv := &http.Server{
		Handler:           devserver.New(store, nil, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dev conversation service listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("context canceled, initiating shutdown")
	case err := <-errCh:
		return fmt.Errorf("HTTP server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
