// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/artha/internal/mcpserver"
	"github.com/starford/artha/internal/store"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Logs go to stderr: stdout carries the MCP stdio transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.Int("cache_max_size", cfg.Cache.MaxSize),
		slog.Bool("backups", cfg.Backup.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure vault directory exists.
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	st, err := store.New(store.Options{
		Root:         cfg.Vault.Path,
		MaxCacheSize: cfg.Cache.MaxSize,
		Backups:      cfg.Backup.Enabled,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	// Initial scan. A failure here is not fatal: the vault may be empty
	// or partially readable, and tools can trigger a rescan later.
	if err := st.ScanVault(ctx); err != nil {
		logger.Warn("initial scan failed", slog.String("error", err.Error()))
	}

	srv := mcpserver.New(st)

	logger.Info("Server starting...", slog.String("transport", "stdio"))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Serve MCP over stdin/stdout.
	g.Go(func() error {
		if err := srv.ServeStdio(gCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	})

	// Periodic staleness rescan keeps the cache close to disk state even
	// when no tool calls arrive.
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				if !st.Scanner().IsStale() {
					continue
				}
				if err := st.ScanVault(gCtx); err != nil {
					logger.Warn("background rescan failed", slog.String("error", err.Error()))
				}
			}
		}
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
