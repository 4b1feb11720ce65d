// Package internal wires configuration, the session store and the backend
// client into the terminal UI and the MCP server.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ainotes/internal/mcpserver"
	"github.com/starford/ainotes/internal/session"
	"github.com/starford/ainotes/internal/storage"
	"github.com/starford/ainotes/internal/tui"
)

// Run starts the terminal UI with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Logs must stay off the terminal the UI draws on.
	logger := app.logger
	if logger == nil {
		logger = NewLogger(io.Discard, cfg.App.LogLevel)
	}

	logger.Info("Configuration loaded",
		slog.String("base_url", cfg.API.BaseURL),
		slog.String("session_path", cfg.Session.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, err := NewServices(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	picker, err := storage.NewPicker(wd)
	if err != nil {
		return fmt.Errorf("init image picker: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	ui := tui.New(gCtx, tui.Deps{
		Notes:    svc.Client,
		Sessions: svc.Sessions,
		Sharer:   svc.Sharer,
		Picker:   picker,
		BaseURL:  cfg.API.BaseURL,
		Logger:   logger,
	})

	// Sign-ins and sign-outs from another process show up as file changes.
	g.Go(func() error {
		if err := session.Watch(gCtx, cfg.Session.Path, logger, ui.SessionChanged); err != nil {
			logger.Warn("session watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		defer cancel()
		if err := ui.Run(); err != nil {
			return fmt.Errorf("terminal UI error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			ui.Stop()
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Terminal UI stopped")
	return nil
}

// RunMCP serves the note tools over stdio until the client disconnects.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger
	if logger == nil {
		// stdout carries the protocol.
		logger = NewLogger(os.Stderr, app.config.App.LogLevel)
	}

	svc, err := NewServices(app.config, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	logger.Info("MCP server starting", slog.String("base_url", app.config.API.BaseURL))
	return mcpserver.New(svc.Client, app.config.API.BaseURL, logger).ServeStdio()
}
