// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/paprika/internal/mcpserver"
	"github.com/starford/paprika/internal/session"
	"github.com/starford/paprika/pkg/paprika"
)

// Version is reported by the CLI and the MCP server. Overridden at build time.
var Version = "dev"

// App is the wired application.
type App struct {
	Config  *Config
	Logger  *slog.Logger
	Client  *paprika.Client
	Session *session.Service

	stdin  io.Reader
	stdout io.Writer
}

// Setup builds the logger, API client and session from the given options.
func Setup(opts ...Option) (*App, error) {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	// Structured JSON logger on stderr; stdout carries command output.
	logger := app.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
		slog.SetDefault(logger)
	}

	logger.Debug("Configuration loaded",
		slog.String("base_url", cfg.API.BaseURL),
		slog.String("timeout", cfg.API.Timeout.String()),
		slog.Int("concurrency", cfg.Sync.Concurrency),
		slog.String("log_level", cfg.App.LogLevel.String()))

	hc := app.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.API.Timeout}
	}

	client := paprika.NewClient(cfg.API.BaseURL,
		paprika.WithHTTPClient(hc),
		paprika.WithLogger(logger),
		paprika.WithUserAgent(cfg.API.UserAgent),
	)

	svc := session.NewService(client, session.Credentials{
		Email:    cfg.Account.Email,
		Password: cfg.Account.Password,
	}, logger, cfg.Sync.Concurrency)

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Session: svc,
		stdin:   app.stdin,
		stdout:  app.stdout,
	}
	if a.stdin == nil {
		a.stdin = os.Stdin
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	return a, nil
}

// ServeMCP runs the MCP stdio server until stdin is closed, ctx is
// cancelled or the process receives SIGINT or SIGTERM.
func ServeMCP(ctx context.Context, opts ...Option) error {
	a, err := Setup(opts...)
	if err != nil {
		return err
	}
	logger := a.Logger

	srv := mcpserver.New(a.Session, Version)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting MCP server", slog.String("version", Version))
		err := srv.Serve(gCtx, a.stdin, a.stdout)
		cancel()
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("MCP server stopped")
	return nil
}
