// Package main is the entry point for the sqlgen HTTP server. It loads the
// metadata named by SQLGEN_METADATA and serves the JSON API and HTML form.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sqlgen/internal/api"
	"sqlgen/internal/app"
	"sqlgen/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	srv, err := build(ctx, ".env", os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(srv.logger)
	return api.Serve(ctx, srv.cfg.ListenAddr, srv.app.Handler, srv.logger)
}

type server struct {
	cfg    *config.Config
	logger *slog.Logger
	app    *app.App
}

// build reads envFile and the environment, then loads the metadata and wires
// the handler. Logs go to logOut as JSON.
func build(ctx context.Context, envFile string, logOut io.Writer) (*server, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	application, err := app.New(ctx, app.Deps{Cfg: cfg, Logger: logger})
	if err != nil {
		return nil, err
	}
	logger.Info("server configured",
		"listen_addr", cfg.ListenAddr,
		"metadata", cfg.Metadata,
		"mode", cfg.Mode,
		"tables", application.Generator.Catalog().Len())
	return &server{cfg: cfg, logger: logger, app: application}, nil
}
