// Package cli wires the rnotes-cli process: logging, the HTTP client, the
// runner and the interactive shell.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/rnotes/internal/client"
	"github.com/starford/rnotes/internal/runner"
	"github.com/starford/rnotes/internal/shell"
)

// Option is a functional option for configuring the CLI.
type Option func(*application)

type application struct {
	config    *Config
	server    string
	shellOpts []shell.Option
}

// WithConfig sets the CLI configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithServer sets the base URL of the rnotes server.
func WithServer(url string) Option {
	return func(a *application) {
		a.server = url
	}
}

// WithShellOptions passes options through to the shell.
func WithShellOptions(opts ...shell.Option) Option {
	return func(a *application) {
		a.shellOpts = append(a.shellOpts, opts...)
	}
}

// Run starts an interactive session and blocks until it ends.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.server == "" {
		app.server = client.DefaultBaseURL
	}
	cfg := app.config

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("server", app.server),
		slog.String("history_file", cfg.HistoryFile),
		slog.Duration("spinner_interval", cfg.SpinnerInterval))

	api := client.New(client.Config{BaseURL: app.server, Logger: logger})
	sh := shell.New(shell.Config{
		Prompt:          cfg.Prompt,
		Server:          api.BaseURL(),
		SpinnerInterval: cfg.SpinnerInterval,
		History:         shell.NewHistory(cfg.HistoryFile, cfg.HistoryLimit),
	}, runner.New(api), append([]shell.Option{shell.WithLogger(logger)}, app.shellOpts...)...)

	return sh.Run(ctx)
}
