package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/rnotes/internal/auth"
	"github.com/starford/rnotes/internal/mcpserver"
	"github.com/starford/rnotes/internal/models"
	"github.com/starford/rnotes/internal/noteservice"
	"github.com/starford/rnotes/internal/store"
)

// withService opens the store described by the options and runs fn with a
// note service on top of it. Logs go to stderr so stdout stays free for
// command output and the MCP transport.
func withService(ctx context.Context, opts []Option, fn func(*application, *noteservice.Service) error) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := newLogger(os.Stderr, cfg.App.LogLevel)
	slog.SetDefault(logger)

	db, err := store.Open(ctx, cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	svc := noteservice.NewService(db, auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.SessionTime), nil)
	return fn(app, svc)
}

// AddUser registers a user with a clear-text password.
func AddUser(ctx context.Context, email, name, password string, opts ...Option) (models.User, error) {
	var u models.User
	err := withService(ctx, opts, func(_ *application, svc *noteservice.Service) error {
		var err error
		u, err = svc.AddUser(ctx, email, name, password)
		return err
	})
	return u, err
}

// AddCategory creates a category.
func AddCategory(ctx context.Context, name string, opts ...Option) (models.CategoryOut, error) {
	var c models.CategoryOut
	err := withService(ctx, opts, func(_ *application, svc *noteservice.Service) error {
		var err error
		c, err = svc.AddCategory(ctx, name)
		return err
	})
	return c, err
}

// ServeMCP runs an MCP server on stdio acting as the user with the given email.
func ServeMCP(ctx context.Context, email string, opts ...Option) error {
	return withService(ctx, opts, func(app *application, svc *noteservice.Service) error {
		u, err := svc.UserByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("user %s: %w", email, err)
		}
		slog.Info("MCP server starting", slog.String("email", u.Email), slog.String("version", app.version))
		return mcpserver.New(svc, u.ID, app.version).ServeStdio()
	})
}
