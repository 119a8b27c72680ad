// Package runner executes parsed commands against an rnotes server and
// renders each outcome as a single printable string.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/starford/rnotes/internal/command"
	"github.com/starford/rnotes/internal/digest"
	"github.com/starford/rnotes/internal/models"
)

// API is the transport the Runner talks through. *client.Client implements it.
type API interface {
	Get(ctx context.Context, path, token string, out any) error
	Post(ctx context.Context, path, token string, in, out any) error
	Put(ctx context.Context, path, token string, in, out any) error
	Delete(ctx context.Context, path, token string) error
}

// Runner holds the session token. It is not safe for concurrent use; the
// shell drives it from a single worker goroutine.
type Runner struct {
	api    API
	token  string
	dump   *spew.ConfigState
	logger *slog.Logger
}

// New creates a Runner without a session.
func New(api API) *Runner {
	return &Runner{
		api: api,
		dump: &spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
		logger: slog.Default(),
	}
}

// LoggedIn reports whether a session token is held.
func (r *Runner) LoggedIn() bool { return r.token != "" }

// Execute runs cmd and returns what to print. Failures are rendered as
// "Failed '<service> <op>[ <id>]'. <error>" and never returned as errors.
func (r *Runner) Execute(ctx context.Context, cmd command.Command) string {
	switch c := cmd.(type) {
	case command.Help:
		return c.Text
	case command.Nothing:
		return ""
	case command.AuthCommand:
		return r.auth(ctx, c)
	case command.CategoriesCommand:
		return r.categories(ctx, c)
	case command.NotesCommand:
		return r.notes(ctx, c)
	default:
		return ""
	}
}

func (r *Runner) auth(ctx context.Context, cmd command.AuthCommand) string {
	switch c := cmd.(type) {
	case command.AuthLogin:
		in := models.LoginIn{
			Email:    c.Credentials.Email,
			Password: digest.Password(c.Credentials.Password),
		}
		var out models.LoginOut
		if err := r.api.Post(ctx, "/auth/login", "", in, &out); err != nil {
			r.token = ""
			return r.failed(err, "auth login", in.Email)
		}
		r.token = out.JWTToken
		return fmt.Sprintf("Logged in as %s.", in.Email)
	}
	return ""
}

func (r *Runner) categories(ctx context.Context, cmd command.CategoriesCommand) string {
	switch c := cmd.(type) {
	case command.CategoriesAll:
		var out []models.CategoryOut
		if err := r.api.Get(ctx, "/categories/", r.token, &out); err != nil {
			return r.failed(err, "categories all")
		}
		return r.render(out)
	case command.CategoriesGet:
		var out models.CategoryOut
		if err := r.api.Get(ctx, fmt.Sprintf("/categories/%d", c.ID), r.token, &out); err != nil {
			return r.failed(err, "categories get", c.ID)
		}
		return r.render(out)
	}
	return ""
}

func (r *Runner) notes(ctx context.Context, cmd command.NotesCommand) string {
	switch c := cmd.(type) {
	case command.NotesAll:
		var out []models.NoteOut
		if err := r.api.Get(ctx, "/notes/", r.token, &out); err != nil {
			return r.failed(err, "notes all")
		}
		return r.render(out)
	case command.NotesGet:
		var out models.NoteOut
		if err := r.api.Get(ctx, notePath(c.ID), r.token, &out); err != nil {
			return r.failed(err, "notes get", c.ID)
		}
		return r.render(out)
	case command.NotesCreate:
		var out models.NoteOut
		if err := r.api.Post(ctx, "/notes", r.token, c.Note, &out); err != nil {
			return r.failed(err, "notes create")
		}
		return r.render(out)
	case command.NotesUpdate:
		var out models.NoteOut
		if err := r.api.Put(ctx, notePath(c.ID), r.token, c.Note, &out); err != nil {
			return r.failed(err, "notes update", c.ID)
		}
		return r.render(out)
	case command.NotesDelete:
		if err := r.api.Delete(ctx, notePath(c.ID), r.token); err != nil {
			return r.failed(err, "notes delete", c.ID)
		}
		return fmt.Sprintf("Note %d deleted.", c.ID)
	}
	return ""
}

func notePath(id int32) string {
	return fmt.Sprintf("/notes/%d", id)
}

func (r *Runner) render(v any) string {
	return strings.TrimRight(r.dump.Sdump(v), "\n")
}

func (r *Runner) failed(err error, op string, args ...any) string {
	r.logger.Debug("command failed", "op", op, "error", err)
	for _, a := range args {
		op += fmt.Sprintf(" %v", a)
	}
	return fmt.Sprintf("Failed '%s'. %v", op, err)
}
