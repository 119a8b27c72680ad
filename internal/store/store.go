// Package store provides SQLite-backed persistence for users, categories
// and notes. The schema is managed by embedded goose migrations.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/starford/rnotes/internal/apperr"
	"github.com/starford/rnotes/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store defines the persistence operations of the server.
// Consumers should depend on this interface rather than the concrete *DB type.
type Store interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id int32) (models.User, error)

	CreateCategory(ctx context.Context, name string) (models.Category, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Category(ctx context.Context, id int32) (models.Category, error)

	NotesByUser(ctx context.Context, userID int32) ([]models.Note, error)
	Note(ctx context.Context, id, userID int32) (models.Note, error)
	CreateNote(ctx context.Context, n models.Note) (models.Note, error)
	UpdateNote(ctx context.Context, n models.Note) (models.Note, error)
	DeleteNote(ctx context.Context, id, userID int32) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// DB wraps a sql.DB with the rnotes queries.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and migrates it to the
// latest schema.
func Open(ctx context.Context, dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if err := migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &DB{conn: conn}, nil
}

func migrate(ctx context.Context, conn *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, conn, "migrations")
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// classify maps driver and lookup errors onto apperr sentinels.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("store: %s: %w", op, apperr.ErrNotFound)
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("store: %s: %w", op, apperr.ErrAlreadyExists)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("store: %s: %w: unknown reference", op, apperr.ErrInvalid)
		}
	}
	return fmt.Errorf("store: %s: %w", op, err)
}
