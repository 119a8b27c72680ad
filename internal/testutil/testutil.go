// Package testutil provides shared test helpers for databases and seeded users.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/starford/rnotes/internal/auth"
	"github.com/starford/rnotes/internal/digest"
	"github.com/starford/rnotes/internal/models"
	"github.com/starford/rnotes/internal/store"
)

// TestDB creates a temporary migrated SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "rnotes-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(context.Background(), dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestUser inserts a user whose login password is the given clear text.
func TestUser(t *testing.T, db store.Store, email, password string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(digest.Password(password))
	if err != nil {
		t.Fatal(err)
	}
	u, err := db.CreateUser(context.Background(), models.User{Email: email, Name: email, Password: hash})
	if err != nil {
		t.Fatal(err)
	}
	return u
}
