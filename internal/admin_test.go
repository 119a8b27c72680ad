package internal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/starford/rnotes/internal/apperr"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "rnotes.db")
	cfg.Auth.Secret = "test-secret-value"
	return cfg
}

func TestAddUserAndCategory(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	u, err := AddUser(ctx, "alice@example.com", "Alice", "pw", WithConfig(cfg))
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if u.ID == 0 || u.Email != "alice@example.com" {
		t.Errorf("user = %+v", u)
	}

	// The database persists between invocations.
	if _, err := AddUser(ctx, "alice@example.com", "Alice", "pw", WithConfig(cfg)); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("duplicate AddUser err = %v", err)
	}

	c, err := AddCategory(ctx, "work", WithConfig(cfg))
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if c.Name != "work" {
		t.Errorf("category = %+v", c)
	}
}

func TestServeMCP_UnknownUser(t *testing.T) {
	err := ServeMCP(context.Background(), "ghost@example.com", WithConfig(testConfig(t)))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Error("Run without config should fail")
	}
	if _, err := AddCategory(context.Background(), "x"); err == nil {
		t.Error("AddCategory without config should fail")
	}
}
