package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/starford/rnotes/internal/apperr"
	"github.com/starford/rnotes/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "rnotes-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(context.Background(), f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *DB, email string) models.User {
	t.Helper()
	u, err := db.CreateUser(context.Background(), models.User{Email: email, Name: "n", Password: "hash"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"users", "categories", "notes"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	f, err := os.CreateTemp("", "rnotes-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	defer os.Remove(f.Name())

	for range 2 {
		db, err := Open(context.Background(), f.Name())
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		db.Close()
	}
}

func TestUsers(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "a@b.c")
	if u.ID == 0 || u.CreateTime.IsZero() {
		t.Fatalf("created user = %+v", u)
	}

	got, err := db.UserByEmail(ctx, "a@b.c")
	if err != nil || got.ID != u.ID {
		t.Fatalf("UserByEmail = %+v, %v", got, err)
	}
	if _, err := db.UserByID(ctx, u.ID); err != nil {
		t.Fatalf("UserByID: %v", err)
	}

	_, err = db.CreateUser(ctx, models.User{Email: "a@b.c", Name: "dup", Password: "x"})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("duplicate email err = %v, want ErrAlreadyExists", err)
	}
	_, err = db.UserByEmail(ctx, "nobody@b.c")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown email err = %v, want ErrNotFound", err)
	}
}

func TestCategories(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	all, err := db.Categories(ctx)
	if err != nil || len(all) != 0 {
		t.Fatalf("empty Categories = %v, %v", all, err)
	}

	work, err := db.CreateCategory(ctx, "work")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, err := db.CreateCategory(ctx, "home"); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	all, _ = db.Categories(ctx)
	if len(all) != 2 || all[0].Name != "work" {
		t.Errorf("Categories = %+v", all)
	}
	got, err := db.Category(ctx, work.ID)
	if err != nil || got.Name != "work" {
		t.Errorf("Category = %+v, %v", got, err)
	}
	if _, err := db.Category(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing category err = %v", err)
	}
}

func TestNotesLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice@x")
	bob := seedUser(t, db, "bob@x")
	cat, _ := db.CreateCategory(ctx, "work")

	n, err := db.CreateNote(ctx, models.Note{UserID: alice.ID, CategoryID: &cat.ID, Title: "t", Data: "d"})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	got, err := db.Note(ctx, n.ID, alice.ID)
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	if got.CategoryID == nil || *got.CategoryID != cat.ID || got.Title != "t" {
		t.Errorf("Note = %+v", got)
	}

	// Notes are private to their owner.
	if _, err := db.Note(ctx, n.ID, bob.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("foreign note err = %v", err)
	}
	if list, _ := db.NotesByUser(ctx, bob.ID); len(list) != 0 {
		t.Errorf("bob sees %d notes", len(list))
	}

	updated, err := db.UpdateNote(ctx, models.Note{ID: n.ID, UserID: alice.ID, Title: "t2", Data: "d2"})
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if updated.Title != "t2" || updated.CategoryID != nil {
		t.Errorf("updated = %+v", updated)
	}
	if _, err := db.UpdateNote(ctx, models.Note{ID: n.ID, UserID: bob.ID, Title: "x", Data: "y"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("foreign update err = %v", err)
	}

	deleted, err := db.DeleteNote(ctx, n.ID, alice.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteNote = %v, %v", deleted, err)
	}
	deleted, err = db.DeleteNote(ctx, n.ID, alice.ID)
	if err != nil || deleted {
		t.Errorf("second DeleteNote = %v, %v", deleted, err)
	}
}

func TestCreateNoteUnknownCategory(t *testing.T) {
	db := testDB(t)
	u := seedUser(t, db, "a@b.c")
	missing := int32(42)

	_, err := db.CreateNote(context.Background(), models.Note{UserID: u.ID, CategoryID: &missing, Title: "t", Data: "d"})
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}
