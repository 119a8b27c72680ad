package noteservice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/starford/rnotes/internal/apperr"
	"github.com/starford/rnotes/internal/auth"
	"github.com/starford/rnotes/internal/digest"
	"github.com/starford/rnotes/internal/models"
	"github.com/starford/rnotes/internal/testutil"
)

type event struct {
	user int32
	kind string
	id   int32
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) PublishNoteEvent(userID int32, kind string, noteID int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{userID, kind, noteID})
}

func setup(t *testing.T) (*Service, *recorder, models.User) {
	t.Helper()
	db := testutil.TestDB(t)
	rec := &recorder{}
	svc := NewService(db, auth.NewIssuer("secret", time.Hour), rec)
	u := testutil.TestUser(t, db, "alice@example.com", "pw")
	return svc, rec, u
}

func TestLogin(t *testing.T) {
	svc, _, u := setup(t)
	ctx := context.Background()

	out, err := svc.Login(ctx, models.LoginIn{Email: u.Email, Password: digest.Password("pw")})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	id, err := svc.Authenticate(out.JWTToken)
	if err != nil || id != u.ID {
		t.Errorf("Authenticate = %d, %v; want %d", id, err, u.ID)
	}

	_, err = svc.Login(ctx, models.LoginIn{Email: u.Email, Password: digest.Password("nope")})
	if !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	_, err = svc.Login(ctx, models.LoginIn{Email: "bob@example.com", Password: digest.Password("pw")})
	if !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v", err)
	}
	_, err = svc.Login(ctx, models.LoginIn{})
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("empty login err = %v", err)
	}
}

func TestAddUser(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.AddUser(ctx, "bob@example.com", "Bob", "pw2"); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if _, err := svc.Login(ctx, models.LoginIn{Email: "bob@example.com", Password: digest.Password("pw2")}); err != nil {
		t.Errorf("login after AddUser: %v", err)
	}
	if _, err := svc.AddUser(ctx, "bob@example.com", "Bob", "x"); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("duplicate err = %v", err)
	}
	if _, err := svc.AddUser(ctx, "not-an-email", "x", "x"); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("bad email err = %v", err)
	}
}

func TestNotesAndEvents(t *testing.T) {
	svc, rec, u := setup(t)
	ctx := context.Background()

	cat, err := svc.AddCategory(ctx, "work")
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}

	n, err := svc.CreateNote(ctx, u.ID, models.NoteIn{Title: "t", Data: "d", CategoryID: &cat.ID})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if n.CategoryID == nil || *n.CategoryID != cat.ID {
		t.Errorf("category = %v", n.CategoryID)
	}
	if _, err := time.Parse(time.RFC3339, n.CreateTime); err != nil {
		t.Errorf("create_time %q: %v", n.CreateTime, err)
	}

	if _, err := svc.UpdateNote(ctx, u.ID, n.ID, models.NoteIn{Title: "t2", Data: "d2"}); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	list, _ := svc.Notes(ctx, u.ID)
	if len(list) != 1 || list[0].Title != "t2" {
		t.Errorf("Notes = %+v", list)
	}

	deleted, err := svc.DeleteNote(ctx, u.ID, n.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteNote = %v, %v", deleted, err)
	}
	deleted, _ = svc.DeleteNote(ctx, u.ID, n.ID)
	if deleted {
		t.Error("second delete reported a row")
	}

	want := []event{
		{u.ID, EventNoteCreated, n.ID},
		{u.ID, EventNoteUpdated, n.ID},
		{u.ID, EventNoteDeleted, n.ID},
	}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %+v", rec.events)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event[%d] = %+v, want %+v", i, rec.events[i], want[i])
		}
	}
}

func TestNoteValidation(t *testing.T) {
	svc, rec, u := setup(t)
	ctx := context.Background()

	if _, err := svc.CreateNote(ctx, u.ID, models.NoteIn{Data: "d"}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("missing title err = %v", err)
	}
	if _, err := svc.UpdateNote(ctx, u.ID, 1, models.NoteIn{Title: "t"}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("missing data err = %v", err)
	}
	if _, err := svc.Note(ctx, u.ID, 99); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing note err = %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("unexpected events %+v", rec.events)
	}
}
