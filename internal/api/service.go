package api

import (
	"context"
	"net/http"

	"github.com/starford/rnotes/internal/models"
	"github.com/starford/rnotes/internal/noteservice"
)

// Service is the subset of the note service the handlers need.
type Service interface {
	Authenticator

	Login(ctx context.Context, in models.LoginIn) (models.LoginOut, error)
	Categories(ctx context.Context) ([]models.CategoryOut, error)
	Category(ctx context.Context, id int32) (models.CategoryOut, error)
	Notes(ctx context.Context, userID int32) ([]models.NoteOut, error)
	Note(ctx context.Context, userID, id int32) (models.NoteOut, error)
	CreateNote(ctx context.Context, userID int32, in models.NoteIn) (models.NoteOut, error)
	UpdateNote(ctx context.Context, userID, id int32, in models.NoteIn) (models.NoteOut, error)
	DeleteNote(ctx context.Context, userID, id int32) (bool, error)
	Ready(ctx context.Context) error
}

var _ Service = (*noteservice.Service)(nil)

// EventStream serves note events to authenticated users.
type EventStream interface {
	Handler(userOf func(*http.Request) (int32, bool)) http.HandlerFunc
}
