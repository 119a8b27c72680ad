// Package noteservice holds the server-side business rules: login, note
// ownership, input validation and change notifications.
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/rnotes/internal/apperr"
	"github.com/starford/rnotes/internal/auth"
	"github.com/starford/rnotes/internal/digest"
	"github.com/starford/rnotes/internal/models"
	"github.com/starford/rnotes/internal/store"
)

// Note event kinds.
const (
	EventNoteCreated = "note.created"
	EventNoteUpdated = "note.updated"
	EventNoteDeleted = "note.deleted"
)

var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// Publisher receives a notification after every note change.
type Publisher interface {
	PublishNoteEvent(userID int32, kind string, noteID int32)
}

// Service coordinates the store, token issuing and event publishing.
type Service struct {
	store  store.Store
	issuer *auth.Issuer
	pub    Publisher
}

// NewService creates a note service. pub may be nil.
func NewService(st store.Store, issuer *auth.Issuer, pub Publisher) *Service {
	return &Service{store: st, issuer: issuer, pub: pub}
}

// Login checks the credentials and returns a session token. Unknown users
// and wrong passwords both yield apperr.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in models.LoginIn) (models.LoginOut, error) {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required),
		validation.Field(&in.Password, validation.Required),
	); err != nil {
		return models.LoginOut{}, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}

	u, err := s.store.UserByEmail(ctx, in.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		return models.LoginOut{}, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return models.LoginOut{}, err
	}
	if err := auth.CheckPassword(u.Password, in.Password); err != nil {
		return models.LoginOut{}, err
	}

	token, err := s.issuer.Issue(u.ID)
	if err != nil {
		return models.LoginOut{}, err
	}
	return models.LoginOut{JWTToken: token}, nil
}

// Authenticate returns the user id carried by a session token.
func (s *Service) Authenticate(token string) (int32, error) {
	return s.issuer.Verify(token)
}

// AddUser registers a user with a clear-text password. The stored value is
// a bcrypt hash of the same digest the CLI sends at login.
func (s *Service) AddUser(ctx context.Context, email, name, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if err := validation.Validate(email, validation.Required, validation.Match(emailRE)); err != nil {
		return models.User{}, fmt.Errorf("%w: email: %v", apperr.ErrInvalid, err)
	}
	if err := validation.Validate(password, validation.Required); err != nil {
		return models.User{}, fmt.Errorf("%w: password: %v", apperr.ErrInvalid, err)
	}

	hash, err := auth.HashPassword(digest.Password(password))
	if err != nil {
		return models.User{}, err
	}
	return s.store.CreateUser(ctx, models.User{Email: email, Name: name, Password: hash})
}

// UserByEmail returns a registered user.
func (s *Service) UserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.store.UserByEmail(ctx, email)
}

// AddCategory creates a category.
func (s *Service) AddCategory(ctx context.Context, name string) (models.CategoryOut, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, validation.Required, validation.Length(1, 100)); err != nil {
		return models.CategoryOut{}, fmt.Errorf("%w: name: %v", apperr.ErrInvalid, err)
	}
	c, err := s.store.CreateCategory(ctx, name)
	if err != nil {
		return models.CategoryOut{}, err
	}
	return models.NewCategoryOut(c), nil
}

// Categories lists every category.
func (s *Service) Categories(ctx context.Context) ([]models.CategoryOut, error) {
	cs, err := s.store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.CategoryOut, len(cs))
	for i, c := range cs {
		out[i] = models.NewCategoryOut(c)
	}
	return out, nil
}

// Category returns one category.
func (s *Service) Category(ctx context.Context, id int32) (models.CategoryOut, error) {
	c, err := s.store.Category(ctx, id)
	if err != nil {
		return models.CategoryOut{}, err
	}
	return models.NewCategoryOut(c), nil
}

// Notes lists the notes of userID.
func (s *Service) Notes(ctx context.Context, userID int32) ([]models.NoteOut, error) {
	ns, err := s.store.NotesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.NoteOut, len(ns))
	for i, n := range ns {
		out[i] = models.NewNoteOut(n)
	}
	return out, nil
}

// Note returns one note of userID.
func (s *Service) Note(ctx context.Context, userID, id int32) (models.NoteOut, error) {
	n, err := s.store.Note(ctx, id, userID)
	if err != nil {
		return models.NoteOut{}, err
	}
	return models.NewNoteOut(n), nil
}

// CreateNote validates in and stores it as a new note of userID.
func (s *Service) CreateNote(ctx context.Context, userID int32, in models.NoteIn) (models.NoteOut, error) {
	if err := validateNoteIn(in); err != nil {
		return models.NoteOut{}, err
	}
	n, err := s.store.CreateNote(ctx, models.Note{
		UserID:     userID,
		CategoryID: in.CategoryID,
		Title:      in.Title,
		Data:       in.Data,
	})
	if err != nil {
		return models.NoteOut{}, err
	}
	s.publish(userID, EventNoteCreated, n.ID)
	return models.NewNoteOut(n), nil
}

// UpdateNote replaces a note of userID with in.
func (s *Service) UpdateNote(ctx context.Context, userID, id int32, in models.NoteIn) (models.NoteOut, error) {
	if err := validateNoteIn(in); err != nil {
		return models.NoteOut{}, err
	}
	n, err := s.store.UpdateNote(ctx, models.Note{
		ID:         id,
		UserID:     userID,
		CategoryID: in.CategoryID,
		Title:      in.Title,
		Data:       in.Data,
	})
	if err != nil {
		return models.NoteOut{}, err
	}
	s.publish(userID, EventNoteUpdated, n.ID)
	return models.NewNoteOut(n), nil
}

// DeleteNote removes a note of userID and reports whether it existed.
func (s *Service) DeleteNote(ctx context.Context, userID, id int32) (bool, error) {
	deleted, err := s.store.DeleteNote(ctx, id, userID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.publish(userID, EventNoteDeleted, id)
	}
	return deleted, nil
}

// Ready reports whether the store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) publish(userID int32, kind string, noteID int32) {
	if s.pub != nil {
		s.pub.PublishNoteEvent(userID, kind, noteID)
	}
}

func validateNoteIn(in models.NoteIn) error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Data, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	return nil
}
