package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/rnotes/internal/apperr"
	"github.com/starford/rnotes/internal/models"
)

const maxBodySize = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc Service
}

// NewHandler creates a new Handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// pathID parses the {id} URL parameter. Non-numeric ids do not match any
// resource, so callers answer 404.
func pathID(r *http.Request) (int32, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(id), true
}

// Index handles GET /.
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("rnotes server!"))
}

// Live handles GET /health/live.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ready(r.Context()); err != nil {
		slog.Error("readiness check failed", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginIn
	if !decode(w, r, &in) {
		return
	}
	out, err := h.svc.Login(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidCredentials), errors.Is(err, apperr.ErrInvalid):
			writeError(w, http.StatusNotFound, "Invalid credentials")
		default:
			slog.Error("login failed", slog.String("email", in.Email), slog.String("error", err.Error()))
			writeStatusError(w, http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ListCategories handles GET /categories/.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.svc.Categories(r.Context())
	if err != nil {
		slog.Error("list categories failed", slog.String("error", err.Error()))
		writeError(w, http.StatusNotFound, fmt.Sprintf("Cannot find categories: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// GetCategory handles GET /categories/{id}.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeStatusError(w, http.StatusNotFound)
		return
	}
	c, err := h.svc.Category(r.Context(), id)
	if err != nil {
		h.fail(w, "get category", err, "Category is not correct")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ListNotes handles GET /notes/.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r)
	ns, err := h.svc.Notes(r.Context(), userID)
	if err != nil {
		slog.Error("list notes failed", slog.Int("user_id", int(userID)), slog.String("error", err.Error()))
		writeError(w, http.StatusNotFound, fmt.Sprintf("Cannot find notes: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

// GetNote handles GET /notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r)
	id, ok := pathID(r)
	if !ok {
		writeStatusError(w, http.StatusNotFound)
		return
	}
	n, err := h.svc.Note(r.Context(), userID, id)
	if err != nil {
		h.fail(w, "get note", err, "Note is not correct")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// CreateNote handles POST /notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r)
	var in models.NoteIn
	if !decode(w, r, &in) {
		return
	}
	n, err := h.svc.CreateNote(r.Context(), userID, in)
	if err != nil {
		h.fail(w, "create note", err, "Note is not correct")
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// UpdateNote handles PUT /notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r)
	id, ok := pathID(r)
	if !ok {
		writeStatusError(w, http.StatusNotFound)
		return
	}
	var in models.NoteIn
	if !decode(w, r, &in) {
		return
	}
	n, err := h.svc.UpdateNote(r.Context(), userID, id, in)
	if err != nil {
		h.fail(w, "update note", err, "Note is not correct")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// DeleteNote handles DELETE /notes/{id}. It answers 200 when a note was
// removed and 204 when there was nothing of the caller's to remove.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r)
	id, ok := pathID(r)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	deleted, err := h.svc.DeleteNote(r.Context(), userID, id)
	if err != nil {
		slog.Error("delete note failed", slog.Int("id", int(id)), slog.String("error", err.Error()))
		writeStatusError(w, http.StatusInternalServerError)
		return
	}
	if deleted {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps a service error to a JSON error reply.
func (h *Handler) fail(w http.ResponseWriter, op string, err error, prefix string) {
	detail := fmt.Sprintf("%s: %v", prefix, err)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, detail)
	case errors.Is(err, apperr.ErrInvalid):
		writeError(w, http.StatusBadRequest, detail)
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeError(w, http.StatusConflict, detail)
	case errors.Is(err, apperr.ErrUnauthorized):
		writeStatusError(w, http.StatusUnauthorized)
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeStatusError(w, http.StatusInternalServerError)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
