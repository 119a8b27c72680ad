package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/rnotes/internal/models"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/"})
}

func TestGetDecodesAndSendsBearer(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/notes/3" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode(models.NoteOut{ID: 3, Title: "t"})
	})

	var out models.NoteOut
	if err := c.Get(context.Background(), "/notes/3", "tok", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.ID != 3 || out.Title != "t" {
		t.Errorf("out = %+v", out)
	}
}

func TestNoBearerWithoutToken(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want none", got)
		}
		_, _ = io.WriteString(w, "[]")
	})

	var out []models.CategoryOut
	if err := c.Get(context.Background(), "/categories/", "", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("out = %+v, want empty", out)
	}
}

func TestPostSendsJSON(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var in models.NoteIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if in.Title != "title" {
			t.Errorf("title = %q", in.Title)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.NoteOut{ID: 1, Title: in.Title})
	})

	var out models.NoteOut
	if err := c.Post(context.Background(), "/notes", "", models.NoteIn{Title: "title", Data: "d"}, &out); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if out.ID != 1 {
		t.Errorf("id = %d, want 1", out.ID)
	}
}

func TestStatusErrors(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":404,"detail":"note not found"}`)
	})

	var out models.NoteOut
	err := c.Get(context.Background(), "/notes/9", "", &out)
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ProtocolError", err)
	}
	if pe.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", pe.StatusCode)
	}
	if want := `Error 404 Not Found: {"error":404,"detail":"note not found"}`; err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}

	err = c.Delete(context.Background(), "/notes/9", "")
	if !errors.As(err, &pe) {
		t.Errorf("delete err = %v, want *ProtocolError", err)
	}
}

func TestEmptyBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.Delete(context.Background(), "/notes/1", "tok"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var out models.NoteOut
	err := c.Get(context.Background(), "/notes/1", "tok", &out)
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ProtocolError", err)
	}
	if !strings.Contains(err.Error(), "Response type is not valid for /notes/1") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestUndecodableBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	})

	var out models.NoteOut
	err := c.Get(context.Background(), "/notes/1", "", &out)
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ProtocolError", err)
	}
	if pe.Body != "<html>" {
		t.Errorf("body = %q", pe.Body)
	}
	if errors.Unwrap(err) == nil {
		t.Error("decode error not wrapped")
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url})
	err := c.Get(context.Background(), "/notes/", "", nil)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if te.Method != http.MethodGet {
		t.Errorf("method = %q", te.Method)
	}
}

func TestDefaultBaseURL(t *testing.T) {
	if got := New(Config{}).BaseURL(); got != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", got, DefaultBaseURL)
	}
}
