package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// events, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc Service, events EventStream) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeStatusError(w, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeStatusError(w, http.StatusMethodNotAllowed)
	})

	r.Get("/", h.Index)
	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)

	r.Post("/auth/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(svc))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Get("/{id}", h.GetCategory)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", h.ListNotes)
			r.Post("/", h.CreateNote)
			r.Get("/{id}", h.GetNote)
			r.Put("/{id}", h.UpdateNote)
			r.Delete("/{id}", h.DeleteNote)
		})

		if events != nil {
			r.Get("/events", events.Handler(UserID))
		}
	})

	return r
}
