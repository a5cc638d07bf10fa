package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(core Core, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(core)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Full render state and action dispatch.
	r.Get("/state", h.State)
	r.Post("/actions/{name}", h.Dispatch)

	// Translator search.
	r.Get("/search", h.Search)

	// Notes.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
