package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/scistudy/internal/app"
	"github.com/starford/scistudy/internal/models"
	"github.com/starford/scistudy/internal/view"
)

const maxActionBytes = 1 << 20

// Core is the part of the study core the API needs.
type Core interface {
	view.Dispatcher
	State(ctx context.Context) (app.State, error)
	Notes(ctx context.Context, filter models.SubjectFilter) ([]models.Note, error)
}

// Handler holds API route handlers.
type Handler struct {
	core Core
}

// NewHandler creates a new Handler.
func NewHandler(core Core) *Handler {
	return &Handler{core: core}
}

// State handles GET /api/state.
//
//	@Summary		Full render state of every component
//	@Tags			state
//	@Produce		json
//	@Success		200	{object}	StateResponse
//	@Security		BearerAuth
//	@Router			/state [get]
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	st, err := h.core.State(r.Context())
	if err != nil {
		writeError(w, "state", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Dispatch handles POST /api/actions/{name}.
//
//	@Summary		Dispatch a user action
//	@Tags			actions
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string	true	"Action name"	example(timer.start)
//	@Param			body	body		object	false	"Action payload"
//	@Success		200		{object}	ActionResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/actions/{name} [post]
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	r.Body = http.MaxBytesReader(w, r.Body, maxActionBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	if len(payload) > 0 && !json.Valid(payload) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	result, err := h.core.Dispatch(r.Context(), name, payload)
	if err != nil {
		writeError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{Action: name, Result: result})
}

// Search handles GET /api/search.
//
//	@Summary		Search the term catalog
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	true	"Search query (two characters or more)"
//	@Success		200	{object}	SearchResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	payload, _ := json.Marshal(map[string]string{"query": q})
	result, err := h.core.Dispatch(r.Context(), view.ActionTranslatorSearch, payload)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	terms, _ := result.([]models.Term)
	if terms == nil {
		terms = []models.Term{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: terms})
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes, optionally filtered by subject
//	@Tags			notes
//	@Produce		json
//	@Param			subject	query		string	false	"Subject filter"	Enums(all, biology, chemistry, physics, mathematics, computer, general)
//	@Success		200		{object}	NoteListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	filter, err := models.ParseSubjectFilter(r.URL.Query().Get("subject"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	list, err := h.core.Notes(r.Context(), filter)
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: list, Total: len(list)})
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a study note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxActionBytes)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	payload, _ := json.Marshal(req)
	result, err := h.core.Dispatch(r.Context(), view.ActionNotesCreate, payload)
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a study note
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted or already absent"
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	payload, _ := json.Marshal(map[string]string{"id": id})
	if _, err := h.core.Dispatch(r.Context(), view.ActionNotesDelete, payload); err != nil {
		writeError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
