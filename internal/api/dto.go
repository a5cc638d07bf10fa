package api

import (
	"github.com/starford/scistudy/internal/app"
	"github.com/starford/scistudy/internal/models"
)

// StateResponse is the full render state (aliased from the composition layer).
type StateResponse = app.State

// ActionResponse wraps the result of a dispatched action.
type ActionResponse struct {
	Action string `json:"action" example:"timer.start" validate:"required"`
	Result any    `json:"result,omitempty"`
}

// SearchResponse wraps translator search results.
type SearchResponse struct {
	Results []models.Term `json:"results" validate:"required"`
}

// NoteListResponse wraps a filtered note listing.
type NoteListResponse struct {
	Notes []models.Note `json:"notes" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title   string `json:"title" example:"Cell structure" validate:"required"`
	Subject string `json:"subject" example:"biology"`
	Content string `json:"content" example:"The nucleus holds the DNA." validate:"required"`
}
