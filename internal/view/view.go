// Package view defines the contract between the study core and whatever
// presents it: the core renders component snapshots and raises
// notifications; the presentation dispatches named user actions back.
package view

import (
	"context"
	"encoding/json"

	"github.com/starford/scistudy/internal/models"
)

// Components rendered by the core.
const (
	ComponentTimer      = "timer"
	ComponentFlashcards = "flashcards"
	ComponentTranslator = "translator"
	ComponentNotes      = "notes"
	ComponentGoals      = "goals"
)

// Actions accepted by a Dispatcher, named component.verb.
const (
	ActionTimerStart    = "timer.start"
	ActionTimerPause    = "timer.pause"
	ActionTimerReset    = "timer.reset"
	ActionTimerQuick    = "timer.quick"
	ActionTimerSettings = "timer.settings"
	ActionTimerSubject  = "timer.subject"

	ActionFlashcardsGenerate  = "flashcards.generate"
	ActionFlashcardsStart     = "flashcards.start"
	ActionFlashcardsNext      = "flashcards.next"
	ActionFlashcardsPrevious  = "flashcards.previous"
	ActionFlashcardsFlip      = "flashcards.flip"
	ActionFlashcardsDirection = "flashcards.direction"
	ActionFlashcardsRate      = "flashcards.rate"

	ActionTranslatorSearch    = "translator.search"
	ActionTranslatorSelect    = "translator.select"
	ActionTranslatorFavorite  = "translator.favorite"
	ActionTranslatorPronounce = "translator.pronounce"

	ActionNotesCreate = "notes.create"
	ActionNotesUpdate = "notes.update"
	ActionNotesDelete = "notes.delete"
	ActionNotesFilter = "notes.filter"

	ActionGoalsSet = "goals.set"
)

// Renderer presents core state. Implementations must not block: they are
// called on the goroutine that owns the components.
type Renderer interface {
	// Render replaces the displayed state of component.
	Render(component string, state any)
	// Notify shows a transient message.
	Notify(n models.Notification)
}

// Dispatcher routes a named user action to the core and returns the
// action's result, if any.
type Dispatcher interface {
	Dispatch(ctx context.Context, action string, payload json.RawMessage) (any, error)
}

// Renderers fans every call out to each renderer in order.
type Renderers []Renderer

// Render implements Renderer.
func (rs Renderers) Render(component string, state any) {
	for _, r := range rs {
		r.Render(component, state)
	}
}

// Notify implements Renderer.
func (rs Renderers) Notify(n models.Notification) {
	for _, r := range rs {
		r.Notify(n)
	}
}

// Discard is a Renderer that drops everything.
type Discard struct{}

// Render implements Renderer.
func (Discard) Render(string, any) {}

// Notify implements Renderer.
func (Discard) Notify(models.Notification) {}
