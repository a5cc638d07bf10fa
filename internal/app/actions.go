package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/scistudy/internal/apperr"
	"github.com/starford/scistudy/internal/goals"
	"github.com/starford/scistudy/internal/models"
	"github.com/starford/scistudy/internal/notes"
	"github.com/starford/scistudy/internal/view"
)

type action struct {
	run func(payload json.RawMessage) (any, error)
	// renders lists the components to re-render after the action.
	renders []string
	// success is shown after the action succeeds.
	success string
	// invalid replaces the validation detail shown to the user.
	invalid string
}

var _ view.Dispatcher = (*App)(nil)

// Dispatch runs the named action on the component goroutine.
//
// Validation failures are reported to the renderer and returned wrapping
// apperr.ErrValidation. Storage failures keep the in-memory change, raise an
// error notification and are not returned. Updating a note that no longer
// exists is a no-op reported as info.
func (a *App) Dispatch(ctx context.Context, name string, payload json.RawMessage) (any, error) {
	act, ok := a.actions[name]
	if !ok {
		return nil, fmt.Errorf("app: %q: %w", name, apperr.ErrUnknownAction)
	}
	var (
		result any
		err    error
	)
	if doErr := a.cfg.Runner.Do(ctx, func() { result, err = a.run(name, act, payload) }); doErr != nil {
		return nil, doErr
	}
	return result, err
}

func (a *App) run(name string, act action, payload json.RawMessage) (any, error) {
	result, err := act.run(payload)
	switch {
	case err == nil:
		if act.success != "" {
			a.cfg.Renderer.Notify(models.Notification{Kind: models.NotifySuccess, Message: act.success})
		}
	case errors.Is(err, apperr.ErrStorage):
		a.logger.Error("app: action not persisted", slog.String("action", name), slog.String("error", err.Error()))
		a.cfg.Renderer.Notify(models.Notification{Kind: models.NotifyError, Message: "Could not save your changes"})
		err = nil
	case errors.Is(err, apperr.ErrValidation):
		msg := act.invalid
		if msg == "" {
			msg = strings.TrimPrefix(err.Error(), apperr.ErrValidation.Error()+": ")
		}
		a.cfg.Renderer.Notify(models.Notification{Kind: models.NotifyError, Message: msg})
		return nil, err
	case name == view.ActionNotesUpdate && errors.Is(err, apperr.ErrNotFound):
		a.cfg.Renderer.Notify(models.Notification{Kind: models.NotifyInfo, Message: "That note no longer exists"})
		return nil, nil
	default:
		return nil, err
	}
	a.render(act.renders...)
	return result, err
}

func (a *App) routes() map[string]action {
	return map[string]action{
		// Timer changes render through its OnChange hook.
		view.ActionTimerStart: {run: func(json.RawMessage) (any, error) {
			a.timer.Start()
			return nil, nil
		}},
		view.ActionTimerPause: {run: func(json.RawMessage) (any, error) {
			return a.timer.Pause(), nil
		}},
		view.ActionTimerReset: {run: func(json.RawMessage) (any, error) {
			a.timer.Reset()
			return nil, nil
		}},
		view.ActionTimerQuick: {run: func(json.RawMessage) (any, error) {
			a.timer.StartQuickSession()
			return nil, nil
		}},
		view.ActionTimerSettings: {
			run: func(p json.RawMessage) (any, error) {
				var s models.TimerSettings
				if err := decode(p, &s); err != nil {
					return nil, err
				}
				return nil, a.timer.SetDurations(s)
			},
			success: "Timer settings saved",
		},
		view.ActionTimerSubject: {run: func(p json.RawMessage) (any, error) {
			var req struct {
				Subject models.Subject `json:"subject"`
			}
			if err := decode(p, &req); err != nil {
				return nil, err
			}
			return nil, a.timer.SetSubject(req.Subject)
		}},

		view.ActionFlashcardsGenerate: {
			run: func(p json.RawMessage) (any, error) {
				var req struct {
					Filter string `json:"filter"`
				}
				if err := decode(p, &req); err != nil {
					return nil, err
				}
				if req.Filter == "" {
					req.Filter = models.FilterAll
				}
				f, err := models.ParseCategoryFilter(req.Filter)
				if err != nil {
					return nil, fmt.Errorf("%w: %w", apperr.ErrValidation, err)
				}
				a.flashcards.SetFilter(f)
				return a.flashcards.Len(), nil
			},
			renders: []string{view.ComponentFlashcards},
		},
		view.ActionFlashcardsStart: {
			run: func(json.RawMessage) (any, error) {
				a.flashcards.Start()
				return nil, nil
			},
			renders: []string{view.ComponentFlashcards},
		},
		view.ActionFlashcardsNext: {
			run:     func(json.RawMessage) (any, error) { return a.flashcards.Next(), nil },
			renders: []string{view.ComponentFlashcards},
		},
		view.ActionFlashcardsPrevious: {
			run:     func(json.RawMessage) (any, error) { return a.flashcards.Previous(), nil },
			renders: []string{view.ComponentFlashcards},
		},
		view.ActionFlashcardsFlip: {
			run: func(json.RawMessage) (any, error) {
				a.flashcards.Flip()
				return nil, nil
			},
			renders: []string{view.ComponentFlashcards},
		},
		view.ActionFlashcardsDirection: {
			run:     func(json.RawMessage) (any, error) { return a.flashcards.ToggleDirection(), nil },
			renders: []string{view.ComponentFlashcards},
		},
		view.ActionFlashcardsRate: {
			run: func(p json.RawMessage) (any, error) {
				var req struct {
					Difficulty models.Difficulty `json:"difficulty"`
				}
				if err := decode(p, &req); err != nil {
					return nil, err
				}
				return nil, a.flashcards.Rate(req.Difficulty)
			},
			renders: []string{view.ComponentFlashcards},
		},

		view.ActionTranslatorSearch: {
			run: func(p json.RawMessage) (any, error) {
				var req struct {
					Query string `json:"query"`
				}
				if err := decode(p, &req); err != nil {
					return nil, err
				}
				return a.translator.Search(req.Query)
			},
			renders: []string{view.ComponentTranslator},
		},
		view.ActionTranslatorSelect: {
			run: func(p json.RawMessage) (any, error) {
				var req struct {
					English string `json:"english"`
				}
				if err := decode(p, &req); err != nil {
					return nil, err
				}
				return a.translator.Select(req.English)
			},
			renders: []string{view.ComponentTranslator},
		},
		view.ActionTranslatorFavorite: {
			run:     func(json.RawMessage) (any, error) { return a.translator.ToggleFavorite() },
			renders: []string{view.ComponentTranslator},
		},
		view.ActionTranslatorPronounce: {run: func(json.RawMessage) (any, error) {
			reading, ok := a.translator.Pronounce()
			if !ok {
				return nil, nil
			}
			return reading, nil
		}},

		view.ActionNotesCreate: {
			run: func(p json.RawMessage) (any, error) {
				var d notes.Draft
				if err := decode(p, &d); err != nil {
					return nil, err
				}
				if d.Subject == "" {
					d.Subject = models.SubjectBiology
				}
				return a.notes.Create(d)
			},
			renders: []string{view.ComponentNotes, view.ComponentGoals},
			success: "Note saved successfully!",
			invalid: "Please fill in both title and content",
		},
		view.ActionNotesUpdate: {
			run: func(p json.RawMessage) (any, error) {
				var req struct {
					ID string `json:"id"`
					notes.Patch
				}
				if err := decode(p, &req); err != nil {
					return nil, err
				}
				return a.notes.Update(req.ID, req.Patch)
			},
			renders: []string{view.ComponentNotes},
			success: "Note saved successfully!",
			invalid: "Please fill in both title and content",
		},
		view.ActionNotesDelete: {
			run: func(p json.RawMessage) (any, error) {
				var req struct {
					ID string `json:"id"`
				}
				if err := decode(p, &req); err != nil {
					return nil, err
				}
				removed, err := a.notes.Delete(req.ID)
				if err == nil && removed {
					a.cfg.Renderer.Notify(models.Notification{Kind: models.NotifySuccess, Message: "Note deleted successfully!"})
				}
				return removed, err
			},
			renders: []string{view.ComponentNotes, view.ComponentGoals},
		},
		view.ActionNotesFilter: {
			run: func(p json.RawMessage) (any, error) {
				var req struct {
					Subject string `json:"subject"`
				}
				if err := decode(p, &req); err != nil {
					return nil, err
				}
				f, err := models.ParseSubjectFilter(req.Subject)
				if err != nil {
					return nil, fmt.Errorf("%w: %w", apperr.ErrValidation, err)
				}
				a.notesFilter = f
				return nil, nil
			},
			renders: []string{view.ComponentNotes},
		},

		view.ActionGoalsSet: {
			run: func(p json.RawMessage) (any, error) {
				var req struct {
					StudyHours json.Number `json:"studyHours"`
					Flashcards json.Number `json:"flashcards"`
					Notes      json.Number `json:"notes"`
				}
				if err := decode(p, &req); err != nil {
					return nil, err
				}
				g, err := goals.Parse(req.StudyHours.String(), req.Flashcards.String(), req.Notes.String())
				if err != nil {
					return nil, err
				}
				return g, a.goals.Set(g)
			},
			renders: []string{view.ComponentGoals, view.ComponentNotes},
			success: "Goals updated successfully!",
		},
	}
}

// decode unmarshals an optional payload. An empty payload leaves v unchanged.
func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: malformed payload: %v", apperr.ErrValidation, err)
	}
	return nil
}
