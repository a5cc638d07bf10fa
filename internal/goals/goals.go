// Package goals stores the weekly study targets.
package goals

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/scistudy/internal/apperr"
	"github.com/starford/scistudy/internal/models"
	"github.com/starford/scistudy/internal/storage"
)

// Progress is a goal's completion as shown on the goal bar.
type Progress struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

// Store owns the studyGoals key.
type Store struct {
	store  storage.Provider
	logger *slog.Logger
	goals  models.Goals
}

// New loads persisted goals, falling back to models.DefaultGoals.
func New(p storage.Provider, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{store: p, logger: logger}
	s.Reload()
	return s
}

// Reload re-reads the persisted goals. Values below one are replaced by
// their defaults.
func (s *Store) Reload() {
	def := models.DefaultGoals()
	g := storage.LoadJSON(s.store, storage.KeyStudyGoals, def, s.logger)
	if g.StudyHours < 1 {
		g.StudyHours = def.StudyHours
	}
	if g.Flashcards < 1 {
		g.Flashcards = def.Flashcards
	}
	if g.Notes < 1 {
		g.Notes = def.Notes
	}
	s.goals = g
}

// Get returns the current goals.
func (s *Store) Get() models.Goals { return s.goals }

// Set validates and persists g. Invalid goals leave the current ones intact.
func (s *Store) Set(g models.Goals) error {
	if err := Validate(g); err != nil {
		return err
	}
	s.goals = g
	if err := storage.SaveJSON(s.store, storage.KeyStudyGoals, g); err != nil {
		s.logger.Error("goals: save failed", slog.String("error", err.Error()))
		return fmt.Errorf("goals: save: %w", err)
	}
	return nil
}

// NotesProgress reports total notes against the notes goal, capped at 100%.
func (s *Store) NotesProgress(total int) Progress {
	pct := float64(total) / float64(s.goals.Notes) * 100
	if pct > 100 {
		pct = 100
	}
	return Progress{
		Label:   fmt.Sprintf("%d/%d", total, s.goals.Notes),
		Percent: pct,
	}
}

// Validate checks that every goal is at least one.
func Validate(g models.Goals) error {
	err := validation.ValidateStruct(&g,
		validation.Field(&g.StudyHours, validation.Required, validation.Min(1)),
		validation.Field(&g.Flashcards, validation.Required, validation.Min(1)),
		validation.Field(&g.Notes, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrValidation, err)
	}
	return nil
}

// Parse converts form input into Goals. Malformed numbers are validation
// errors; range checks are left to Validate.
func Parse(studyHours, flashcards, notes string) (models.Goals, error) {
	var g models.Goals
	fields := []struct {
		name string
		raw  string
		dst  *int
	}{
		{"studyHours", studyHours, &g.StudyHours},
		{"flashcards", flashcards, &g.Flashcards},
		{"notes", notes, &g.Notes},
	}

	errs := validation.Errors{}
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f.raw))
		if err != nil {
			errs[f.name] = errors.New("must be a whole number")
			continue
		}
		*f.dst = n
	}
	if len(errs) > 0 {
		return models.Goals{}, fmt.Errorf("%w: %w", apperr.ErrValidation, errs)
	}
	return g, nil
}
