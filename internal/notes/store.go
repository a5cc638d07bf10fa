// Package notes owns the study notes collection: validated CRUD, subject
// filtering and the date-bucketed reads behind the calendar and charts.
package notes

import (
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/scistudy/internal/apperr"
	"github.com/starford/scistudy/internal/clock"
	"github.com/starford/scistudy/internal/models"
	"github.com/starford/scistudy/internal/storage"
)

// Config holds the Store's collaborators.
type Config struct {
	Store  storage.Provider
	Clock  clock.Clock
	Logger *slog.Logger
	// NewID generates note ids. Defaults to random UUIDs.
	NewID func() string
}

// Draft is the user input for a new note.
type Draft struct {
	Title   string         `json:"title"`
	Subject models.Subject `json:"subject"`
	Content string         `json:"content"`
}

// Patch holds the fields to change on an existing note. Nil fields are kept.
type Patch struct {
	Title   *string         `json:"title,omitempty"`
	Subject *models.Subject `json:"subject,omitempty"`
	Content *string         `json:"content,omitempty"`
}

// Store is the in-memory notes collection, most recently created first,
// mirrored to the studyNotes key on every mutation. It is not safe for
// concurrent use.
type Store struct {
	cfg   Config
	notes []models.Note
}

// New loads the persisted notes. Missing or corrupt data yields an empty
// collection.
func New(cfg Config) *Store {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	s := &Store{cfg: cfg}
	s.Reload()
	return s
}

// Reload replaces the in-memory collection with the persisted one.
func (s *Store) Reload() {
	s.notes = storage.LoadJSON(s.cfg.Store, storage.KeyStudyNotes, []models.Note{}, s.cfg.Logger)
}

// Create validates d and inserts a new note at the front. On a storage
// failure the note is kept in memory and the returned error wraps
// apperr.ErrStorage.
func (s *Store) Create(d Draft) (models.Note, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	if err := d.validate(); err != nil {
		return models.Note{}, err
	}

	now := models.TimestampOf(s.cfg.Clock.Now())
	n := models.Note{
		ID:           s.cfg.NewID(),
		Title:        d.Title,
		Subject:      d.Subject,
		Content:      d.Content,
		Created:      now,
		LastModified: now,
	}
	s.notes = append([]models.Note{n}, s.notes...)
	return n, s.save()
}

// Update merges p into the note with id and refreshes its lastModified.
// A missing id returns apperr.ErrNotFound and changes nothing.
func (s *Store) Update(id string, p Patch) (models.Note, error) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Note{}, fmt.Errorf("notes: update %s: %w", id, apperr.ErrNotFound)
	}

	n := s.notes[i]
	d := Draft{Title: n.Title, Subject: n.Subject, Content: n.Content}
	if p.Title != nil {
		d.Title = strings.TrimSpace(*p.Title)
	}
	if p.Subject != nil {
		d.Subject = *p.Subject
	}
	if p.Content != nil {
		d.Content = strings.TrimSpace(*p.Content)
	}
	if err := d.validate(); err != nil {
		return models.Note{}, err
	}

	n.Title, n.Subject, n.Content = d.Title, d.Subject, d.Content
	n.LastModified = models.TimestampOf(s.cfg.Clock.Now())
	s.notes[i] = n
	return n, s.save()
}

// Delete removes the note with id. It reports whether a note was removed;
// deleting a missing id is a no-op.
func (s *Store) Delete(id string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.notes = append(s.notes[:i:i], s.notes[i+1:]...)
	return true, s.save()
}

// Get returns the note with id.
func (s *Store) Get(id string) (models.Note, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.notes[i], true
	}
	return models.Note{}, false
}

// List returns a copy of every note in stored order.
func (s *Store) List() []models.Note {
	out := make([]models.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Len returns the number of notes.
func (s *Store) Len() int { return len(s.notes) }

// FilterBySubject returns the notes passing f in stored order.
func (s *Store) FilterBySubject(f models.SubjectFilter) []models.Note {
	out := make([]models.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if f.Matches(n.Subject) {
			out = append(out, n)
		}
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) save() error {
	if err := storage.SaveJSON(s.cfg.Store, storage.KeyStudyNotes, s.notes); err != nil {
		s.cfg.Logger.Error("notes: save failed", slog.String("error", err.Error()))
		return fmt.Errorf("notes: save: %w", err)
	}
	return nil
}

func (d Draft) validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required.Error("title is required")),
		validation.Field(&d.Subject, validation.Required, validation.In(models.SubjectValues()...).Error("unknown subject")),
		validation.Field(&d.Content, validation.Required.Error("content is required")),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrValidation, err)
	}
	return nil
}
