// Package app is the composition point of the study core. It owns one
// instance of every component, routes dispatched actions to them on a single
// goroutine and renders the affected components afterwards.
package app

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/starford/scistudy/internal/catalog"
	"github.com/starford/scistudy/internal/clock"
	"github.com/starford/scistudy/internal/flashcard"
	"github.com/starford/scistudy/internal/goals"
	"github.com/starford/scistudy/internal/models"
	"github.com/starford/scistudy/internal/notes"
	"github.com/starford/scistudy/internal/pomodoro"
	"github.com/starford/scistudy/internal/storage"
	"github.com/starford/scistudy/internal/translator"
	"github.com/starford/scistudy/internal/view"
)

// Runner executes fn on the goroutine that owns component state and waits
// for it. eventloop.Loop implements it.
type Runner interface {
	Do(ctx context.Context, fn func()) error
}

// Config holds the App's collaborators.
type Config struct {
	Store     storage.Provider
	Catalog   *catalog.Catalog
	Clock     clock.Clock
	Scheduler clock.Scheduler
	Runner    Runner
	Renderer  view.Renderer
	Logger    *slog.Logger
	// Rand drives flashcard shuffles. Defaults to a time-seeded source.
	Rand *rand.Rand
	// TimerDefaults apply to timer settings that were never saved.
	TimerDefaults models.TimerSettings
	// NewID generates note ids. Defaults to random UUIDs.
	NewID func() string
}

// App wires the study components together. Its exported methods are safe for
// concurrent use; all component access happens through the Runner.
type App struct {
	cfg    Config
	logger *slog.Logger

	timer      *pomodoro.Timer
	flashcards *flashcard.Session
	translator *translator.Translator
	notes      *notes.Store
	goals      *goals.Store

	notesFilter models.SubjectFilter
	actions     map[string]action
}

// New builds every component from the persisted state.
func New(cfg Config) *App {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Renderer == nil {
		cfg.Renderer = view.Discard{}
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	a := &App{
		cfg:         cfg,
		logger:      cfg.Logger,
		notesFilter: models.FilterAll,
	}
	a.timer = pomodoro.New(pomodoro.Config{
		Defaults:  cfg.TimerDefaults,
		Clock:     cfg.Clock,
		Scheduler: cfg.Scheduler,
		Store:     cfg.Store,
		Logger:    cfg.Logger.With(slog.String("component", view.ComponentTimer)),
		OnChange:  a.renderTimer,
		Notify:    cfg.Renderer.Notify,
	})
	a.flashcards = flashcard.New(cfg.Catalog, cfg.Rand)
	a.flashcards.Generate(models.FilterAll)
	a.translator = translator.New(cfg.Catalog, cfg.Store, cfg.Logger.With(slog.String("component", view.ComponentTranslator)))
	a.notes = notes.New(notes.Config{
		Store:  cfg.Store,
		Clock:  cfg.Clock,
		Logger: cfg.Logger.With(slog.String("component", view.ComponentNotes)),
		NewID:  cfg.NewID,
	})
	a.goals = goals.New(cfg.Store, cfg.Logger.With(slog.String("component", view.ComponentGoals)))
	a.actions = a.routes()
	return a
}

// State is the full render state of every component.
type State struct {
	Timer      pomodoro.Snapshot   `json:"timer"`
	Flashcards flashcard.Snapshot  `json:"flashcards"`
	Translator translator.Snapshot `json:"translator"`
	Notes      NotesView           `json:"notes"`
	Goals      GoalsView           `json:"goals"`
}

// NoteItem is a note with its list preview.
type NoteItem struct {
	models.Note
	Preview string `json:"preview"`
}

// NotesView is the render state of the notes page.
type NotesView struct {
	Filter    models.SubjectFilter `json:"filter"`
	Notes     []NoteItem           `json:"notes"`
	Summary   notes.Summary        `json:"summary"`
	BySubject []notes.SubjectCount `json:"bySubject"`
	Daily     []notes.DayCount     `json:"daily"`
	Month     notes.MonthView      `json:"month"`
}

// GoalsView is the render state of the goals panel.
type GoalsView struct {
	Goals         models.Goals   `json:"goals"`
	NotesProgress goals.Progress `json:"notesProgress"`
}

// DailySeriesDays is the length of the notes activity chart.
const DailySeriesDays = 30

// State returns a consistent snapshot of every component.
func (a *App) State(ctx context.Context) (State, error) {
	var st State
	err := a.cfg.Runner.Do(ctx, func() {
		st = State{
			Timer:      a.timer.Snapshot(),
			Flashcards: a.flashcards.Snapshot(),
			Translator: a.translator.Snapshot(),
			Notes:      a.notesView(),
			Goals:      a.goalsView(),
		}
	})
	return st, err
}

// Notes returns the notes passing filter without changing the page filter.
func (a *App) Notes(ctx context.Context, filter models.SubjectFilter) ([]models.Note, error) {
	var out []models.Note
	err := a.cfg.Runner.Do(ctx, func() {
		out = a.notes.FilterBySubject(filter)
	})
	return out, err
}

// HandleStoreChange reloads the component owning key after an external
// write and re-renders it. It is a storage.ChangeCallback.
func (a *App) HandleStoreChange(key string, removed bool) {
	err := a.cfg.Runner.Do(context.Background(), func() {
		a.logger.Info("app: external change", slog.String("key", key), slog.Bool("removed", removed))
		switch key {
		case storage.KeyPomodoroStats, storage.KeyPomodoroSettings:
			a.timer.ReloadStats()
		case storage.KeyFavorites, storage.KeyRecentSearches, storage.KeyStudyStats:
			a.translator.Reload()
			a.render(view.ComponentTranslator)
		case storage.KeyStudyNotes:
			a.notes.Reload()
			a.render(view.ComponentNotes, view.ComponentGoals)
		case storage.KeyStudyGoals:
			a.goals.Reload()
			a.render(view.ComponentNotes, view.ComponentGoals)
		}
	})
	if err != nil {
		a.logger.Warn("app: reload skipped", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// RenderAll pushes every component's state to the renderer.
func (a *App) RenderAll(ctx context.Context) error {
	return a.cfg.Runner.Do(ctx, func() {
		a.renderTimer()
		a.render(view.ComponentFlashcards, view.ComponentTranslator, view.ComponentNotes, view.ComponentGoals)
	})
}

func (a *App) renderTimer() {
	a.cfg.Renderer.Render(view.ComponentTimer, a.timer.Snapshot())
}

func (a *App) render(components ...string) {
	for _, c := range components {
		switch c {
		case view.ComponentTimer:
			a.renderTimer()
		case view.ComponentFlashcards:
			a.cfg.Renderer.Render(c, a.flashcards.Snapshot())
		case view.ComponentTranslator:
			a.cfg.Renderer.Render(c, a.translator.Snapshot())
		case view.ComponentNotes:
			a.cfg.Renderer.Render(c, a.notesView())
		case view.ComponentGoals:
			a.cfg.Renderer.Render(c, a.goalsView())
		}
	}
}

func (a *App) notesView() NotesView {
	now := a.cfg.Clock.Now()
	list := a.notes.FilterBySubject(a.notesFilter)
	items := make([]NoteItem, len(list))
	for i, n := range list {
		items[i] = NoteItem{Note: n, Preview: notes.Preview(n.Content)}
	}
	return NotesView{
		Filter:    a.notesFilter,
		Notes:     items,
		Summary:   a.notes.Stats(now),
		BySubject: a.notes.AggregateBySubject(),
		Daily:     a.notes.DailyCounts(now, DailySeriesDays),
		Month:     a.notes.Month(now),
	}
}

func (a *App) goalsView() GoalsView {
	return GoalsView{
		Goals:         a.goals.Get(),
		NotesProgress: a.goals.NotesProgress(a.notes.Len()),
	}
}
