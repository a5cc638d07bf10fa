// Package pomodoro implements the focus/break state machine, its countdown
// and the statistics credited when a focus session completes.
//
// A Timer is not safe for concurrent use. Its scheduler must deliver ticks on
// the same goroutine that calls the exported methods (see eventloop.Loop).
package pomodoro

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/scistudy/internal/apperr"
	"github.com/starford/scistudy/internal/clock"
	"github.com/starford/scistudy/internal/models"
	"github.com/starford/scistudy/internal/storage"
)

const (
	// SessionsPerCycle focus sessions are followed by a long break.
	SessionsPerCycle = 4
	// TickInterval is the countdown resolution.
	TickInterval = time.Second
	// QuickSessionSeconds is the focus length used by StartQuickSession.
	QuickSessionSeconds = 5 * 60

	minDurationSeconds = 60
	maxDurationSeconds = 4 * 60 * 60
)

// DefaultSettings are the classic 25/5/15 minute durations.
func DefaultSettings() models.TimerSettings {
	return models.TimerSettings{
		FocusDuration:      25 * 60,
		ShortBreakDuration: 5 * 60,
		LongBreakDuration:  15 * 60,
	}
}

// Config holds the Timer's collaborators.
type Config struct {
	// Defaults fill settings that were never saved. Zero → DefaultSettings.
	Defaults  models.TimerSettings
	Clock     clock.Clock
	Scheduler clock.Scheduler
	Store     storage.Provider
	Logger    *slog.Logger
	// OnChange is called after every state change, including ticks.
	OnChange func()
	// Notify receives achievements and storage failures.
	Notify func(models.Notification)
}

// Timer is the Pomodoro state machine.
type Timer struct {
	cfg    Config
	logger *slog.Logger

	phase        models.Phase
	remaining    int
	sessionCount int
	running      bool
	paused       bool
	subject      models.Subject
	cancel       clock.CancelFunc

	settings models.TimerSettings
	stats    models.StudyStats
}

// New creates a timer in the focus phase with persisted settings and stats.
func New(cfg Config) *Timer {
	if cfg.Defaults == (models.TimerSettings{}) {
		cfg.Defaults = DefaultSettings()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.OnChange == nil {
		cfg.OnChange = func() {}
	}
	if cfg.Notify == nil {
		cfg.Notify = func(models.Notification) {}
	}
	t := &Timer{
		cfg:     cfg,
		logger:  cfg.Logger,
		phase:   models.PhaseFocus,
		subject: models.SubjectGeneral,
	}
	t.load()
	t.remaining = t.settings.FocusDuration
	return t
}

// Start runs the countdown. A paused timer resumes where it stopped;
// otherwise the current phase restarts from its full duration. Starting a
// running timer does nothing.
func (t *Timer) Start() {
	if t.running {
		return
	}
	if t.paused {
		t.paused = false
	} else {
		t.remaining = t.phaseDuration(t.phase)
	}
	t.running = true
	t.cancel = t.cfg.Scheduler.Schedule(TickInterval, t.Tick)
	t.cfg.OnChange()
}

// Pause stops the countdown and keeps the remaining time. It reports false
// when the timer was not running.
func (t *Timer) Pause() bool {
	if !t.running {
		return false
	}
	t.stopTicking()
	t.running = false
	t.paused = true
	t.cfg.OnChange()
	return true
}

// Reset stops the countdown and restores the current phase's full duration.
func (t *Timer) Reset() {
	t.stopTicking()
	t.running = false
	t.paused = false
	t.remaining = t.phaseDuration(t.phase)
	t.cfg.OnChange()
}

// Tick decrements the countdown by one second and completes the phase when
// it reaches zero. Ticks delivered while not running are ignored.
func (t *Timer) Tick() {
	if !t.running {
		return
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.completePhase()
		return
	}
	t.cfg.OnChange()
}

// StartQuickSession switches to a five minute focus session and starts it.
// The shortened focus duration stays in effect afterwards.
func (t *Timer) StartQuickSession() {
	t.stopTicking()
	t.running = false
	t.paused = false
	t.settings.FocusDuration = QuickSessionSeconds
	t.phase = models.PhaseFocus
	t.remaining = t.settings.FocusDuration
	t.Start()
}

// SetDurations replaces the phase durations (seconds) and persists them.
// An idle focus phase picks up the new focus duration immediately.
func (t *Timer) SetDurations(s models.TimerSettings) error {
	if err := validateSettings(s); err != nil {
		return err
	}
	t.settings = s
	if !t.running && t.phase == models.PhaseFocus {
		t.remaining = t.settings.FocusDuration
	}
	err := storage.SaveJSON(t.cfg.Store, storage.KeyPomodoroSettings, t.settings)
	t.cfg.OnChange()
	if err != nil {
		return fmt.Errorf("pomodoro: save settings: %w", err)
	}
	return nil
}

// SetSubject selects the subject credited when focus completes.
func (t *Timer) SetSubject(s models.Subject) error {
	if !s.Valid() {
		return fmt.Errorf("%w: unknown subject %q", apperr.ErrValidation, s)
	}
	t.subject = s
	t.cfg.OnChange()
	return nil
}

// ReloadStats re-reads persisted stats and settings, keeping the countdown.
func (t *Timer) ReloadStats() {
	t.load()
	if !t.running && !t.paused && t.phase == models.PhaseFocus {
		t.remaining = t.settings.FocusDuration
	}
	t.cfg.OnChange()
}

// Phase returns the current phase.
func (t *Timer) Phase() models.Phase { return t.phase }

// Remaining returns the seconds left in the phase.
func (t *Timer) Remaining() int { return t.remaining }

// SessionCount returns completed focus sessions since start-up.
func (t *Timer) SessionCount() int { return t.sessionCount }

// Running reports whether the countdown is active.
func (t *Timer) Running() bool { return t.running }

// Paused reports whether the countdown is paused.
func (t *Timer) Paused() bool { return t.paused }

// Settings returns the current durations.
func (t *Timer) Settings() models.TimerSettings { return t.settings }

// Stats returns a copy of the accumulated statistics.
func (t *Timer) Stats() models.StudyStats {
	out := t.stats
	out.SubjectData = make(map[models.Subject]int, len(t.stats.SubjectData))
	for k, v := range t.stats.SubjectData {
		out.SubjectData[k] = v
	}
	return out
}

func (t *Timer) completePhase() {
	t.stopTicking()
	t.running = false
	t.paused = false

	if t.phase == models.PhaseFocus {
		t.sessionCount++
		t.creditFocus(t.phaseDuration(models.PhaseFocus))
		t.checkAchievements()

		next := models.PhaseShortBreak
		if t.sessionCount%SessionsPerCycle == 0 {
			next = models.PhaseLongBreak
		}
		t.phase = next
		t.remaining = t.phaseDuration(next)
		t.persist()
		t.Start()
		return
	}

	t.phase = models.PhaseFocus
	t.remaining = t.settings.FocusDuration
	t.persist()
	t.cfg.OnChange()
}

func (t *Timer) phaseDuration(p models.Phase) int {
	switch p {
	case models.PhaseShortBreak:
		return t.settings.ShortBreakDuration
	case models.PhaseLongBreak:
		return t.settings.LongBreakDuration
	default:
		return t.settings.FocusDuration
	}
}

func (t *Timer) stopTicking() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Timer) load() {
	t.settings = storage.LoadJSON(t.cfg.Store, storage.KeyPomodoroSettings, t.cfg.Defaults, t.logger)
	if t.settings.FocusDuration <= 0 {
		t.settings.FocusDuration = t.cfg.Defaults.FocusDuration
	}
	if t.settings.ShortBreakDuration <= 0 {
		t.settings.ShortBreakDuration = t.cfg.Defaults.ShortBreakDuration
	}
	if t.settings.LongBreakDuration <= 0 {
		t.settings.LongBreakDuration = t.cfg.Defaults.LongBreakDuration
	}

	t.stats = storage.LoadJSON(t.cfg.Store, storage.KeyPomodoroStats, models.NewStudyStats(), t.logger)
	if t.stats.SubjectData == nil {
		t.stats.SubjectData = make(map[models.Subject]int)
	}
	for _, s := range models.Subjects {
		if _, ok := t.stats.SubjectData[s]; !ok {
			t.stats.SubjectData[s] = 0
		}
	}
}

// persist writes stats and settings together, as the focus-completion path
// always has. Failures are reported but never stop the timer.
func (t *Timer) persist() {
	writes := []struct {
		key   string
		value any
	}{
		{storage.KeyPomodoroStats, t.stats},
		{storage.KeyPomodoroSettings, t.settings},
	}
	for _, w := range writes {
		if err := storage.SaveJSON(t.cfg.Store, w.key, w.value); err != nil {
			t.logger.Error("pomodoro: persist failed", slog.String("key", w.key), slog.String("error", err.Error()))
			t.cfg.Notify(models.Notification{
				Kind:    models.NotifyError,
				Message: "Could not save your study statistics",
			})
		}
	}
}

func validateSettings(s models.TimerSettings) error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.FocusDuration, validation.Required, validation.Min(minDurationSeconds), validation.Max(maxDurationSeconds)),
		validation.Field(&s.ShortBreakDuration, validation.Required, validation.Min(minDurationSeconds), validation.Max(maxDurationSeconds)),
		validation.Field(&s.LongBreakDuration, validation.Required, validation.Min(minDurationSeconds), validation.Max(maxDurationSeconds)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrValidation, err)
	}
	return nil
}
