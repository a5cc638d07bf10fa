// Package testutil provides shared test helpers: temporary stores, a
// controllable clock and a manually fired scheduler.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/scistudy/internal/clock"
	"github.com/starford/scistudy/internal/storage"
)

// TestDB creates a temporary SQLite store that is automatically closed.
func TestDB(t *testing.T) storage.Provider {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "scistudy-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestFS creates a temporary file-backed store.
func TestFS(t *testing.T) *storage.FS {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Clock is a manually advanced clock.Clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock frozen at now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the frozen time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Scheduler is a clock.Scheduler whose callbacks only run when Fire is called.
type Scheduler struct {
	next int
	jobs map[int]func()
}

var _ clock.Scheduler = (*Scheduler)(nil)

// NewScheduler returns an empty manual scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{jobs: make(map[int]func())}
}

// Schedule registers fn; interval is ignored.
func (s *Scheduler) Schedule(_ time.Duration, fn func()) clock.CancelFunc {
	id := s.next
	s.next++
	s.jobs[id] = fn
	return func() { delete(s.jobs, id) }
}

// Active returns the number of uncancelled schedules.
func (s *Scheduler) Active() int { return len(s.jobs) }

// Fire runs every active callback n times, re-reading the active set before
// each round so that callbacks may cancel or add schedules.
func (s *Scheduler) Fire(n int) {
	for i := 0; i < n; i++ {
		ids := make([]int, 0, len(s.jobs))
		for id := range s.jobs {
			ids = append(ids, id)
		}
		for _, id := range ids {
			if fn, ok := s.jobs[id]; ok {
				fn()
			}
		}
	}
}
