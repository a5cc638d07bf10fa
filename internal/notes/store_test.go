package notes

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/starford/scistudy/internal/apperr"
	"github.com/starford/scistudy/internal/models"
	"github.com/starford/scistudy/internal/storage"
	"github.com/starford/scistudy/internal/testutil"
)

// Wednesday.
var t0 = time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)

func newStore(t *testing.T, p storage.Provider, c *testutil.Clock) *Store {
	t.Helper()
	n := 0
	return New(Config{
		Store:  p,
		Clock:  c,
		Logger: testutil.Logger(),
		NewID: func() string {
			n++
			return fmt.Sprintf("note-%d", n)
		},
	})
}

func mustCreate(t *testing.T, s *Store, title string, subj models.Subject) models.Note {
	t.Helper()
	n, err := s.Create(Draft{Title: title, Subject: subj, Content: title + " content"})
	if err != nil {
		t.Fatalf("Create(%q): %v", title, err)
	}
	return n
}

func TestCreateInsertsAtFront(t *testing.T) {
	s := newStore(t, testutil.TestDB(t), testutil.NewClock(t0))
	mustCreate(t, s, "Cells", models.SubjectBiology)
	n := mustCreate(t, s, "  Atoms  ", models.SubjectChemistry)

	if n.Title != "Atoms" {
		t.Errorf("title not trimmed: %q", n.Title)
	}
	if n.Created != models.TimestampOf(t0) || n.LastModified != n.Created {
		t.Errorf("timestamps = %d/%d", n.Created, n.LastModified)
	}
	list := s.List()
	if len(list) != 2 || list[0].Title != "Atoms" || list[1].Title != "Cells" {
		t.Fatalf("order = %+v", list)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newStore(t, testutil.TestDB(t), testutil.NewClock(t0))
	mustCreate(t, s, "Keep", models.SubjectPhysics)

	cases := []Draft{
		{Title: "x", Subject: models.SubjectBiology, Content: "   "},
		{Title: " ", Subject: models.SubjectBiology, Content: "body"},
		{Title: "x", Subject: "astrology", Content: "body"},
		{Title: "x", Content: "body"},
	}
	for _, d := range cases {
		if _, err := s.Create(d); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Create(%+v) err = %v, want ErrValidation", d, err)
		}
	}
	if s.Len() != 1 {
		t.Errorf("collection changed: %d notes", s.Len())
	}
}

func TestUpdate(t *testing.T) {
	c := testutil.NewClock(t0)
	s := newStore(t, testutil.TestDB(t), c)
	n := mustCreate(t, s, "Draft", models.SubjectGeneral)

	c.Advance(time.Minute)
	title := "Final"
	subj := models.SubjectMathematics
	got, err := s.Update(n.ID, Patch{Title: &title, Subject: &subj})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Final" || got.Subject != subj || got.Content != n.Content {
		t.Errorf("merged = %+v", got)
	}
	if got.LastModified != models.TimestampOf(t0.Add(time.Minute)) || got.Created != n.Created {
		t.Errorf("timestamps = %d/%d", got.Created, got.LastModified)
	}

	empty := ""
	if _, err := s.Update(n.ID, Patch{Content: &empty}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty content err = %v", err)
	}
	if _, err := s.Update("missing", Patch{Title: &title}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing id err = %v", err)
	}
	if cur, _ := s.Get(n.ID); cur.Title != "Final" {
		t.Errorf("failed updates mutated note: %+v", cur)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newStore(t, testutil.TestDB(t), testutil.NewClock(t0))
	a := mustCreate(t, s, "A", models.SubjectBiology)
	mustCreate(t, s, "B", models.SubjectBiology)

	removed, err := s.Delete(a.ID)
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v", removed, err)
	}
	removed, err = s.Delete(a.ID)
	if err != nil || removed {
		t.Fatalf("second Delete = %v, %v", removed, err)
	}
	if s.Len() != 1 {
		t.Errorf("len = %d", s.Len())
	}
}

func TestPersistRoundTrip(t *testing.T) {
	db := testutil.TestDB(t)
	s := newStore(t, db, testutil.NewClock(t0))
	mustCreate(t, s, "One", models.SubjectComputer)
	mustCreate(t, s, "Two", models.SubjectPhysics)

	again := newStore(t, db, testutil.NewClock(t0))
	a, b := s.List(), again.List()
	if len(a) != len(b) {
		t.Fatalf("len %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("note %d: %+v vs %+v", i, a[i], b[i])
		}
	}

	raw, _ := db.Get(storage.KeyStudyNotes)
	var stored []map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatal(err)
	}
	if _, ok := stored[0]["lastModified"]; !ok {
		t.Errorf("stored keys = %v", stored[0])
	}
}

func TestCorruptNotesYieldEmpty(t *testing.T) {
	db := testutil.TestDB(t)
	_ = db.Put(storage.KeyStudyNotes, []byte("[{"))
	s := newStore(t, db, testutil.NewClock(t0))
	if s.Len() != 0 {
		t.Errorf("len = %d", s.Len())
	}
}

type failingStore struct{ storage.Provider }

func (failingStore) Put(string, []byte) error { return errors.New("disk full") }

func TestStorageFailureKeepsMemoryState(t *testing.T) {
	s := newStore(t, failingStore{testutil.TestDB(t)}, testutil.NewClock(t0))
	_, err := s.Create(Draft{Title: "t", Subject: models.SubjectBiology, Content: "c"})
	if !errors.Is(err, apperr.ErrStorage) {
		t.Fatalf("err = %v, want ErrStorage", err)
	}
	if s.Len() != 1 {
		t.Errorf("note should stay in memory")
	}
}

func TestFilterAndAggregate(t *testing.T) {
	s := newStore(t, testutil.TestDB(t), testutil.NewClock(t0))
	if s.FavoriteSubject() != models.SubjectBiology {
		t.Error("empty collection should default to biology")
	}
	mustCreate(t, s, "p1", models.SubjectPhysics)
	mustCreate(t, s, "c1", models.SubjectChemistry)
	mustCreate(t, s, "p2", models.SubjectPhysics)
	mustCreate(t, s, "c2", models.SubjectChemistry)

	got := s.FilterBySubject(models.SubjectFilter(models.SubjectPhysics))
	if len(got) != 2 || got[0].Title != "p2" || got[1].Title != "p1" {
		t.Errorf("physics = %+v", got)
	}
	if all := s.FilterBySubject(models.FilterAll); len(all) != 4 {
		t.Errorf("all = %d", len(all))
	}

	agg := s.AggregateBySubject()
	if len(agg) != 2 || agg[0].Subject != models.SubjectChemistry || agg[0].Count != 2 {
		t.Errorf("aggregate = %+v", agg)
	}
	// Tie: chemistry is encountered first (newest note first).
	if fav := s.FavoriteSubject(); fav != models.SubjectChemistry {
		t.Errorf("favorite = %q", fav)
	}
}

func TestDateBuckets(t *testing.T) {
	c := testutil.NewClock(t0.AddDate(0, 0, -5)) // Friday of the previous week
	s := newStore(t, testutil.TestDB(t), c)
	mustCreate(t, s, "old", models.SubjectBiology)
	c.Set(t0.AddDate(0, 0, -1))
	mustCreate(t, s, "yesterday", models.SubjectBiology)
	c.Set(t0)
	mustCreate(t, s, "today-1", models.SubjectBiology)
	mustCreate(t, s, "today-2", models.SubjectBiology)

	day := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	if n := s.CountCreatedBetween(day, day.AddDate(0, 0, 1)); n != 2 {
		t.Errorf("today = %d", n)
	}
	if n := s.CountThisWeek(t0); n != 3 {
		t.Errorf("this week = %d", n)
	}

	series := s.DailyCounts(t0, 30)
	if len(series) != 30 {
		t.Fatalf("len = %d", len(series))
	}
	last := series[29]
	if last.Date != "2025-06-18" || last.Count != 2 || last.Label != "Jun 18" {
		t.Errorf("last = %+v", last)
	}
	if series[28].Count != 1 || series[25].Count != 0 || series[24].Count != 1 {
		t.Errorf("series tail = %+v", series[24:])
	}

	m := s.Month(t0)
	if m.Label != "June 2025" || m.LeadingBlanks != 0 || len(m.Days) != 30 {
		t.Errorf("month = %s blanks=%d days=%d", m.Label, m.LeadingBlanks, len(m.Days))
	}
	if !m.Days[17].HasNotes || !m.Days[17].Today || m.Days[16].Today || !m.Days[12].HasNotes || m.Days[0].HasNotes {
		t.Errorf("days = %+v", m.Days[10:19])
	}

	sum := s.Stats(t0)
	if sum.Total != 4 || sum.ThisWeek != 3 || sum.FavoriteSubjectName != "Biology" {
		t.Errorf("summary = %+v", sum)
	}
}

func TestPreview(t *testing.T) {
	short := "short note"
	if Preview(short) != short {
		t.Error("short content should be unchanged")
	}
	long := strings.Repeat("خلية ", 40)
	p := Preview(long)
	if !strings.HasSuffix(p, "...") || len([]rune(p)) != PreviewLength+3 {
		t.Errorf("preview rune length = %d", len([]rune(p)))
	}
}
