package goals

import (
	"errors"
	"testing"

	"github.com/starford/scistudy/internal/apperr"
	"github.com/starford/scistudy/internal/models"
	"github.com/starford/scistudy/internal/storage"
	"github.com/starford/scistudy/internal/testutil"
)

func TestDefaults(t *testing.T) {
	s := New(testutil.TestDB(t), testutil.Logger())
	if s.Get() != models.DefaultGoals() {
		t.Errorf("goals = %+v", s.Get())
	}
}

func TestSetPersists(t *testing.T) {
	db := testutil.TestDB(t)
	s := New(db, testutil.Logger())
	want := models.Goals{StudyHours: 10, Flashcards: 30, Notes: 5}
	if err := s.Set(want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := New(db, testutil.Logger()).Get(); got != want {
		t.Errorf("reloaded = %+v", got)
	}
}

func TestSetRejectsNonPositive(t *testing.T) {
	s := New(testutil.TestDB(t), testutil.Logger())
	for _, g := range []models.Goals{
		{StudyHours: 0, Flashcards: 1, Notes: 1},
		{StudyHours: 1, Flashcards: -3, Notes: 1},
		{StudyHours: 1, Flashcards: 1, Notes: 0},
	} {
		if err := s.Set(g); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Set(%+v) = %v", g, err)
		}
	}
	if s.Get() != models.DefaultGoals() {
		t.Error("rejected goals were applied")
	}
}

func TestParse(t *testing.T) {
	g, err := Parse(" 12", "40", "8 ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g != (models.Goals{StudyHours: 12, Flashcards: 40, Notes: 8}) {
		t.Errorf("goals = %+v", g)
	}
	if _, err := Parse("twelve", "40", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("err = %v", err)
	}
}

func TestCorruptGoalsFallBack(t *testing.T) {
	db := testutil.TestDB(t)
	_ = db.Put(storage.KeyStudyGoals, []byte(`{"studyHours":5,"notes":0}`))
	s := New(db, testutil.Logger())
	if got := s.Get(); got.StudyHours != 5 || got.Notes != 15 || got.Flashcards != 60 {
		t.Errorf("goals = %+v", got)
	}
}

func TestNotesProgress(t *testing.T) {
	s := New(testutil.TestDB(t), testutil.Logger())
	p := s.NotesProgress(3)
	if p.Label != "3/15" || p.Percent != 20 {
		t.Errorf("progress = %+v", p)
	}
	if p := s.NotesProgress(40); p.Percent != 100 {
		t.Errorf("capped = %v", p.Percent)
	}
}
