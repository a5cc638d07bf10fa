package translator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/starford/scistudy/internal/apperr"
	"github.com/starford/scistudy/internal/catalog"
	"github.com/starford/scistudy/internal/models"
	"github.com/starford/scistudy/internal/storage"
	"github.com/starford/scistudy/internal/testutil"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Entry{
		{English: "cell", Arabic: "خلية"},
		{English: "cell membrane", Arabic: "غشاء الخلية"},
		{English: "atom", Arabic: "ذرة"},
		{English: "force", Arabic: "قوة"},
		{English: "energy", Arabic: "طاقة"},
		{English: "enzyme", Arabic: "إنزيم"},
		{English: "element", Arabic: "عنصر"},
	}, nil)
}

func TestSearchRecordsHistory(t *testing.T) {
	db := testutil.TestDB(t)
	tr := New(testCatalog(), db, testutil.Logger())

	res, err := tr.Search("CELL")
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 || res[0].English != "cell" {
		t.Errorf("results = %+v", res)
	}

	if res, _ := tr.Search("c"); res != nil {
		t.Errorf("short query matched %+v", res)
	}
	if got := tr.RecentSearches(); len(got) != 1 || got[0] != "CELL" {
		t.Errorf("recent = %v", got)
	}

	res, err = tr.Search("zzz")
	if err != nil {
		t.Fatal(err)
	}
	if res == nil || len(res) != 0 {
		t.Errorf("unmatched query results = %#v, want empty", res)
	}
	if got := tr.RecentSearches(); len(got) != 2 || got[0] != "zzz" || got[1] != "CELL" {
		t.Errorf("recent = %v, want [zzz CELL]", got)
	}

	var stored []string
	raw, _ := db.Get(storage.KeyRecentSearches)
	_ = json.Unmarshal(raw, &stored)
	if len(stored) != 2 {
		t.Errorf("stored = %v", stored)
	}
}

func TestRecentSearchesBoundedAndNotReordered(t *testing.T) {
	tr := New(testCatalog(), testutil.TestDB(t), testutil.Logger())
	for _, q := range []string{"ce", "at", "fo", "en", "el", "at", "cell"} {
		_, _ = tr.Search(q)
	}
	got := tr.RecentSearches()
	want := []string{"cell", "el", "en", "fo", "at"}
	if len(got) != len(want) {
		t.Fatalf("recent = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recent = %v, want %v", got, want)
		}
	}
}

func TestSelectAndFavorite(t *testing.T) {
	db := testutil.TestDB(t)
	tr := New(testCatalog(), db, testutil.Logger())

	if on, err := tr.ToggleFavorite(); on || err != nil {
		t.Fatalf("toggle without selection = %v, %v", on, err)
	}
	if _, err := tr.Select("quark"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown term err = %v", err)
	}

	cur, err := tr.Select("atom")
	if err != nil {
		t.Fatal(err)
	}
	if cur.Category != models.CategoryChemistry || cur.Transliteration != "dhr"+"ة" || cur.Favorite {
		t.Errorf("translation = %+v", cur)
	}

	on, err := tr.ToggleFavorite()
	if err != nil || !on {
		t.Fatalf("toggle = %v, %v", on, err)
	}
	if cur, _ := tr.Current(); !cur.Favorite {
		t.Error("current should be a favourite")
	}

	again := New(testCatalog(), db, testutil.Logger())
	if favs := again.Favorites(); len(favs) != 1 || favs[0].English != "atom" {
		t.Errorf("reloaded favourites = %+v", favs)
	}
	if _, err := db.Get(storage.KeyStudyStats); err != nil {
		t.Errorf("learning stats not saved: %v", err)
	}

	if on, _ := tr.ToggleFavorite(); on {
		t.Error("second toggle should remove")
	}
	if tr.Summary().FavoritesCount != 0 {
		t.Errorf("summary = %+v", tr.Summary())
	}
}

func TestPronounce(t *testing.T) {
	tr := New(testCatalog(), testutil.TestDB(t), testutil.Logger())
	if _, ok := tr.Pronounce(); ok {
		t.Error("nothing selected")
	}
	_, _ = tr.Select("force")
	if p, ok := tr.Pronounce(); !ok || p != "qw"+"ة" {
		t.Errorf("pronounce = %q", p)
	}
}

func TestSummaryFromStoredStats(t *testing.T) {
	db := testutil.TestDB(t)
	_ = storage.SaveJSON(db, storage.KeyStudyStats, models.LearningStats{TermsLearned: 12, StudyStreak: 3, StudyTime: 600})
	_ = db.Put(storage.KeyFavorites, []byte("not json"))
	tr := New(testCatalog(), db, testutil.Logger())
	s := tr.Summary()
	if s.TermsLearned != 12 || s.StudyStreak != 3 || s.StudyMinutes != 10 || s.FavoritesCount != 0 {
		t.Errorf("summary = %+v", s)
	}
}
