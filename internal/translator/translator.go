// Package translator is the term lookup page: catalog search with a short
// history, the selected translation and a favourites list.
package translator

import (
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/starford/scistudy/internal/apperr"
	"github.com/starford/scistudy/internal/catalog"
	"github.com/starford/scistudy/internal/models"
	"github.com/starford/scistudy/internal/storage"
)

// MaxRecentSearches bounds the search history.
const MaxRecentSearches = 5

// Translation is the selected term as displayed.
type Translation struct {
	models.Term
	Transliteration string `json:"transliteration"`
	Favorite        bool   `json:"favorite"`
}

// Summary holds the counters shown under the translator.
type Summary struct {
	TermsLearned   int `json:"termsLearned"`
	StudyStreak    int `json:"studyStreak"`
	FavoritesCount int `json:"favoritesCount"`
	StudyMinutes   int `json:"studyMinutes"`
}

// Snapshot is the render state of the translator.
type Snapshot struct {
	Query          string        `json:"query"`
	Results        []models.Term `json:"results"`
	Current        *Translation  `json:"current,omitempty"`
	Favorites      []models.Term `json:"favorites"`
	RecentSearches []string      `json:"recentSearches"`
	Summary        Summary       `json:"summary"`
}

// Translator owns the favorites, recentSearches and studyStats keys.
// It is not safe for concurrent use.
type Translator struct {
	catalog *catalog.Catalog
	store   storage.Provider
	logger  *slog.Logger

	query     string
	results   []models.Term
	current   *models.Term
	favorites []models.Term
	recent    []string
	learning  models.LearningStats
}

// New loads the persisted favourites, history and counters.
func New(c *catalog.Catalog, p storage.Provider, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Translator{catalog: c, store: p, logger: logger}
	t.Reload()
	return t
}

// Reload re-reads every key the translator owns.
func (t *Translator) Reload() {
	t.favorites = storage.LoadJSON(t.store, storage.KeyFavorites, []models.Term{}, t.logger)
	t.recent = storage.LoadJSON(t.store, storage.KeyRecentSearches, []string{}, t.logger)
	if len(t.recent) > MaxRecentSearches {
		t.recent = t.recent[:MaxRecentSearches]
	}
	t.learning = storage.LoadJSON(t.store, storage.KeyStudyStats, models.LearningStats{}, t.logger)
}

// Search runs query against the catalog. Queries long enough to match are
// added to the recent searches even when nothing matches; a query already
// present keeps its place.
func (t *Translator) Search(query string) ([]models.Term, error) {
	t.query = query
	if utf8.RuneCountInString(query) < catalog.MinQueryLength {
		t.results = nil
		return nil, nil
	}
	t.results = t.catalog.Search(query, catalog.DefaultSearchLimit)
	if t.results == nil {
		t.results = []models.Term{}
	}
	return t.results, t.remember(query)
}

// Select makes the catalog entry for english the current translation.
func (t *Translator) Select(english string) (Translation, error) {
	term, ok := t.catalog.Lookup(english)
	if !ok {
		return Translation{}, fmt.Errorf("translator: select %q: %w", english, apperr.ErrNotFound)
	}
	t.current = &term
	t.results = nil
	return t.translation(term), nil
}

// Current returns the selected translation.
func (t *Translator) Current() (Translation, bool) {
	if t.current == nil {
		return Translation{}, false
	}
	return t.translation(*t.current), true
}

// ToggleFavorite adds or removes the current translation from favourites
// and reports whether it is now a favourite. Without a current translation
// it does nothing.
func (t *Translator) ToggleFavorite() (bool, error) {
	if t.current == nil {
		return false, nil
	}
	now := true
	if i := t.favoriteIndex(t.current.English); i >= 0 {
		t.favorites = append(t.favorites[:i:i], t.favorites[i+1:]...)
		now = false
	} else {
		t.favorites = append(t.favorites, *t.current)
	}

	err := errors.Join(
		storage.SaveJSON(t.store, storage.KeyFavorites, t.favorites),
		storage.SaveJSON(t.store, storage.KeyStudyStats, t.learning),
	)
	if err != nil {
		t.logger.Error("translator: save favorites failed", slog.String("error", err.Error()))
		return now, fmt.Errorf("translator: save favorites: %w", err)
	}
	return now, nil
}

// Pronounce returns the Latin reading of the current translation. There is
// no audio; the view highlights the transliteration instead.
func (t *Translator) Pronounce() (string, bool) {
	if t.current == nil {
		return "", false
	}
	return catalog.Transliterate(t.current.Arabic), true
}

// Favorites returns a copy of the favourites in insertion order.
func (t *Translator) Favorites() []models.Term {
	out := make([]models.Term, len(t.favorites))
	copy(out, t.favorites)
	return out
}

// RecentSearches returns the history, newest first.
func (t *Translator) RecentSearches() []string {
	out := make([]string, len(t.recent))
	copy(out, t.recent)
	return out
}

// Summary returns the page counters.
func (t *Translator) Summary() Summary {
	return Summary{
		TermsLearned:   t.learning.TermsLearned,
		StudyStreak:    t.learning.StudyStreak,
		FavoritesCount: len(t.favorites),
		StudyMinutes:   t.learning.StudyTime / 60,
	}
}

// Snapshot returns the render state.
func (t *Translator) Snapshot() Snapshot {
	snap := Snapshot{
		Query:          t.query,
		Results:        append([]models.Term{}, t.results...),
		Favorites:      t.Favorites(),
		RecentSearches: t.RecentSearches(),
		Summary:        t.Summary(),
	}
	if cur, ok := t.Current(); ok {
		snap.Current = &cur
	}
	return snap
}

func (t *Translator) remember(query string) error {
	for _, q := range t.recent {
		if q == query {
			return nil
		}
	}
	t.recent = append([]string{query}, t.recent...)
	if len(t.recent) > MaxRecentSearches {
		t.recent = t.recent[:MaxRecentSearches]
	}
	if err := storage.SaveJSON(t.store, storage.KeyRecentSearches, t.recent); err != nil {
		t.logger.Error("translator: save recent searches failed", slog.String("error", err.Error()))
		return fmt.Errorf("translator: save recent searches: %w", err)
	}
	return nil
}

func (t *Translator) translation(term models.Term) Translation {
	return Translation{
		Term:            term,
		Transliteration: catalog.Transliterate(term.Arabic),
		Favorite:        t.favoriteIndex(term.English) >= 0,
	}
}

func (t *Translator) favoriteIndex(english string) int {
	for i, f := range t.favorites {
		if f.English == english {
			return i
		}
	}
	return -1
}
