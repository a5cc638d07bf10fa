// Package flashcard implements a shuffled, filterable deck with a cursor.
//
// A Session is not safe for concurrent use; the application drives it from
// a single event loop.
package flashcard

import (
	"fmt"
	"math/rand"

	"github.com/starford/scistudy/internal/apperr"
	"github.com/starford/scistudy/internal/catalog"
	"github.com/starford/scistudy/internal/models"
)

// Card is the render-ready view of the card under the cursor.
type Card struct {
	Prompt          string          `json:"prompt"`
	Answer          string          `json:"answer"`
	Transliteration string          `json:"transliteration"`
	Category        models.Category `json:"category"`
	Flipped         bool            `json:"flipped"`
}

// Snapshot is the session state handed to the view.
type Snapshot struct {
	Filter         models.CategoryFilter `json:"filter"`
	Direction      models.Direction      `json:"direction"`
	DirectionLabel string                `json:"directionLabel"`
	Started        bool                  `json:"started"`
	Position       int                   `json:"position"`
	Total          int                   `json:"total"`
	Progress       float64               `json:"progress"`
	CanPrevious    bool                  `json:"canPrevious"`
	CanNext        bool                  `json:"canNext"`
	Card           *Card                 `json:"card,omitempty"`
	LastRating     models.Difficulty     `json:"lastRating,omitempty"`
}

// Session is a deck derived from the catalog.
type Session struct {
	catalog *catalog.Catalog
	rng     *rand.Rand

	deck      []models.Term
	index     int
	flipped   bool
	started   bool
	filter    models.CategoryFilter
	direction models.Direction
	rating    models.Difficulty
}

// New creates an empty session. rng drives the shuffle; pass a seeded source
// for reproducible decks.
func New(c *catalog.Catalog, rng *rand.Rand) *Session {
	return &Session{
		catalog:   c,
		rng:       rng,
		filter:    models.FilterAll,
		direction: models.EnglishToArabic,
	}
}

// Generate rebuilds the deck from every catalog term matching filter,
// shuffles it and moves the cursor to the first card.
func (s *Session) Generate(filter models.CategoryFilter) {
	s.filter = filter
	s.deck = s.deck[:0]
	for _, t := range s.catalog.All() {
		if filter.Matches(t.Category) {
			s.deck = append(s.deck, t)
		}
	}
	s.rng.Shuffle(len(s.deck), func(i, j int) {
		s.deck[i], s.deck[j] = s.deck[j], s.deck[i]
	})
	s.index = 0
	s.flipped = false
	s.rating = ""
}

// SetFilter changes the category filter and regenerates the deck.
func (s *Session) SetFilter(filter models.CategoryFilter) {
	s.Generate(filter)
}

// Start begins (or restarts) studying from the first card, generating a deck
// if none exists yet.
func (s *Session) Start() {
	if len(s.deck) == 0 {
		s.Generate(s.filter)
	}
	s.index = 0
	s.flipped = false
	s.started = true
}

// Next advances the cursor unless it is on the last card.
func (s *Session) Next() bool {
	if s.index >= len(s.deck)-1 {
		return false
	}
	s.index++
	s.flipped = false
	return true
}

// Previous moves the cursor back unless it is on the first card.
func (s *Session) Previous() bool {
	if s.index <= 0 {
		return false
	}
	s.index--
	s.flipped = false
	return true
}

// Flip toggles between the prompt and the answer side.
func (s *Session) Flip() {
	s.flipped = !s.flipped
}

// ToggleDirection swaps which language is the prompt.
func (s *Session) ToggleDirection() models.Direction {
	s.direction = s.direction.Toggle()
	return s.direction
}

// Rate records a self-assessed difficulty and advances. Ratings do not
// influence scheduling.
func (s *Session) Rate(d models.Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", apperr.ErrValidation, d)
	}
	s.rating = d
	s.Next()
	return nil
}

// Len returns the deck size.
func (s *Session) Len() int { return len(s.deck) }

// Index returns the cursor position.
func (s *Session) Index() int { return s.index }

// Flipped reports whether the answer side is showing.
func (s *Session) Flipped() bool { return s.flipped }

// Deck returns a copy of the current deck order.
func (s *Session) Deck() []models.Term {
	out := make([]models.Term, len(s.deck))
	copy(out, s.deck)
	return out
}

// Progress is (cursor+1)/len, or 0 for an empty deck.
func (s *Session) Progress() float64 {
	if len(s.deck) == 0 {
		return 0
	}
	return float64(s.index+1) / float64(len(s.deck))
}

// Current returns the card under the cursor.
func (s *Session) Current() (Card, bool) {
	if len(s.deck) == 0 {
		return Card{}, false
	}
	t := s.deck[s.index]
	card := Card{
		Prompt:          t.English,
		Answer:          t.Arabic,
		Transliteration: catalog.Transliterate(t.Arabic),
		Category:        t.Category,
		Flipped:         s.flipped,
	}
	if s.direction == models.ArabicToEnglish {
		card.Prompt, card.Answer = card.Answer, card.Prompt
	}
	return card, true
}

// Snapshot returns the render state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Filter:         s.filter,
		Direction:      s.direction,
		DirectionLabel: s.direction.Label(),
		Started:        s.started,
		Total:          len(s.deck),
		Progress:       s.Progress(),
		LastRating:     s.rating,
	}
	if card, ok := s.Current(); ok {
		snap.Card = &card
		snap.Position = s.index + 1
		snap.CanPrevious = s.index > 0
		snap.CanNext = s.index < len(s.deck)-1
	}
	return snap
}
