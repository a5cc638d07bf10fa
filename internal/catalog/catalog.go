// Package catalog holds the English → Arabic scientific vocabulary together
// with the keyword classifier and transliteration table.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/starford/scistudy/internal/models"
)

// DefaultSearchLimit caps Search results when no limit is given.
const DefaultSearchLimit = 10

// MinQueryLength is the shortest query Search will match.
const MinQueryLength = 2

//go:embed terms.yaml
var embeddedTerms []byte

// Entry is one English/Arabic pair as written in the catalog file.
type Entry struct {
	English string `yaml:"english"`
	Arabic  string `yaml:"arabic"`
}

type document struct {
	Terms   []Entry `yaml:"terms"`
	Phrases []Entry `yaml:"phrases"`
}

// Catalog is the merged, classified vocabulary. It is immutable once built.
type Catalog struct {
	terms []models.Term
	index map[string]int
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(embeddedTerms)
}

// LoadFile reads a catalog document from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	return New(doc.Terms, doc.Phrases), nil
}

// New merges terms and phrases. Later entries with an English key already
// present replace its translation in place.
func New(terms, phrases []Entry) *Catalog {
	c := &Catalog{index: make(map[string]int, len(terms)+len(phrases))}
	for _, group := range [][]Entry{terms, phrases} {
		for _, e := range group {
			if e.English == "" {
				continue
			}
			if i, ok := c.index[e.English]; ok {
				c.terms[i].Arabic = e.Arabic
				continue
			}
			c.index[e.English] = len(c.terms)
			c.terms = append(c.terms, models.Term{
				English:  e.English,
				Arabic:   e.Arabic,
				Category: Classify(e.English),
			})
		}
	}
	return c
}

// Len returns the number of distinct entries.
func (c *Catalog) Len() int { return len(c.terms) }

// All returns a copy of every entry in catalog order.
func (c *Catalog) All() []models.Term {
	out := make([]models.Term, len(c.terms))
	copy(out, c.terms)
	return out
}

// Lookup finds an entry by its exact English key.
func (c *Catalog) Lookup(english string) (models.Term, bool) {
	i, ok := c.index[english]
	if !ok {
		return models.Term{}, false
	}
	return c.terms[i], true
}

// Search returns entries whose English text contains query, ignoring case,
// in catalog order and truncated to limit (DefaultSearchLimit when ≤ 0).
// Queries shorter than MinQueryLength runes match nothing.
func (c *Catalog) Search(query string, limit int) []models.Term {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(query)
	var out []models.Term
	for _, t := range c.terms {
		if strings.Contains(strings.ToLower(t.English), q) {
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
