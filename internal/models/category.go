// Package models defines the domain types shared by the study components.
package models

import "fmt"

// Category classifies a catalog term.
type Category string

const (
	CategoryBiology   Category = "biology"
	CategoryChemistry Category = "chemistry"
	CategoryPhysics   Category = "physics"
	CategoryGeneral   Category = "general"
)

// Categories lists every category in classification priority order.
var Categories = []Category{CategoryBiology, CategoryChemistry, CategoryPhysics, CategoryGeneral}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryBiology, CategoryChemistry, CategoryPhysics, CategoryGeneral:
		return true
	}
	return false
}

// CategoryFilter selects a deck: a category or FilterAll.
type CategoryFilter string

// FilterAll matches every category or subject.
const FilterAll = "all"

// ParseCategoryFilter accepts "all" or a known category.
func ParseCategoryFilter(s string) (CategoryFilter, error) {
	if s == FilterAll || Category(s).Valid() {
		return CategoryFilter(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Matches reports whether c passes the filter.
func (f CategoryFilter) Matches(c Category) bool {
	return f == FilterAll || Category(f) == c
}

// Term is a catalog entry with its derived category.
type Term struct {
	English  string   `json:"english"`
	Arabic   string   `json:"arabic"`
	Category Category `json:"category"`
}
