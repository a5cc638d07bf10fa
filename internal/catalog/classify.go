package catalog

import (
	"strings"

	"github.com/starford/scistudy/internal/models"
)

var (
	biologyKeywords   = []string{"cell", "organism", "protein", "dna", "gene", "biology", "genetics", "ecology", "bacteria", "virus"}
	chemistryKeywords = []string{"atom", "element", "compound", "molecule", "reaction", "chemistry", "acid", "base"}
	physicsKeywords   = []string{"force", "energy", "work", "power", "physics", "motion", "velocity", "acceleration"}
)

// Classify assigns a category by keyword substring match. Lists are checked
// in the order biology, chemistry, physics; the first hit wins.
func Classify(english string) models.Category {
	term := strings.ToLower(english)
	switch {
	case containsAny(term, biologyKeywords):
		return models.CategoryBiology
	case containsAny(term, chemistryKeywords):
		return models.CategoryChemistry
	case containsAny(term, physicsKeywords):
		return models.CategoryPhysics
	default:
		return models.CategoryGeneral
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
