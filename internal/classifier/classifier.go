// Package classifier assigns ticket categories by keyword scoring.
package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DefaultCategory is returned when no keyword set matches.
const DefaultCategory = "General"

// Category pairs a category name with its keyword set. Order matters:
// ties between equal scores resolve to the earlier category.
type Category struct {
	Name     string
	Keywords []string
}

// Classifier scores free text against configured keyword sets. It is
// built once at startup and safe for concurrent use; the category list
// is never mutated after construction.
type Classifier struct {
	categories []Category
}

// New builds a classifier from an ordered category list.
func New(categories []Category) *Classifier {
	return &Classifier{categories: categories}
}

// Load reads a JSON object mapping category name to keyword array,
// preserving the order keys appear in the file. A plain map unmarshal
// would lose that order, so the object is walked token by token.
func Load(path string) (*Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyword config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read keyword config: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("keyword config: expected JSON object, got %v", tok)
	}

	var categories []Category
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read keyword config: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("keyword config: non-string key %v", keyTok)
		}
		var keywords []string
		if err := dec.Decode(&keywords); err != nil {
			return nil, fmt.Errorf("keyword config: keywords for %q: %w", name, err)
		}
		categories = append(categories, Category{Name: name, Keywords: keywords})
	}

	return New(categories), nil
}

// Classify returns the category whose keywords score highest against
// the case-folded input. Matching is substring, not word-boundary, so a
// keyword inside a longer word still counts. Zero hits everywhere, or
// empty input, yields DefaultCategory. Ties keep the first-configured
// category because only a strictly higher score replaces the best.
func (c *Classifier) Classify(text string) string {
	lowered := strings.ToLower(text)
	best := ""
	bestScore := 0
	for _, cat := range c.categories {
		score := 0
		for _, kw := range cat.Keywords {
			if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = cat.Name
		}
	}
	if best == "" {
		return DefaultCategory
	}
	return best
}

// Categories returns the configured category names in order.
func (c *Classifier) Categories() []string {
	names := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		names = append(names, cat.Name)
	}
	return names
}
