// Package completion derives autocomplete suggestions from a grammar
// definition: keywords first, then functions, then data types.
package completion

import (
	"strings"

	cqlerrors "mercator-hq/saturn/pkg/cql/errors"
	"mercator-hq/saturn/pkg/cql/grammar"
)

// Category is the vocabulary class of a completion item.
type Category string

const (
	CategoryKeyword  Category = "keyword"
	CategoryFunction Category = "function"
	CategoryDataType Category = "dataType"
)

// Priorities. Higher sorts first.
const (
	PriorityKeyword  = 3
	PriorityFunction = 2
	PriorityDataType = 1
)

// Item is one autocomplete suggestion.
type Item struct {
	Label       string   `json:"label"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Priority    int      `json:"priority"`
}

// Provider holds the precomputed suggestion list for one grammar.
// It is immutable and safe for concurrent use.
type Provider struct {
	version string
	items   []Item
	words   []string
}

// NewProvider builds the suggestion list for def.
func NewProvider(def *grammar.Definition) *Provider {
	groups := []struct {
		words       []string
		category    Category
		description string
		priority    int
	}{
		{def.Keywords(), CategoryKeyword, "CQL keyword", PriorityKeyword},
		{def.Functions(), CategoryFunction, "CQL function", PriorityFunction},
		{def.DataTypes(), CategoryDataType, "CQL data type", PriorityDataType},
	}

	p := &Provider{
		version: def.Version(),
		items:   make([]Item, 0, def.VocabularySize()),
		words:   make([]string, 0, def.VocabularySize()),
	}
	for _, g := range groups {
		for _, w := range g.words {
			p.items = append(p.items, Item{
				Label:       w,
				Category:    g.category,
				Description: g.description,
				Priority:    g.priority,
			})
			p.words = append(p.words, w)
		}
	}
	return p
}

// Version returns the grammar version the list was built from.
func (p *Provider) Version() string {
	return p.version
}

// Items returns the full suggestion list in priority order.
func (p *Provider) Items() []Item {
	out := make([]Item, len(p.items))
	copy(out, p.items)
	return out
}

// Complete returns the items whose label starts with prefix, ignoring case,
// in priority order. An empty prefix returns every item.
func (p *Provider) Complete(prefix string) []Item {
	if prefix == "" {
		return p.Items()
	}
	lower := strings.ToLower(prefix)
	out := make([]Item, 0)
	for _, it := range p.items {
		if strings.HasPrefix(strings.ToLower(it.Label), lower) {
			out = append(out, it)
		}
	}
	return out
}

// Suggest returns the vocabulary word closest to word, for "did you mean"
// hints. It returns "" when nothing is close.
func (p *Provider) Suggest(word string) string {
	return cqlerrors.SuggestWord(word, p.words)
}
