package grammar

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Definition is the immutable lexical vocabulary of one CQL language
// version. All methods are safe for concurrent use.
type Definition struct {
	version string
	extends string

	keywords  map[string]struct{}
	functions map[string]struct{}
	dataTypes map[string]struct{}

	operators      map[string]struct{}
	maxOperatorLen int

	patterns     Patterns
	stringQuotes string
}

// Version returns the version identifier.
func (d *Definition) Version() string {
	return d.version
}

// Extends returns the version this definition was derived from, if any.
func (d *Definition) Extends() string {
	return d.extends
}

// Keywords returns the keywords in sorted order.
func (d *Definition) Keywords() []string {
	return sortedKeys(d.keywords)
}

// Functions returns the built-in function names in sorted order.
func (d *Definition) Functions() []string {
	return sortedKeys(d.functions)
}

// DataTypes returns the data type names in sorted order.
func (d *Definition) DataTypes() []string {
	return sortedKeys(d.dataTypes)
}

// Operators returns the operator lexemes in sorted order.
func (d *Definition) Operators() []string {
	return sortedKeys(d.operators)
}

// IsKeyword reports whether word is a keyword. Matching is case-sensitive.
func (d *Definition) IsKeyword(word string) bool {
	_, ok := d.keywords[word]
	return ok
}

// IsFunction reports whether word is a built-in function name.
func (d *Definition) IsFunction(word string) bool {
	_, ok := d.functions[word]
	return ok
}

// IsDataType reports whether word is a data type name.
func (d *Definition) IsDataType(word string) bool {
	_, ok := d.dataTypes[word]
	return ok
}

// MatchOperator returns the length of the longest operator that s starts
// with, or 0. Cost is bounded by the longest operator, not by the number
// of operators.
func (d *Definition) MatchOperator(s string) int {
	for l := min(d.maxOperatorLen, len(s)); l > 0; l-- {
		if _, ok := d.operators[s[:l]]; ok {
			return l
		}
	}
	return 0
}

// Patterns returns the lexical patterns.
func (d *Definition) Patterns() Patterns {
	return d.patterns
}

// StringQuotes returns the characters that open a string literal.
func (d *Definition) StringQuotes() string {
	return d.stringQuotes
}

// VocabularySize returns the total number of keywords, functions, and data types.
func (d *Definition) VocabularySize() int {
	return len(d.keywords) + len(d.functions) + len(d.dataTypes)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// isOperatorLexeme reports whether op can be scanned as an operator: it must
// not be empty, contain whitespace, or start with a word character.
func isOperatorLexeme(op string) bool {
	if op == "" || strings.IndexFunc(op, unicode.IsSpace) >= 0 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(op)
	return !isWordRune(r)
}
