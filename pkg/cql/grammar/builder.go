package grammar

import (
	"fmt"
	"strings"
)

// Builder assembles a Definition. Builders are not safe for concurrent use;
// the Definition they produce is.
type Builder struct {
	version   string
	extends   string
	keywords  []string
	functions []string
	dataTypes []string
	operators []string
	patterns  Patterns
	quotes    string
}

// NewBuilder creates a builder for the given version with the default
// CQL lexical patterns.
func NewBuilder(version string) *Builder {
	return &Builder{
		version:  version,
		patterns: DefaultPatterns(),
		quotes:   DefaultStringQuotes,
	}
}

// Extend copies the vocabulary, patterns, and quotes of base into the builder.
func (b *Builder) Extend(base *Definition) *Builder {
	b.extends = base.version
	b.keywords = append(b.keywords, base.Keywords()...)
	b.functions = append(b.functions, base.Functions()...)
	b.dataTypes = append(b.dataTypes, base.DataTypes()...)
	b.operators = append(b.operators, base.Operators()...)
	b.patterns = base.patterns
	b.quotes = base.stringQuotes
	return b
}

// Keywords adds keywords.
func (b *Builder) Keywords(words ...string) *Builder {
	b.keywords = append(b.keywords, words...)
	return b
}

// Functions adds built-in function names.
func (b *Builder) Functions(words ...string) *Builder {
	b.functions = append(b.functions, words...)
	return b
}

// DataTypes adds data type names.
func (b *Builder) DataTypes(words ...string) *Builder {
	b.dataTypes = append(b.dataTypes, words...)
	return b
}

// Operators adds operator lexemes.
func (b *Builder) Operators(ops ...string) *Builder {
	b.operators = append(b.operators, ops...)
	return b
}

// WithoutKeywords removes keywords added so far.
func (b *Builder) WithoutKeywords(words ...string) *Builder {
	b.keywords = remove(b.keywords, words)
	return b
}

// WithoutFunctions removes function names added so far.
func (b *Builder) WithoutFunctions(words ...string) *Builder {
	b.functions = remove(b.functions, words)
	return b
}

// WithoutDataTypes removes data type names added so far.
func (b *Builder) WithoutDataTypes(words ...string) *Builder {
	b.dataTypes = remove(b.dataTypes, words)
	return b
}

// WithPattern replaces one of the lexical patterns.
func (b *Builder) WithPattern(kind PatternKind, p Pattern) *Builder {
	switch kind {
	case PatternString:
		b.patterns.String = p
	case PatternNumber:
		b.patterns.Number = p
	case PatternDateTime:
		b.patterns.DateTime = p
	case PatternIdentifier:
		b.patterns.Identifier = p
	}
	return b
}

// WithStringQuotes sets the characters that open a string literal and
// resets the string pattern to match them.
func (b *Builder) WithStringQuotes(quotes string) *Builder {
	b.quotes = quotes
	b.patterns.String = StringPattern{Quotes: quotes}
	return b
}

// Build validates the collected vocabulary and returns an immutable Definition.
// Duplicate entries are harmless and collapse into one.
func (b *Builder) Build() (*Definition, error) {
	if strings.TrimSpace(b.version) == "" {
		return nil, &DefinitionError{Version: b.version, Message: "version must not be empty"}
	}

	if b.patterns.String == nil || b.patterns.Number == nil ||
		b.patterns.DateTime == nil || b.patterns.Identifier == nil {
		return nil, &DefinitionError{Version: b.version, Field: "patterns", Message: "all four lexical patterns are required"}
	}

	def := &Definition{
		version:      b.version,
		extends:      b.extends,
		keywords:     make(map[string]struct{}, len(b.keywords)),
		functions:    make(map[string]struct{}, len(b.functions)),
		dataTypes:    make(map[string]struct{}, len(b.dataTypes)),
		operators:    make(map[string]struct{}, len(b.operators)),
		patterns:     b.patterns,
		stringQuotes: b.quotes,
	}

	vocab := []struct {
		field string
		words []string
		set   map[string]struct{}
	}{
		{"keywords", b.keywords, def.keywords},
		{"functions", b.functions, def.functions},
		{"data_types", b.dataTypes, def.dataTypes},
	}

	// Vocabulary lookup is keyed by the scanned identifier, so every entry
	// must be exactly one identifier.
	for _, v := range vocab {
		for _, w := range v.words {
			if w == "" || b.patterns.Identifier.MatchPrefix(w) != len(w) {
				return nil, &DefinitionError{
					Version: b.version,
					Field:   v.field,
					Message: fmt.Sprintf("%q is not a single identifier", w),
				}
			}
			v.set[w] = struct{}{}
		}
	}

	for _, op := range b.operators {
		if !isOperatorLexeme(op) {
			return nil, &DefinitionError{
				Version: b.version,
				Field:   "operators",
				Message: fmt.Sprintf("%q is not a valid operator lexeme", op),
			}
		}
		def.operators[op] = struct{}{}
		def.maxOperatorLen = max(def.maxOperatorLen, len(op))
	}

	return def, nil
}

// MustBuild is like Build but panics on error. It is intended for
// built-in definitions.
func (b *Builder) MustBuild() *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

func remove(list, drop []string) []string {
	if len(drop) == 0 {
		return list
	}
	skip := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		skip[d] = struct{}{}
	}
	out := list[:0]
	for _, w := range list {
		if _, ok := skip[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}
