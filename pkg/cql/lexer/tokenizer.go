package lexer

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"mercator-hq/saturn/pkg/cql/grammar"
)

// Tokenizer scans source text under one grammar definition.
type Tokenizer struct {
	grammar          *grammar.Definition
	dateTimeCategory Category
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithDateTimeCategory reports datetime literals as CategoryDateTime
// instead of CategoryString.
func WithDateTimeCategory() Option {
	return func(t *Tokenizer) {
		t.dateTimeCategory = CategoryDateTime
	}
}

// New creates a tokenizer for def.
func New(def *grammar.Definition, opts ...Option) *Tokenizer {
	t := &Tokenizer{
		grammar:          def,
		dateTimeCategory: CategoryString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Grammar returns the definition the tokenizer is bound to.
func (t *Tokenizer) Grammar() *grammar.Definition {
	return t.grammar
}

// Tokens returns a lazy sequence of the tokens in src. The sequence may be
// iterated any number of times and always yields the same tokens.
func (t *Tokenizer) Tokens(src string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		pos := 0
		for pos < len(src) {
			tok, next, ok := t.scan(src, pos)
			pos = next
			if ok && !yield(tok) {
				return
			}
		}
	}
}

// Tokenize returns all tokens in src.
func (t *Tokenizer) Tokenize(src string) []Token {
	// Rough guess: one token per five bytes
	tokens := make([]Token, 0, len(src)/5+1)
	for tok := range t.Tokens(src) {
		tokens = append(tokens, tok)
	}
	return tokens
}

// Tokenize scans src under def with default options.
func Tokenize(src string, def *grammar.Definition) []Token {
	return New(def).Tokenize(src)
}

// scan applies the rules at pos. It returns the token (if any), the offset
// to continue from, and whether a token was produced. next is always > pos.
func (t *Tokenizer) scan(src string, pos int) (Token, int, bool) {
	rest := src[pos:]
	emit := func(c Category, n int) (Token, int, bool) {
		return Token{Category: c, Lexeme: src[pos : pos+n], Start: pos, End: pos + n}, pos + n, true
	}

	r, size := utf8.DecodeRuneInString(rest)
	if unicode.IsSpace(r) {
		return Token{}, pos + size, false
	}

	if strings.HasPrefix(rest, "//") {
		n := strings.IndexByte(rest, '\n')
		if n < 0 {
			n = len(rest)
		}
		return emit(CategoryComment, n)
	}

	if strings.HasPrefix(rest, "/*") {
		n := strings.Index(rest[2:], "*/")
		if n < 0 {
			n = len(rest)
		} else {
			n += 4
		}
		return emit(CategoryComment, n)
	}

	p := t.grammar.Patterns()

	if n := p.String.MatchPrefix(rest); n > 0 {
		return emit(CategoryString, n)
	}
	if n := p.Number.MatchPrefix(rest); n > 0 {
		return emit(CategoryNumber, n)
	}
	if n := p.DateTime.MatchPrefix(rest); n > 0 {
		return emit(t.dateTimeCategory, n)
	}

	// Rules 7-9 look the scanned word up in precomputed sets, which gives
	// whole-word matching for free: "ending" never matches "end".
	word := p.Identifier.MatchPrefix(rest)
	if word > 0 {
		w := rest[:word]
		switch {
		case t.grammar.IsKeyword(w):
			return emit(CategoryKeyword, word)
		case t.grammar.IsFunction(w):
			return emit(CategoryFunction, word)
		case t.grammar.IsDataType(w):
			return emit(CategoryDataType, word)
		}
	}

	if n := t.grammar.MatchOperator(rest); n > 0 {
		return emit(CategoryOperator, n)
	}

	switch rest[0] {
	case '{', '}', '[', ']', '(', ')':
		return emit(CategoryBracket, 1)
	case ';', ',', '.', ':':
		return emit(CategoryPunctuation, 1)
	}

	if word > 0 {
		return emit(CategoryIdentifier, word)
	}

	// Unclassified: skip one character to guarantee progress.
	return Token{}, pos + size, false
}
