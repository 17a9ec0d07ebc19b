package grammar

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pattern recognizes a lexeme at the start of the remaining input.
// MatchPrefix returns the number of bytes consumed, or 0 when s does not
// start with a match. Implementations must be safe for concurrent use.
type Pattern interface {
	MatchPrefix(s string) int
}

// PatternFunc adapts an ordinary function to the Pattern interface.
type PatternFunc func(s string) int

// MatchPrefix calls f(s).
func (f PatternFunc) MatchPrefix(s string) int {
	return f(s)
}

// PatternKind names one of the lexical patterns of a Definition.
type PatternKind string

const (
	PatternString     PatternKind = "string"
	PatternNumber     PatternKind = "number"
	PatternDateTime   PatternKind = "datetime"
	PatternIdentifier PatternKind = "identifier"
)

// Patterns holds the lexical patterns of a grammar.
type Patterns struct {
	String     Pattern
	Number     Pattern
	DateTime   Pattern
	Identifier Pattern
}

// DefaultStringQuotes are the characters that open a string literal.
const DefaultStringQuotes = `"'`

// DefaultPatterns returns the built-in CQL lexical patterns.
func DefaultPatterns() Patterns {
	return Patterns{
		String:     StringPattern{Quotes: DefaultStringQuotes},
		Number:     NumberPattern,
		DateTime:   DateTimePattern,
		Identifier: IdentifierPattern,
	}
}

// StringPattern matches a quoted literal. A backslash escapes the next
// character. An unterminated literal runs to the end of the input.
type StringPattern struct {
	Quotes string
}

// MatchPrefix implements Pattern.
func (p StringPattern) MatchPrefix(s string) int {
	if s == "" || strings.IndexByte(p.Quotes, s[0]) < 0 {
		return 0
	}
	quote := s[0]
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(s)
}

// NumberPattern matches digits, an optional fractional part, and an
// optional long suffix: 42, 3.14, 10L.
var NumberPattern = PatternFunc(func(s string) int {
	n := countDigits(s)
	if n == 0 {
		return 0
	}
	if n < len(s) && s[n] == '.' {
		if frac := countDigits(s[n+1:]); frac > 0 {
			n += 1 + frac
		}
	}
	if n < len(s) && s[n] == 'L' {
		n++
	}
	return n
})

// DateTimePattern matches @-prefixed date, datetime, and time literals:
// @2014, @2014-01-25, @2014-01-25T14:30:14.559+01:00, @T12:00:00.
var DateTimePattern = PatternFunc(func(s string) int {
	if len(s) < 2 || s[0] != '@' {
		return 0
	}

	if s[1] == 'T' {
		n := matchTime(s[2:])
		if n == 0 {
			return 0
		}
		return 2 + n
	}

	n := matchDate(s[1:])
	if n == 0 {
		return 0
	}
	n++

	if n < len(s) && s[n] == 'T' {
		n++
		n += matchTime(s[n:])
		n += matchZone(s[n:])
	}
	return n
})

// IdentifierPattern matches a letter or underscore followed by letters,
// digits, or underscores.
var IdentifierPattern = PatternFunc(func(s string) int {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !(r == '_' || unicode.IsLetter(r)) {
		return 0
	}
	n := size
	for n < len(s) {
		r, size = utf8.DecodeRuneInString(s[n:])
		if !isWordRune(r) {
			break
		}
		n += size
	}
	return n
})

// RegexpPattern matches a regular expression anchored at the start of the
// remaining input. Go regular expressions run in linear time, so a grammar
// pack cannot make scanning super-linear.
type RegexpPattern struct {
	re *regexp.Regexp
}

// NewRegexpPattern compiles expr as an anchored pattern.
func NewRegexpPattern(expr string) (*RegexpPattern, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	return &RegexpPattern{re: re}, nil
}

// MatchPrefix implements Pattern.
func (p *RegexpPattern) MatchPrefix(s string) int {
	loc := p.re.FindStringIndex(s)
	if loc == nil {
		return 0
	}
	return loc[1]
}

// String returns the anchored expression.
func (p *RegexpPattern) String() string {
	return p.re.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// fixedDigits reports whether s starts with exactly-n ASCII digits.
func fixedDigits(s string, n int) bool {
	if len(s) < n {
		return false
	}
	return countDigits(s[:n]) == n
}

// matchDate matches YYYY(-MM(-DD)?)?.
func matchDate(s string) int {
	if !fixedDigits(s, 4) {
		return 0
	}
	n := 4
	if len(s) > n+2 && s[n] == '-' && fixedDigits(s[n+1:], 2) {
		n += 3
		if len(s) > n+2 && s[n] == '-' && fixedDigits(s[n+1:], 2) {
			n += 3
		}
	}
	return n
}

// matchTime matches hh(:mm(:ss(.fff)?)?)?.
func matchTime(s string) int {
	if !fixedDigits(s, 2) {
		return 0
	}
	n := 2
	if len(s) > n+2 && s[n] == ':' && fixedDigits(s[n+1:], 2) {
		n += 3
		if len(s) > n+2 && s[n] == ':' && fixedDigits(s[n+1:], 2) {
			n += 3
			if len(s) > n+1 && s[n] == '.' {
				if frac := countDigits(s[n+1:]); frac > 0 {
					n += 1 + frac
				}
			}
		}
	}
	return n
}

// matchZone matches Z or (+|-)hh:mm.
func matchZone(s string) int {
	if s == "" {
		return 0
	}
	if s[0] == 'Z' {
		return 1
	}
	if (s[0] == '+' || s[0] == '-') && len(s) >= 6 && fixedDigits(s[1:], 2) && s[3] == ':' && fixedDigits(s[4:], 2) {
		return 6
	}
	return 0
}
