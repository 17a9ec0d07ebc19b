package validator

import (
	"fmt"

	cqlerrors "mercator-hq/saturn/pkg/cql/errors"
	"mercator-hq/saturn/pkg/cql/source"
)

// Validator verifies the structure of CQL source.
type Validator interface {
	Validate(src string) Result
}

// BracketKind tells whether a bracket opens or closes a group.
type BracketKind string

const (
	BracketOpening BracketKind = "opening"
	BracketClosing BracketKind = "closing"
)

// ValidationError describes one structural problem.
type ValidationError struct {
	// Message is a human-readable description naming the bracket, its kind,
	// and its position.
	Message string `json:"message"`

	// Position is where the offending bracket sits.
	Position source.Position `json:"position"`

	// Char is the offending bracket character.
	Char string `json:"char"`

	// Kind is the offending bracket's kind.
	Kind BracketKind `json:"kind"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// Result is the outcome of one validation call.
type Result struct {
	IsValid bool              `json:"isValid"`
	Errors  []ValidationError `json:"errors"`
}

// Messages returns the error messages in order.
func (r Result) Messages() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Message
	}
	return out
}

// ToError converts the result into an error list of structural errors,
// or nil when the source is valid.
func (r Result) ToError() error {
	if r.IsValid {
		return nil
	}
	el := cqlerrors.NewErrorList()
	for _, e := range r.Errors {
		el.AddError(cqlerrors.ErrorTypeStructural, e.Message, e.Position)
	}
	return el
}

// Option configures a validator.
type Option func(*options)

type options struct {
	reportAllUnclosed bool
}

// WithReportAllUnclosed reports every bracket left open at the end of the
// input instead of only the earliest one.
func WithReportAllUnclosed() Option {
	return func(o *options) {
		o.reportAllUnclosed = true
	}
}

// closerFor maps each opening bracket to its closing bracket.
var closerFor = map[byte]byte{
	'{': '}',
	'[': ']',
	'(': ')',
}

// openerFor maps each closing bracket to its opening bracket.
var openerFor = map[byte]byte{
	'}': '{',
	']': '[',
	')': '(',
}

type pending struct {
	char   byte
	offset int
}

// bracketChecker runs the nesting algorithm over a stream of bracket
// occurrences. Non-bracket bytes must not be fed to it.
type bracketChecker struct {
	opts   options
	lines  *source.LineIndex
	stack  []pending
	errors []ValidationError
}

func newBracketChecker(src string, opts options) *bracketChecker {
	return &bracketChecker{
		opts:  opts,
		lines: source.NewLineIndex(src),
	}
}

func (c *bracketChecker) feed(ch byte, offset int) {
	if _, ok := closerFor[ch]; ok {
		c.stack = append(c.stack, pending{char: ch, offset: offset})
		return
	}

	want, ok := openerFor[ch]
	if !ok {
		return
	}

	if len(c.stack) == 0 {
		c.addError(ch, BracketClosing, offset,
			fmt.Sprintf("Unexpected closing bracket '%c' at position %d", ch, offset))
		return
	}

	top := c.stack[len(c.stack)-1]
	if top.char != want {
		// The stray closer is dropped; the pending opener stays so that a
		// single stray bracket yields a single error.
		c.addError(ch, BracketClosing, offset,
			fmt.Sprintf("Mismatched closing bracket '%c' at position %d, expected '%c' to close '%c' at position %d",
				ch, offset, closerFor[top.char], top.char, top.offset))
		return
	}
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *bracketChecker) finish() Result {
	if len(c.stack) > 0 {
		unclosed := c.stack[:1]
		if c.opts.reportAllUnclosed {
			unclosed = c.stack
		}
		for _, p := range unclosed {
			c.addError(p.char, BracketOpening, p.offset,
				fmt.Sprintf("Unclosed opening bracket '%c' at position %d at the end of the code", p.char, p.offset))
		}
	}

	if c.errors == nil {
		c.errors = []ValidationError{}
	}
	return Result{
		IsValid: len(c.errors) == 0,
		Errors:  c.errors,
	}
}

func (c *bracketChecker) addError(ch byte, kind BracketKind, offset int, msg string) {
	c.errors = append(c.errors, ValidationError{
		Message:  msg,
		Position: c.lines.Position(offset),
		Char:     string(rune(ch)),
		Kind:     kind,
	})
}

// isBracket reports whether ch is one of { } [ ] ( ).
func isBracket(ch byte) bool {
	switch ch {
	case '{', '}', '[', ']', '(', ')':
		return true
	}
	return false
}
