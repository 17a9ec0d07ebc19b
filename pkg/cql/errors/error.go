package errors

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"

	"mercator-hq/saturn/pkg/cql/source"
)

// ErrorType categorizes the type of error encountered during analysis.
type ErrorType string

const (
	ErrorTypeVersion    ErrorType = "version"    // Unknown grammar version
	ErrorTypeStructural ErrorType = "structural" // Bracket nesting problem
	ErrorTypeGrammar    ErrorType = "grammar"    // Invalid grammar definition or pack
	ErrorTypeIO         ErrorType = "io"         // File I/O error
)

// Error is one analyzer problem, optionally tied to a source position.
type Error struct {
	Type       ErrorType
	Message    string
	Position   source.Position // zero when the problem has no location
	Context    string          // excerpt from ExtractContext, if attached
	Suggestion string
}

// Error renders the problem with its position, excerpt, and suggestion on
// separate lines.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s\n", e.Type, e.Message)
	if e.Position.IsValid() {
		fmt.Fprintf(&sb, "  --> %s\n", e.Position)
	}
	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, "  = suggestion: %s\n", e.Suggestion)
	}
	return sb.String()
}

// ErrorList accumulates problems found in one pass over a source. It
// implements Unwrap() []error so errors.As can reach individual entries.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList returns an empty list.
func NewErrorList() *ErrorList {
	return &ErrorList{Errors: []*Error{}}
}

// Add appends err.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError appends a problem of the given type at pos.
func (el *ErrorList) AddError(errType ErrorType, message string, pos source.Position) {
	el.Add(&Error{Type: errType, Message: message, Position: pos})
}

// AddErrorWithSuggestion appends a problem carrying a fix hint.
func (el *ErrorList) AddErrorWithSuggestion(errType ErrorType, message string, pos source.Position, suggestion string) {
	el.Add(&Error{Type: errType, Message: message, Position: pos, Suggestion: suggestion})
}

// Len returns the number of problems.
func (el *ErrorList) Len() int {
	return len(el.Errors)
}

// All yields the problems of errType, or every problem when errType is
// empty.
func (el *ErrorList) All(errType ErrorType) iter.Seq[*Error] {
	return func(yield func(*Error) bool) {
		for _, e := range el.Errors {
			if errType != "" && e.Type != errType {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Has reports whether any problem is of errType.
func (el *ErrorList) Has(errType ErrorType) bool {
	return slices.ContainsFunc(el.Errors, func(e *Error) bool { return e.Type == errType })
}

// SortByPosition orders problems by source offset. Problems without a
// position go last; ties keep their insertion order.
func (el *ErrorList) SortByPosition() {
	slices.SortStableFunc(el.Errors, func(a, b *Error) int {
		av, bv := a.Position.IsValid(), b.Position.IsValid()
		switch {
		case av && bv:
			return cmp.Compare(a.Position.Offset, b.Position.Offset)
		case av:
			return -1
		case bv:
			return 1
		}
		return 0
	})
}

// Error lists every problem, numbered.
func (el *ErrorList) Error() string {
	if el.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d problem(s):\n", el.Len())
	for i, err := range el.Errors {
		fmt.Fprintf(&sb, "\n#%d ", i+1)
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes the entries to errors.Is and errors.As.
func (el *ErrorList) Unwrap() []error {
	out := make([]error, len(el.Errors))
	for i, e := range el.Errors {
		out[i] = e
	}
	return out
}

// ToError returns nil for an empty list and the list otherwise.
func (el *ErrorList) ToError() error {
	if el.Len() == 0 {
		return nil
	}
	return el
}

// WithSourceContext fills in the Context of every error from src.
func (el *ErrorList) WithSourceContext(src string, contextLines int) *ErrorList {
	idx := source.NewLineIndex(src)
	for _, err := range el.Errors {
		err.Context = extractContext(idx, err.Position, contextLines)
	}
	return el
}
