package validator

import "strings"

// StructuralValidator checks bracket balance over raw source text. It does
// not know about strings or comments.
type StructuralValidator struct {
	opts options
}

// NewStructuralValidator creates a structural validator.
func NewStructuralValidator(opts ...Option) *StructuralValidator {
	v := &StructuralValidator{}
	for _, opt := range opts {
		opt(&v.opts)
	}
	return v
}

// Validate checks src and returns every problem found. Empty and
// all-whitespace input is trivially valid.
func (v *StructuralValidator) Validate(src string) Result {
	if strings.TrimSpace(src) == "" {
		return Result{IsValid: true, Errors: []ValidationError{}}
	}

	c := newBracketChecker(src, v.opts)
	for i := 0; i < len(src); i++ {
		if isBracket(src[i]) {
			c.feed(src[i], i)
		}
	}
	return c.finish()
}
