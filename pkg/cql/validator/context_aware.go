package validator

import (
	"strings"

	"mercator-hq/saturn/pkg/cql/lexer"
)

// ContextAwareValidator checks bracket balance using bracket tokens only,
// so brackets inside string literals and comments are ignored.
type ContextAwareValidator struct {
	tokenizer *lexer.Tokenizer
	opts      options
}

// NewContextAwareValidator creates a validator that scans with tokenizer.
func NewContextAwareValidator(tokenizer *lexer.Tokenizer, opts ...Option) *ContextAwareValidator {
	v := &ContextAwareValidator{tokenizer: tokenizer}
	for _, opt := range opts {
		opt(&v.opts)
	}
	return v
}

// Validate checks src and returns every problem found.
func (v *ContextAwareValidator) Validate(src string) Result {
	if strings.TrimSpace(src) == "" {
		return Result{IsValid: true, Errors: []ValidationError{}}
	}

	c := newBracketChecker(src, v.opts)
	for tok := range v.tokenizer.Tokens(src) {
		if tok.Category == lexer.CategoryBracket {
			c.feed(tok.Lexeme[0], tok.Start)
		}
	}
	return c.finish()
}
