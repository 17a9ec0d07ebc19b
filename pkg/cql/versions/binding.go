package versions

import (
	"sync"

	"mercator-hq/saturn/pkg/cql/completion"
	"mercator-hq/saturn/pkg/cql/grammar"
	"mercator-hq/saturn/pkg/cql/lexer"
	"mercator-hq/saturn/pkg/cql/validator"
)

// Binding ties the analysis components to one grammar definition. The
// tokenizer, validator, and completion provider are built on first use and
// then reused for the lifetime of the binding.
type Binding struct {
	grammar *grammar.Definition
	opts    *options

	tokenizerOnce sync.Once
	tokenizer     *lexer.Tokenizer

	validatorOnce sync.Once
	validator     validator.Validator

	completionOnce sync.Once
	completion     *completion.Provider
}

func newBinding(def *grammar.Definition, opts *options) *Binding {
	return &Binding{grammar: def, opts: opts}
}

// Version returns the grammar version of the binding.
func (b *Binding) Version() string {
	return b.grammar.Version()
}

// Grammar returns the bound definition.
func (b *Binding) Grammar() *grammar.Definition {
	return b.grammar
}

// Tokenizer returns the tokenizer for the bound grammar.
func (b *Binding) Tokenizer() *lexer.Tokenizer {
	b.tokenizerOnce.Do(func() {
		var lopts []lexer.Option
		if b.opts.dateTimeCategory {
			lopts = append(lopts, lexer.WithDateTimeCategory())
		}
		b.tokenizer = lexer.New(b.grammar, lopts...)
	})
	return b.tokenizer
}

// Validator returns the structural validator configured for the session.
func (b *Binding) Validator() validator.Validator {
	b.validatorOnce.Do(func() {
		var vopts []validator.Option
		if b.opts.reportAllUnclosed {
			vopts = append(vopts, validator.WithReportAllUnclosed())
		}
		if b.opts.contextAware {
			b.validator = validator.NewContextAwareValidator(b.Tokenizer(), vopts...)
		} else {
			b.validator = validator.NewStructuralValidator(vopts...)
		}
	})
	return b.validator
}

// Completion returns the completion provider for the bound grammar.
func (b *Binding) Completion() *completion.Provider {
	b.completionOnce.Do(func() {
		b.completion = completion.NewProvider(b.grammar)
	})
	return b.completion
}
