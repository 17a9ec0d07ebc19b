package cql

import (
	"mercator-hq/saturn/pkg/cql/completion"
	"mercator-hq/saturn/pkg/cql/grammar"
	"mercator-hq/saturn/pkg/cql/lexer"
	"mercator-hq/saturn/pkg/cql/validator"
	"mercator-hq/saturn/pkg/cql/versions"
)

// DefaultVersion is the grammar version used when none is requested.
const DefaultVersion = grammar.DefaultVersion

// SupportedVersions returns the built-in grammar versions.
func SupportedVersions() []string {
	return grammar.Default().SupportedVersions()
}

// Tokenize scans src with the built-in grammar for version.
func Tokenize(src, version string) ([]lexer.Token, error) {
	def, err := grammar.Default().Get(version)
	if err != nil {
		return nil, err
	}
	return lexer.Tokenize(src, def), nil
}

// Validate checks the bracket structure of src. It does not depend on the
// grammar version.
func Validate(src string) validator.Result {
	return validator.NewStructuralValidator().Validate(src)
}

// Complete returns completion items for prefix under version.
func Complete(prefix, version string) ([]completion.Item, error) {
	def, err := grammar.Default().Get(version)
	if err != nil {
		return nil, err
	}
	return completion.NewProvider(def).Complete(prefix), nil
}

// NewSession creates a version manager over the built-in grammars starting
// at the default version.
func NewSession(opts ...versions.Option) (*versions.Manager, error) {
	return versions.NewManager(grammar.Default(), DefaultVersion, opts...)
}
