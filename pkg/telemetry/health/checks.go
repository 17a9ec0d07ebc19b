package health

import (
	"context"
	"fmt"

	"mercator-hq/saturn/pkg/cql/grammar"
	"mercator-hq/saturn/pkg/cql/lexer"
)

// grammarProbe is tokenized by GrammarCheck. It exercises a keyword, an
// identifier, punctuation, and a number.
const grammarProbe = "define Probe: 1"

// GrammarCheck verifies that version is registered in registry and that
// its tokenizer classifies a probe expression.
func GrammarCheck(registry *grammar.Registry, version string) CheckFunc {
	return func(ctx context.Context) error {
		def, err := registry.Get(version)
		if err != nil {
			return err
		}
		tokens := lexer.Tokenize(grammarProbe, def)
		if len(tokens) == 0 || tokens[0].Category != lexer.CategoryKeyword {
			return fmt.Errorf("grammar %s does not classify %q", version, grammarProbe)
		}
		return nil
	}
}

// CapacityCheck fails once count reaches max, so load balancers stop
// sending new editor sessions to a full instance.
func CapacityCheck(count func() int, max int) CheckFunc {
	return func(ctx context.Context) error {
		if n := count(); n >= max {
			return fmt.Errorf("session capacity reached (%d/%d)", n, max)
		}
		return nil
	}
}
