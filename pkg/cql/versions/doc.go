// Package versions manages the active grammar version of one editor
// session.
//
// A Manager holds a single "current version" cell. Every switch creates a
// fresh Binding and publishes it with an atomic pointer swap, so a reader
// always sees a tokenizer, validator, and completion list built from the
// same grammar. Components of a Binding are built lazily on first use.
//
//	m, err := versions.NewManager(grammar.Default(), "1.5.3")
//	tokens := m.Tokenize(src)
//
//	b, err := m.SetVersion("2.0.0-ballot")
//	if errors.Is(err, grammar.ErrUnknownVersion) {
//	    // m still serves 1.5.3
//	}
//
// Managers are owned by the session that created them; there is no
// package-level current version.
package versions
