// Package grammar defines the lexical vocabulary of each supported CQL
// language version and the registry that holds them.
//
// A Definition is an immutable bundle of keywords, functions, data types,
// operators, and the lexical patterns used to recognize string, number,
// datetime, and identifier literals. Definitions are built with a Builder
// and registered once at startup; after Freeze the registry is read-only
// and safe for any number of concurrent readers.
//
// # Basic Usage
//
//	reg := grammar.Default()
//	def, err := reg.Get("1.5.3")
//	if errors.Is(err, grammar.ErrUnknownVersion) {
//	    // keep the previous version
//	}
//
// # String Literals
//
// Both double and single quotes open a string literal (DefaultStringQuotes),
// so a quoted identifier such as "Initial Population" and a text literal
// such as 'mg' are both classified as strings. A backslash escapes the next
// character, and a literal left open runs to the end of the source. Packs
// can narrow the set with string_quotes.
//
// # Grammar Packs
//
// Additional versions can be described in YAML or TOML files and loaded at
// startup:
//
//	version: "1.5.3-site"
//	extends: "1.5.3"
//	keywords: [ "sourcedata" ]
//	functions: [ "LocalAgeInYears" ]
//	operators: [ "=>" ]
//	string_quotes: "'"
//	patterns:
//	  number: '[0-9]+(\.[0-9]+)?[LlDd]?'
//
//	packs, err := grammar.LoadPackDir("grammars/")
//	reg, err := grammar.NewRegistryWithPacks(packs)
package grammar
