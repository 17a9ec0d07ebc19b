// Package cql provides versioned lexical analysis and structural validation
// for Clinical Quality Language (CQL) source text.
//
// CQL is the HL7 expression language used to author clinical quality
// measures and decision support rules. This module does not parse CQL; it
// classifies source text into highlight tokens and checks bracket
// structure, with the vocabulary selected by grammar version.
//
// # Architecture
//
// The package is organized into subpackages:
//
// - source: byte offsets and line/column positions
// - errors: typed errors with source context and suggestions
// - grammar: versioned vocabulary definitions, registry, and grammar packs
// - lexer: the priority-ordered tokenizer
// - validator: bracket balance checking
// - completion: autocomplete items per grammar version
// - versions: the per-session current version and its atomic switch
//
// # Basic Usage
//
//	tokens, err := cql.Tokenize(src, "1.5.3")
//	if err != nil {
//	    log.Fatal(err) // unknown version
//	}
//	for _, tok := range tokens {
//	    fmt.Println(tok)
//	}
//
//	result := cql.Validate(src)
//	for _, e := range result.Errors {
//	    fmt.Println(e.Message)
//	}
//
// Editor sessions that switch versions should hold a versions.Manager
// instead of calling the package-level helpers.
package cql
