// Saturn is a versioned lexical analyzer and structural validator for
// Clinical Quality Language (CQL).
//
// It tokenizes CQL under a selectable grammar version, checks bracket
// structure, lists completions, and serves the same analysis over HTTP for
// browser-based editors.
//
// Usage:
//
//	# Check bracket structure of every .cql file under a directory
//	saturn lint --dir measures/
//
//	# Show tokens of a file under a specific grammar version
//	saturn tokens --version 1.4.0 measure.cql
//
//	# List completions starting with a prefix
//	saturn complete Date
//
//	# Re-lint files as they change
//	saturn watch measures/
//
//	# Start the analysis service
//	saturn serve --config saturn.yaml
package main

import "os"

func main() {
	os.Exit(Execute())
}
