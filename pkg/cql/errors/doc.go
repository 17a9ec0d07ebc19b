// Package errors provides rich error types for the CQL analyzer.
//
// Errors carry a type, a source position, an optional excerpt of the
// surrounding source, and an optional suggestion:
//
//	[structural] Unexpected closing bracket ')' at position 4
//	  --> 1:5
//	  |
//	-> 1 | { [ ) ] }
//	     |     ^
//	  |
//
// Content problems (unbalanced brackets) are reported as data through
// ErrorList; only malformed requests, such as asking for a grammar version
// that is not registered, are returned as plain errors by the analyzer.
package errors
