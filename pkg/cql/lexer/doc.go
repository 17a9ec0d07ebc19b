// Package lexer classifies CQL source text into semantic token categories
// under a selectable grammar version.
//
// A Tokenizer is bound to one grammar.Definition. It keeps no per-call
// state, so one Tokenizer may scan any number of sources concurrently.
// Scanning is a single left-to-right pass; at each offset the first
// matching rule wins:
//
//  1. whitespace (skipped)
//  2. line comment      // ...
//  3. block comment     /* ... */ (unterminated runs to end of input)
//  4. string literal    "..." or '...' (unterminated runs to end of input)
//  5. number            42, 3.14, 10L
//  6. datetime          @2014-01-25T14:30 (reported as string by default)
//  7. keyword           whole word only
//  8. function          whole word only
//  9. data type         whole word only
//  10. operator         longest match
//  11. bracket          { } [ ] ( )
//  12. punctuation      ; , . :
//  13. identifier
//  14. anything else    one character skipped, no token
//
// Tokenizing never fails. Offsets are byte offsets into the source.
package lexer
