// Package source maps byte offsets in CQL source text to human-readable
// line and column positions.
package source

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Position identifies a location in a source string.
type Position struct {
	Offset int // Byte offset (0-based)
	Line   int // Line number (1-based)
	Column int // Column number in runes (1-based)
}

// String returns a human-readable representation of the position.
// Format: "line:column"
func (p Position) String() string {
	if !p.IsValid() {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid returns true if the position carries line information.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Offset >= 0
}

// LineIndex records the start offset of every line in a source string.
// Building it is linear in the source length; lookups are logarithmic in
// the number of lines.
type LineIndex struct {
	src    string
	starts []int
}

// NewLineIndex builds a line index for src.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

// Position converts a byte offset into a Position. Offsets past the end of
// the source are clamped to the end.
func (li *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.src) {
		offset = len(li.src)
	}

	// Index of the last line start <= offset.
	line := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	}) - 1

	col := utf8.RuneCountInString(li.src[li.starts[line]:offset]) + 1
	return Position{Offset: offset, Line: line + 1, Column: col}
}

// LineCount returns the number of lines in the source.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// Line returns the text of the given 1-based line without its terminator.
func (li *LineIndex) Line(n int) string {
	if n < 1 || n > len(li.starts) {
		return ""
	}
	start := li.starts[n-1]
	end := len(li.src)
	if n < len(li.starts) {
		end = li.starts[n] - 1
	}
	if end > start && li.src[end-1] == '\r' {
		end--
	}
	return li.src[start:end]
}
