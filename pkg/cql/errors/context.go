package errors

import (
	"fmt"
	"strings"

	"mercator-hq/saturn/pkg/cql/source"
)

// ExtractContext renders the lines of src surrounding pos, marking the
// error line with an arrow and the error column with a caret.
func ExtractContext(src string, pos source.Position, contextLines int) string {
	return extractContext(source.NewLineIndex(src), pos, contextLines)
}

func extractContext(idx *source.LineIndex, pos source.Position, contextLines int) string {
	if !pos.IsValid() || pos.Line > idx.LineCount() {
		return ""
	}

	errorLine := pos.Line
	startLine := max(errorLine-contextLines, 1)
	endLine := min(errorLine+contextLines, idx.LineCount())

	var sb strings.Builder
	maxLineNumWidth := len(fmt.Sprintf("%d", endLine))

	for n := startLine; n <= endLine; n++ {
		lineNumStr := fmt.Sprintf("%*d", maxLineNumWidth, n)
		prefix := "  "
		if n == errorLine {
			prefix = "->"
		}

		sb.WriteString(fmt.Sprintf("%s %s | %s\n", prefix, lineNumStr, idx.Line(n)))

		if n == errorLine && pos.Column > 0 {
			padding := strings.Repeat(" ", pos.Column-1)
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", maxLineNumWidth), padding))
		}
	}

	return sb.String()
}

// WithContext fills in the context of err from src.
func WithContext(err *Error, src string, contextLines int) *Error {
	if err.Position.IsValid() {
		err.Context = ExtractContext(src, err.Position, contextLines)
	}
	return err
}

// AddContextToError adds two lines of context on each side of the error.
func AddContextToError(err *Error, src string) *Error {
	return WithContext(err, src, 2)
}
