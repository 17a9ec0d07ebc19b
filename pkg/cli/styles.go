package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mercator-hq/saturn/pkg/cql/lexer"
)

// Palette for token categories, close to common editor themes.
var (
	colorKeyword     = lipgloss.Color("#C678DD")
	colorFunction    = lipgloss.Color("#61AFEF")
	colorDataType    = lipgloss.Color("#E5C07B")
	colorString      = lipgloss.Color("#98C379")
	colorNumber      = lipgloss.Color("#D19A66")
	colorComment     = lipgloss.Color("#7F848E")
	colorOperator    = lipgloss.Color("#56B6C2")
	colorPunctuation = lipgloss.Color("#ABB2BF")
	colorError       = lipgloss.Color("#EF4444")
	colorSuccess     = lipgloss.Color("#10B981")
	colorMuted       = lipgloss.Color("#6B7280")
)

// styles holds the rendered styles of one printer.
type styles struct {
	category map[lexer.Category]lipgloss.Style
	plain    lipgloss.Style
	header   lipgloss.Style
	cell     lipgloss.Style
	border   lipgloss.Style
	ok       lipgloss.Style
	bad      lipgloss.Style
	muted    lipgloss.Style
}

// newStyles builds styles bound to r. Without color every style renders
// its input unchanged apart from table padding.
func newStyles(r *lipgloss.Renderer, color bool) styles {
	base := r.NewStyle()
	s := styles{
		category: make(map[lexer.Category]lipgloss.Style),
		plain:    base,
		header:   base.Padding(0, 1),
		cell:     base.Padding(0, 1),
		border:   base,
		ok:       base,
		bad:      base,
		muted:    base,
	}
	if !color {
		return s
	}

	s.header = s.header.Bold(true)
	s.border = base.Foreground(colorMuted)
	s.ok = base.Foreground(colorSuccess).Bold(true)
	s.bad = base.Foreground(colorError).Bold(true)
	s.muted = base.Foreground(colorMuted)

	for cat, c := range map[lexer.Category]lipgloss.Color{
		lexer.CategoryKeyword:     colorKeyword,
		lexer.CategoryFunction:    colorFunction,
		lexer.CategoryDataType:    colorDataType,
		lexer.CategoryString:      colorString,
		lexer.CategoryDateTime:    colorString,
		lexer.CategoryNumber:      colorNumber,
		lexer.CategoryComment:     colorComment,
		lexer.CategoryOperator:    colorOperator,
		lexer.CategoryPunctuation: colorPunctuation,
		lexer.CategoryBracket:     colorPunctuation,
	} {
		s.category[cat] = base.Foreground(c)
	}
	s.category[lexer.CategoryKeyword] = s.category[lexer.CategoryKeyword].Bold(true)
	s.category[lexer.CategoryComment] = s.category[lexer.CategoryComment].Italic(true)
	return s
}

// token returns the style for a category, plain when none is defined.
func (s styles) token(cat lexer.Category) lipgloss.Style {
	if st, ok := s.category[cat]; ok {
		return st
	}
	return s.plain
}

// renderVerbatim styles text without changing its characters. Each line is
// rendered on its own so lipgloss does not pad lines to a common width, and
// tabs are left unconverted.
func renderVerbatim(st lipgloss.Style, text string) string {
	st = st.TabWidth(lipgloss.NoTabConversion)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		body, cr := strings.CutSuffix(line, "\r")
		if body != "" {
			body = st.Render(body)
		}
		if cr {
			body += "\r"
		}
		lines[i] = body
	}
	return strings.Join(lines, "\n")
}
