package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"mercator-hq/saturn/pkg/cql/completion"
	"mercator-hq/saturn/pkg/cql/lexer"
	"mercator-hq/saturn/pkg/cql/source"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is styled text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use text or json)", s)
	}
}

// Problem is one structural problem in a linted file. Context is the
// source excerpt around the problem with a caret under its column.
type Problem struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Offset  int    `json:"offset"`
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

// FileReport is the lint outcome for one file. Error is set when the file
// could not be read.
type FileReport struct {
	File     string    `json:"file"`
	Version  string    `json:"version"`
	Valid    bool      `json:"valid"`
	Problems []Problem `json:"problems"`
	Error    string    `json:"error,omitempty"`
}

// PositionedToken is a token with its line and column, as printed by the
// tokens command.
type PositionedToken struct {
	lexer.Token
	Line   int `json:"line"`
	Column int `json:"column"`
}

// PrinterOption configures a Printer.
type PrinterOption func(*printerOptions)

type printerOptions struct {
	noColor bool
}

// WithNoColor disables styling even on a terminal.
func WithNoColor() PrinterOption {
	return func(o *printerOptions) {
		o.noColor = true
	}
}

// Printer writes command results in one output format.
type Printer struct {
	w      io.Writer
	format OutputFormat
	styles styles
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, format OutputFormat, opts ...PrinterOption) *Printer {
	o := &printerOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return &Printer{
		w:      w,
		format: format,
		styles: newStyles(lipgloss.NewRenderer(w), !o.noColor),
	}
}

// JSON writes v as indented JSON.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) table(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.styles.border).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.header
			}
			return p.styles.cell
		})
}

func (p *Printer) println(s string) error {
	_, err := fmt.Fprintln(p.w, s)
	return err
}

// Lint prints lint reports followed by a summary line.
func (p *Printer) Lint(reports []FileReport) error {
	if p.format == FormatJSON {
		return p.JSON(reports)
	}

	invalid := 0
	for _, r := range reports {
		switch {
		case r.Error != "":
			invalid++
			fmt.Fprintf(p.w, "%s %s: %s\n", p.styles.bad.Render("✗"), r.File, r.Error)
		case r.Valid:
			fmt.Fprintf(p.w, "%s %s %s\n", p.styles.ok.Render("✓"), r.File, p.styles.muted.Render("("+r.Version+")"))
		default:
			invalid++
			fmt.Fprintf(p.w, "%s %s %s\n", p.styles.bad.Render("✗"), r.File, p.styles.muted.Render("("+r.Version+")"))
			for _, prob := range r.Problems {
				fmt.Fprintf(p.w, "  %s:%d:%d: %s\n", r.File, prob.Line, prob.Column, prob.Message)
				p.excerpt(prob.Context)
			}
		}
	}

	summary := fmt.Sprintf("%d file(s) checked, %d with problems", len(reports), invalid)
	if invalid > 0 {
		return p.println(p.styles.bad.Render(summary))
	}
	return p.println(p.styles.ok.Render(summary))
}

// excerpt prints a problem's source context indented under it.
func (p *Printer) excerpt(context string) {
	for line := range strings.Lines(context) {
		fmt.Fprintf(p.w, "    %s\n", renderVerbatim(p.styles.muted, strings.TrimSuffix(line, "\n")))
	}
}

// PositionTokens attaches line and column numbers to tokens of src.
func PositionTokens(src string, tokens []lexer.Token) []PositionedToken {
	idx := source.NewLineIndex(src)
	out := make([]PositionedToken, len(tokens))
	for i, tok := range tokens {
		pos := idx.Position(tok.Start)
		out[i] = PositionedToken{Token: tok, Line: pos.Line, Column: pos.Column}
	}
	return out
}

// Tokens prints the tokens of src as a table.
func (p *Printer) Tokens(version, src string, tokens []lexer.Token) error {
	positioned := PositionTokens(src, tokens)
	if p.format == FormatJSON {
		return p.JSON(struct {
			Version string            `json:"version"`
			Tokens  []PositionedToken `json:"tokens"`
		}{version, positioned})
	}

	t := p.table("POS", "CATEGORY", "LEXEME")
	for _, tok := range positioned {
		t.Row(
			fmt.Sprintf("%d:%d", tok.Line, tok.Column),
			p.styles.token(tok.Category).Render(string(tok.Category)),
			strconv.Quote(tok.Lexeme),
		)
	}
	return p.println(t.Render())
}

// Highlight prints src with every token styled by its category. Text
// between tokens is printed unchanged.
func (p *Printer) Highlight(src string, tokens []lexer.Token) error {
	var sb strings.Builder
	pos := 0
	for _, tok := range tokens {
		sb.WriteString(src[pos:tok.Start])
		sb.WriteString(renderVerbatim(p.styles.token(tok.Category), tok.Lexeme))
		pos = tok.End
	}
	sb.WriteString(src[pos:])
	_, err := io.WriteString(p.w, sb.String())
	return err
}

// Completions prints completion items. Suggestion is the "did you mean"
// hint shown when no item matched.
func (p *Printer) Completions(version string, items []completion.Item, suggestion string) error {
	if p.format == FormatJSON {
		return p.JSON(struct {
			Version    string            `json:"version"`
			Items      []completion.Item `json:"items"`
			Suggestion string            `json:"suggestion,omitempty"`
		}{version, items, suggestion})
	}

	if len(items) == 0 {
		msg := "No completions."
		if suggestion != "" {
			msg += fmt.Sprintf(" Did you mean '%s'?", suggestion)
		}
		return p.println(p.styles.muted.Render(msg))
	}

	t := p.table("LABEL", "CATEGORY", "PRIORITY")
	for _, it := range items {
		t.Row(it.Label, p.styles.token(lexer.Category(it.Category)).Render(string(it.Category)), strconv.Itoa(it.Priority))
	}
	return p.println(t.Render())
}

// Versions prints the registered grammar versions, marking the default.
func (p *Printer) Versions(versions []string, def string) error {
	if p.format == FormatJSON {
		return p.JSON(struct {
			Versions []string `json:"versions"`
			Default  string   `json:"default"`
		}{versions, def})
	}

	for _, v := range versions {
		line := "  " + v
		if v == def {
			line = p.styles.ok.Render("* "+v) + p.styles.muted.Render(" (default)")
		}
		if err := p.println(line); err != nil {
			return err
		}
	}
	return nil
}
