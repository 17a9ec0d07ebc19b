package cli

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"mercator-hq/saturn/pkg/cql/completion"
	"mercator-hq/saturn/pkg/cql/grammar"
	"mercator-hq/saturn/pkg/cql/lexer"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	def, err := grammar.Default().Get("1.5.3")
	if err != nil {
		t.Fatal(err)
	}
	return lexer.Tokenize(src, def)
}

func TestPrinter_Tokens(t *testing.T) {
	src := "define X:\n  3"
	tokens := tokenize(t, src)

	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatText, WithNoColor()).Tokens("1.5.3", src, tokens); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"CATEGORY", "keyword", `"define"`, "1:1", "2:3", "number"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := NewPrinter(&buf, FormatJSON).Tokens("1.5.3", src, tokens); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Version string `json:"version"`
		Tokens  []struct {
			Category string `json:"category"`
			Lexeme   string `json:"lexeme"`
			Start    int    `json:"start"`
			Line     int    `json:"line"`
			Column   int    `json:"column"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.Version != "1.5.3" || len(got.Tokens) != 4 {
		t.Fatalf("got %+v", got)
	}
	last := got.Tokens[3]
	if last.Lexeme != "3" || last.Start != 12 || last.Line != 2 || last.Column != 3 {
		t.Errorf("last token = %+v", last)
	}
}

var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*m")

func colorPrinter(w *bytes.Buffer) *Printer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.TrueColor)
	return &Printer{w: w, format: FormatText, styles: newStyles(r, true)}
}

func TestPrinter_Highlight(t *testing.T) {
	sources := []string{
		"define X: 'a' // note\n",
		"/* a\n\tlonger comment line */\ndefine X: 'x\ty'\n",
		"define \"Tab\tName\": 1\r\n/* one\r\ntwo */\r\n",
		"'unterminated\n\tstring",
	}
	printers := map[string]func(*bytes.Buffer) *Printer{
		"plain": func(w *bytes.Buffer) *Printer { return NewPrinter(w, FormatText, WithNoColor()) },
		"color": colorPrinter,
	}

	for name, newPrinter := range printers {
		for _, src := range sources {
			var buf bytes.Buffer
			if err := newPrinter(&buf).Highlight(src, tokenize(t, src)); err != nil {
				t.Fatal(err)
			}
			if got := ansiEscape.ReplaceAllString(buf.String(), ""); got != src {
				t.Errorf("%s: Highlight(%q) without escapes = %q", name, src, got)
			}
		}
	}

	var buf bytes.Buffer
	src := "define X: 1"
	if err := colorPrinter(&buf).Highlight(src, tokenize(t, src)); err != nil {
		t.Fatal(err)
	}
	if !ansiEscape.MatchString(buf.String()) {
		t.Errorf("colored highlight has no escape sequences: %q", buf.String())
	}
}

func TestPrinter_Lint(t *testing.T) {
	reports := []FileReport{
		{File: "ok.cql", Version: "1.5.3", Valid: true, Problems: []Problem{}},
		{File: "bad.cql", Version: "1.5.3", Problems: []Problem{
			{
				Line: 2, Column: 5, Offset: 9, Message: "Unexpected closing bracket ')' at position 9",
				Context: "  1 | define\n-> 2 | X: )\n    |     ^\n",
			},
		}},
		{File: "gone.cql", Error: "no such file"},
	}

	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatText, WithNoColor()).Lint(reports); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"✓ ok.cql",
		"✗ bad.cql",
		"bad.cql:2:5: Unexpected closing bracket",
		"\n      1 | define\n    -> 2 | X: )\n        |     ^\n",
		"✗ gone.cql: no such file",
		"3 file(s) checked, 2 with problems",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := NewPrinter(&buf, FormatJSON).Lint(reports); err != nil {
		t.Fatal(err)
	}
	var decoded []FileReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 3 || decoded[1].Problems[0].Offset != 9 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestPrinter_CompletionsAndVersions(t *testing.T) {
	items := []completion.Item{
		{Label: "define", Category: completion.CategoryKeyword, Priority: completion.PriorityKeyword},
		{Label: "Sum", Category: completion.CategoryFunction, Priority: completion.PriorityFunction},
	}

	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatText, WithNoColor())
	if err := p.Completions("1.5.3", items, ""); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "define") || !strings.Contains(buf.String(), "function") {
		t.Errorf("completions output:\n%s", buf.String())
	}

	buf.Reset()
	if err := p.Completions("1.5.3", []completion.Item{}, "define"); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "No completions. Did you mean 'define'?\n"; got != want {
		t.Errorf("empty completions output = %q, want %q", got, want)
	}

	buf.Reset()
	if err := p.Versions([]string{"1.4.0", "1.5.3"}, "1.5.3"); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "  1.4.0\n* 1.5.3 (default)\n"; got != want {
		t.Errorf("versions output = %q, want %q", got, want)
	}
}
