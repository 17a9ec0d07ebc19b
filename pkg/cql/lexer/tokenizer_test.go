package lexer

import (
	"reflect"
	"strings"
	"sync"
	"testing"
	"unicode"

	"mercator-hq/saturn/pkg/cql/grammar"
)

func mustGrammar(t testing.TB, version string) *grammar.Definition {
	t.Helper()
	def, err := grammar.Default().Get(version)
	if err != nil {
		t.Fatalf("Get(%q) error = %v", version, err)
	}
	return def
}

func categories(tokens []Token) []Category {
	out := make([]Category, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Category
	}
	return out
}

func lexemes(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Lexeme
	}
	return out
}

func TestTokenize_EndToEnd(t *testing.T) {
	tokens := Tokenize("define X: 3 + 4", mustGrammar(t, "1.5.3"))

	wantCats := []Category{
		CategoryKeyword, CategoryIdentifier, CategoryPunctuation,
		CategoryNumber, CategoryOperator, CategoryNumber,
	}
	wantLex := []string{"define", "X", ":", "3", "+", "4"}

	if got := categories(tokens); !reflect.DeepEqual(got, wantCats) {
		t.Errorf("categories = %v, want %v", got, wantCats)
	}
	if got := lexemes(tokens); !reflect.DeepEqual(got, wantLex) {
		t.Errorf("lexemes = %v, want %v", got, wantLex)
	}
}

func TestTokenize_Rules(t *testing.T) {
	def := mustGrammar(t, "1.5.3")

	tests := []struct {
		name string
		src  string
		want []Token
	}{
		{
			name: "line comment stops at newline",
			src:  "// note\nX",
			want: []Token{
				{CategoryComment, "// note", 0, 7},
				{CategoryIdentifier, "X", 8, 9},
			},
		},
		{
			name: "block comment",
			src:  "/* a\nb */1",
			want: []Token{
				{CategoryComment, "/* a\nb */", 0, 9},
				{CategoryNumber, "1", 9, 10},
			},
		},
		{
			name: "unterminated block comment runs to end",
			src:  "1 /* open",
			want: []Token{
				{CategoryNumber, "1", 0, 1},
				{CategoryComment, "/* open", 2, 9},
			},
		},
		{
			name: "slash star slash is not closed",
			src:  "/*/ x",
			want: []Token{{CategoryComment, "/*/ x", 0, 5}},
		},
		{
			name: "division is an operator",
			src:  "4/2",
			want: []Token{
				{CategoryNumber, "4", 0, 1},
				{CategoryOperator, "/", 1, 2},
				{CategoryNumber, "2", 2, 3},
			},
		},
		{
			name: "strings with escapes and brackets",
			src:  `'it\'s {' "q"`,
			want: []Token{
				{CategoryString, `'it\'s {'`, 0, 9},
				{CategoryString, `"q"`, 10, 13},
			},
		},
		{
			name: "unterminated string runs to end",
			src:  `X = 'abc`,
			want: []Token{
				{CategoryIdentifier, "X", 0, 1},
				{CategoryOperator, "=", 2, 3},
				{CategoryString, "'abc", 4, 8},
			},
		},
		{
			name: "datetime reported as string",
			src:  "@2014-01-25T14:30:00.0Z",
			want: []Token{{CategoryString, "@2014-01-25T14:30:00.0Z", 0, 23}},
		},
		{
			name: "function and data types",
			src:  "Count(X as Integer)",
			want: []Token{
				{CategoryFunction, "Count", 0, 5},
				{CategoryBracket, "(", 5, 6},
				{CategoryIdentifier, "X", 6, 7},
				{CategoryKeyword, "as", 8, 10},
				{CategoryDataType, "Integer", 11, 18},
				{CategoryBracket, ")", 18, 19},
			},
		},
		{
			name: "longest operator match",
			src:  "a<=b!~c",
			want: []Token{
				{CategoryIdentifier, "a", 0, 1},
				{CategoryOperator, "<=", 1, 3},
				{CategoryIdentifier, "b", 3, 4},
				{CategoryOperator, "!~", 4, 6},
				{CategoryIdentifier, "c", 6, 7},
			},
		},
		{
			name: "punctuation",
			src:  "A.b, c;",
			want: []Token{
				{CategoryIdentifier, "A", 0, 1},
				{CategoryPunctuation, ".", 1, 2},
				{CategoryIdentifier, "b", 2, 3},
				{CategoryPunctuation, ",", 3, 4},
				{CategoryIdentifier, "c", 5, 6},
				{CategoryPunctuation, ";", 6, 7},
			},
		},
		{
			name: "unclassified characters are skipped",
			src:  "#`X`",
			want: []Token{{CategoryIdentifier, "X", 2, 3}},
		},
		{
			name: "long suffix and decimals",
			src:  "10L 2.5",
			want: []Token{
				{CategoryNumber, "10L", 0, 3},
				{CategoryNumber, "2.5", 4, 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.src, def)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q)\n got = %v\nwant = %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestTokenize_WordBoundary(t *testing.T) {
	def := mustGrammar(t, "1.5.3")

	for _, src := range []string{"ending", "librarySomething", "defineX", "Count2", "end_"} {
		tokens := Tokenize(src, def)
		if len(tokens) != 1 || tokens[0].Category != CategoryIdentifier || tokens[0].Lexeme != src {
			t.Errorf("Tokenize(%q) = %v, want a single identifier", src, tokens)
		}
	}
}

func TestTokenize_VersionIsolation(t *testing.T) {
	src := "define fluent function F()"

	v153 := Tokenize(src, mustGrammar(t, "1.5.3"))
	v140 := Tokenize(src, mustGrammar(t, "1.4.0"))

	if v153[1].Lexeme != "fluent" || v153[1].Category != CategoryKeyword {
		t.Errorf("1.5.3: %v, want keyword 'fluent'", v153[1])
	}
	if v140[1].Lexeme != "fluent" || v140[1].Category != CategoryIdentifier {
		t.Errorf("1.4.0: %v, want identifier 'fluent'", v140[1])
	}
}

func TestTokenize_Determinism(t *testing.T) {
	tok := New(mustGrammar(t, "1.5.3"))
	src := sampleLibrary

	first := tok.Tokenize(src)
	second := tok.Tokenize(src)
	if !reflect.DeepEqual(first, second) {
		t.Error("tokenizing the same source twice produced different tokens")
	}

	// The lazy sequence is restartable.
	seq := tok.Tokens(src)
	var a, b []Token
	for tk := range seq {
		a = append(a, tk)
	}
	for tk := range seq {
		b = append(b, tk)
	}
	if !reflect.DeepEqual(a, b) || !reflect.DeepEqual(a, first) {
		t.Error("lazy sequence is not restartable")
	}
}

func TestTokens_EarlyStop(t *testing.T) {
	tok := New(mustGrammar(t, "1.5.3"))
	count := 0
	for range tok.Tokens("a b c d e") {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestTokenize_Partition(t *testing.T) {
	def := mustGrammar(t, "1.5.3")

	sources := []string{
		sampleLibrary,
		"",
		"   \t\n",
		"define X: 3 + 4",
		"'unterminated { ( [",
		"/* open comment",
		"Größe + Länge",
		"X#Y$Z",
		"define \"Quoted\tName\": @2024-01-01 ~ `x` §",
	}

	// checkGap fails unless every character of gap is whitespace or a
	// character that no rule classifies on its own.
	checkGap := func(src, gap string, at int) {
		t.Helper()
		for _, r := range gap {
			if unicode.IsSpace(r) {
				continue
			}
			if got := Tokenize(string(r), def); len(got) != 0 {
				t.Errorf("%q: skipped %q at offset %d, but it tokenizes as %v", src, r, at, got)
			}
		}
	}

	for _, src := range sources {
		prev := 0
		for _, tok := range Tokenize(src, def) {
			if tok.Start < prev {
				t.Fatalf("overlapping or unordered token %v in %q", tok, src)
			}
			if tok.End <= tok.Start {
				t.Fatalf("empty token %v in %q", tok, src)
			}
			if tok.End > len(src) || src[tok.Start:tok.End] != tok.Lexeme {
				t.Fatalf("lexeme mismatch %v in %q", tok, src)
			}
			checkGap(src, src[prev:tok.Start], prev)
			prev = tok.End
		}
		checkGap(src, src[prev:], prev)
	}
}

func TestTokenize_GapsAreWhitespace(t *testing.T) {
	tokens := Tokenize(sampleLibrary, mustGrammar(t, "1.5.3"))
	prev := 0
	for _, tok := range tokens {
		gap := sampleLibrary[prev:tok.Start]
		if strings.TrimFunc(gap, unicode.IsSpace) != "" {
			t.Errorf("non-whitespace gap %q before %v", gap, tok)
		}
		prev = tok.End
	}
}

func TestWithDateTimeCategory(t *testing.T) {
	tok := New(mustGrammar(t, "1.5.3"), WithDateTimeCategory())
	tokens := tok.Tokenize("@T12:00")
	if len(tokens) != 1 || tokens[0].Category != CategoryDateTime {
		t.Errorf("tokens = %v, want one datetime token", tokens)
	}
}

func TestTokenizer_Concurrent(t *testing.T) {
	tok := New(mustGrammar(t, "1.5.3"))
	want := tok.Tokenize(sampleLibrary)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := tok.Tokenize(sampleLibrary); !reflect.DeepEqual(got, want) {
				t.Error("concurrent tokenization diverged")
			}
		}()
	}
	wg.Wait()
}

func TestToken_String(t *testing.T) {
	tok := Token{Category: CategoryKeyword, Lexeme: "define", Start: 0, End: 6}
	if tok.String() != `keyword("define")@0` {
		t.Errorf("String() = %q", tok.String())
	}
	if tok.Len() != 6 {
		t.Errorf("Len() = %d", tok.Len())
	}
	if len(Categories()) != 11 {
		t.Errorf("Categories() has %d entries, want 11", len(Categories()))
	}
}

const sampleLibrary = `library CMS146 version '2.0.0'

using FHIR version '4.0.1'

include FHIRHelpers version '4.0.1' called FHIRHelpers

codesystem "LOINC": 'http://loinc.org'
valueset "Acute Pharyngitis": 'urn:oid:2.16.840.1.113883.3.464.1003.102.12.1011'

parameter "Measurement Period" Interval<DateTime>
  default Interval[@2019-01-01T00:00:00.0, @2020-01-01T00:00:00.0)

context Patient

/* Patients aged 3 to 18 */
define "In Demographic":
  AgeInYearsAt(start of "Measurement Period") >= 3
    and AgeInYearsAt(start of "Measurement Period") < 18

// Encounters during the period
define "Pharyngitis Encounters":
  ["Encounter": "Acute Pharyngitis"] E
    where E.period during "Measurement Period"
      and Count(E.diagnosis) > 0L
`
