package source

import "testing"

func TestLineIndex_Position(t *testing.T) {
	src := "library Test\nusing FHIR\n\ndefine X: 1"

	tests := []struct {
		name   string
		offset int
		want   Position
	}{
		{"start", 0, Position{Offset: 0, Line: 1, Column: 1}},
		{"end of first line", 12, Position{Offset: 12, Line: 1, Column: 13}},
		{"second line", 13, Position{Offset: 13, Line: 2, Column: 1}},
		{"empty line", 24, Position{Offset: 24, Line: 3, Column: 1}},
		{"last line", 32, Position{Offset: 32, Line: 4, Column: 8}},
		{"past end clamps", 500, Position{Offset: len(src), Line: 4, Column: 12}},
		{"negative clamps", -3, Position{Offset: 0, Line: 1, Column: 1}},
	}

	li := NewLineIndex(src)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := li.Position(tt.offset)
			if got != tt.want {
				t.Errorf("Position(%d) = %+v, want %+v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestLineIndex_MultibyteColumns(t *testing.T) {
	li := NewLineIndex("'ä' + x")
	// 'ä' is two bytes; x sits at byte 7 but rune column 7.
	got := li.Position(7)
	if got.Column != 7 {
		t.Errorf("Column = %d, want 7", got.Column)
	}
}

func TestLineIndex_Line(t *testing.T) {
	li := NewLineIndex("a\r\nbb\nccc")
	if li.LineCount() != 3 {
		t.Fatalf("LineCount() = %d, want 3", li.LineCount())
	}
	for n, want := range map[int]string{1: "a", 2: "bb", 3: "ccc", 4: ""} {
		if got := li.Line(n); got != want {
			t.Errorf("Line(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestPosition_String(t *testing.T) {
	if got := (Position{Offset: 4, Line: 2, Column: 3}).String(); got != "2:3" {
		t.Errorf("String() = %q", got)
	}
	if got := (Position{}).String(); got != "<unknown>" {
		t.Errorf("zero String() = %q", got)
	}
}
