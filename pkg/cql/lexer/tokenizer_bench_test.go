package lexer

import (
	"strings"
	"testing"
)

func BenchmarkTokenize(b *testing.B) {
	tok := New(mustGrammar(b, "1.5.3"))
	src := strings.Repeat(sampleLibrary, 50)

	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tok.Tokenize(src)
	}
}

func BenchmarkTokenize_Unclassified(b *testing.B) {
	tok := New(mustGrammar(b, "1.5.3"))
	src := strings.Repeat("#$`", 10000)

	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tok.Tokenize(src)
	}
}
