package validator

import (
	"strings"
	"testing"
)

func BenchmarkStructuralValidator(b *testing.B) {
	v := NewStructuralValidator()
	src := strings.Repeat("define X: Sum({ 1, (2 + 3), [4] })\n", 2000)

	b.SetBytes(int64(len(src)))
	for b.Loop() {
		_ = v.Validate(src)
	}
}

func BenchmarkStructuralValidator_DeepNesting(b *testing.B) {
	v := NewStructuralValidator()
	src := strings.Repeat("(", 10000) + strings.Repeat(")", 10000)

	b.SetBytes(int64(len(src)))
	for b.Loop() {
		_ = v.Validate(src)
	}
}
