package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestProgress(buf *bytes.Buffer) *LintProgress {
	p := NewProgressReporter(buf, WithNoColor())
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	p.now = func() time.Time {
		calls++
		return start.Add(time.Duration(calls-1) * time.Second)
	}
	return p
}

// lastFrame returns the most recent redraw of the progress line.
func lastFrame(out string) string {
	out = strings.TrimSuffix(out, "\n")
	return out[strings.LastIndex(out, "\r")+1:]
}

func TestLintProgress(t *testing.T) {
	var buf bytes.Buffer
	p := newTestProgress(&buf)

	p.Start(4)
	p.Advance(FileReport{File: "a.cql", Valid: true})
	p.Advance(FileReport{File: "measures/b.cql"})

	frame := lastFrame(buf.String())
	for _, want := range []string{
		"[" + strings.Repeat("█", 15) + strings.Repeat("░", 15) + "]",
		"2/4 files, 1 with problems",
		"measures/b.cql",
	} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame %q missing %q", frame, want)
		}
	}

	p.Advance(FileReport{File: "c.cql", Valid: true})
	p.Advance(FileReport{File: "d.cql", Valid: true})
	p.Finish()
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Errorf("Finish should end the line: %q", buf.String())
	}
	frame = lastFrame(buf.String())
	if !strings.Contains(frame, "4/4 files, 1 with problems") || strings.Contains(frame, "d.cql") {
		t.Errorf("final frame = %q", frame)
	}
}

func TestLintProgress_ClampsAndZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	p := newTestProgress(&buf)

	p.Start(0)
	p.Advance(FileReport{File: "a.cql", Valid: true})
	p.Finish()
	if buf.Len() != 0 {
		t.Errorf("zero total should render nothing, got %q", buf.String())
	}

	p.Start(1)
	p.Advance(FileReport{File: "a.cql", Valid: true})
	p.Advance(FileReport{File: "b.cql", Valid: true})
	if !strings.Contains(lastFrame(buf.String()), "1/1 files") {
		t.Errorf("advance past total not clamped: %q", buf.String())
	}
}

func TestLintProgress_UnreadableCountsAsProblem(t *testing.T) {
	var buf bytes.Buffer
	p := newTestProgress(&buf)

	p.Start(1)
	p.Advance(FileReport{File: "gone.cql", Error: "no such file"})
	if !strings.Contains(lastFrame(buf.String()), "1 with problems") {
		t.Errorf("frame = %q", lastFrame(buf.String()))
	}
}
