package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ProgressReporter follows a lint run file by file.
type ProgressReporter interface {
	Start(total int)
	Advance(report FileReport)
	Finish()
}

// LintProgress redraws a single status line as files are linted:
//
//	Linting [██████░░░░] 6/10 files, 1 with problems (12.0 files/s) b.cql
type LintProgress struct {
	mu      sync.Mutex
	w       io.Writer
	styles  styles
	total   int
	done    int
	invalid int
	last    string
	started time.Time
	now     func() time.Time
}

const barWidth = 30

// NewProgressReporter creates a progress line on w, or on os.Stderr when w
// is nil. The bar is colored only when w is a terminal.
func NewProgressReporter(w io.Writer, opts ...PrinterOption) *LintProgress {
	if w == nil {
		w = os.Stderr
	}
	o := &printerOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return &LintProgress{
		w:      w,
		styles: newStyles(lipgloss.NewRenderer(w), !o.noColor),
		now:    time.Now,
	}
}

// Start resets the counters for a run over total files.
func (p *LintProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.done, p.invalid, p.last = 0, 0, ""
	p.started = p.now()
	p.render()
}

// Advance records one finished file.
func (p *LintProgress) Advance(report FileReport) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = min(p.done+1, p.total)
	if !report.Valid {
		p.invalid++
	}
	p.last = report.File
	p.render()
}

// Finish draws the final state and ends the line.
func (p *LintProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = ""
	p.render()
	if p.total > 0 {
		fmt.Fprintln(p.w)
	}
}

func (p *LintProgress) render() {
	if p.total == 0 {
		return
	}

	filled := barWidth * p.done / p.total
	bar := p.styles.ok.Render(strings.Repeat("█", filled)) +
		p.styles.muted.Render(strings.Repeat("░", barWidth-filled))

	counts := fmt.Sprintf("%d/%d files", p.done, p.total)
	if p.invalid > 0 {
		counts += p.styles.bad.Render(fmt.Sprintf(", %d with problems", p.invalid))
	}

	rate := 0.0
	if elapsed := p.now().Sub(p.started).Seconds(); elapsed > 0 {
		rate = float64(p.done) / elapsed
	}

	// \x1b[K clears what a longer previous file name left behind.
	fmt.Fprintf(p.w, "\rLinting [%s] %s (%.1f files/s) %s\x1b[K", bar, counts, rate, p.last)
}
