package versions

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"mercator-hq/saturn/pkg/cql/grammar"
	"mercator-hq/saturn/pkg/cql/lexer"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewManager(t *testing.T) {
	m, err := NewManager(grammar.Default(), "1.5.3", WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if m.Version() != "1.5.3" {
		t.Errorf("Version() = %q", m.Version())
	}

	if _, err := NewManager(grammar.Default(), "0.9"); !errors.Is(err, grammar.ErrUnknownVersion) {
		t.Errorf("NewManager(unknown) error = %v", err)
	}
	if _, err := NewManager(nil, "1.5.3"); err == nil {
		t.Error("NewManager(nil registry) should fail")
	}
}

func TestManager_SetVersion(t *testing.T) {
	var switches [][2]string
	m, err := NewManager(grammar.Default(), "1.4.0",
		WithLogger(quietLogger()),
		WithSwitchHook(func(from, to string) {
			switches = append(switches, [2]string{from, to})
		}),
	)
	if err != nil {
		t.Fatal(err)
	}

	src := "define fluent function F()"
	if got := m.Tokenize(src)[1].Category; got != lexer.CategoryIdentifier {
		t.Errorf("1.4.0 category = %v, want identifier", got)
	}

	old := m.Current()
	b, err := m.SetVersion("1.5.3")
	if err != nil {
		t.Fatalf("SetVersion() error = %v", err)
	}
	if b.Version() != "1.5.3" || m.Version() != "1.5.3" {
		t.Errorf("version after switch = %q / %q", b.Version(), m.Version())
	}
	if b == old || b.Tokenizer() == old.Tokenizer() {
		t.Error("switch must produce a fresh binding and tokenizer")
	}
	if got := m.Tokenize(src)[1].Category; got != lexer.CategoryKeyword {
		t.Errorf("1.5.3 category = %v, want keyword", got)
	}
	if len(switches) != 1 || switches[0] != [2]string{"1.4.0", "1.5.3"} {
		t.Errorf("switch hook calls = %v", switches)
	}

	same, err := m.SetVersion("1.5.3")
	if err != nil || same != b {
		t.Error("switching to the current version should return the same binding")
	}
	if len(switches) != 1 {
		t.Error("no-op switch should not call hooks")
	}
}

func TestManager_SetVersionUnknownKeepsPrevious(t *testing.T) {
	m, _ := NewManager(grammar.Default(), "1.5.3", WithLogger(quietLogger()))
	before := m.Current()

	b, err := m.SetVersion("1.5.2")
	if !errors.Is(err, grammar.ErrUnknownVersion) {
		t.Fatalf("SetVersion(unknown) error = %v", err)
	}
	if b != nil {
		t.Error("failed switch should return nil binding")
	}
	if m.Current() != before || m.Version() != "1.5.3" {
		t.Error("failed switch must keep the previous binding")
	}
}

func TestManager_Complete(t *testing.T) {
	m, _ := NewManager(grammar.Default(), "1.4.0", WithLogger(quietLogger()))
	if got := m.Complete("Long"); len(got) != 0 {
		t.Errorf("1.4.0 Complete(Long) = %v, want none", got)
	}

	if _, err := m.SetVersion("1.5.3"); err != nil {
		t.Fatal(err)
	}
	got := m.Complete("Long")
	if len(got) != 1 || got[0].Label != "Long" {
		t.Errorf("1.5.3 Complete(Long) = %v", got)
	}
}

func TestManager_ValidateOptions(t *testing.T) {
	src := "define X: '}'"

	plain, _ := NewManager(grammar.Default(), "1.5.3", WithLogger(quietLogger()))
	if plain.Validate(src).IsValid {
		t.Error("default validator counts brackets inside strings")
	}

	aware, _ := NewManager(grammar.Default(), "1.5.3",
		WithLogger(quietLogger()),
		WithContextAwareValidation(),
	)
	if !aware.Validate(src).IsValid {
		t.Error("context-aware validator should ignore brackets inside strings")
	}

	all, _ := NewManager(grammar.Default(), "1.5.3",
		WithLogger(quietLogger()),
		WithReportAllUnclosed(),
	)
	if got := len(all.Validate("((").Errors); got != 2 {
		t.Errorf("report-all errors = %d, want 2", got)
	}

	dt, _ := NewManager(grammar.Default(), "1.5.3",
		WithLogger(quietLogger()),
		WithDateTimeCategory(),
	)
	if got := dt.Tokenize("@2020")[0].Category; got != lexer.CategoryDateTime {
		t.Errorf("datetime category = %v", got)
	}
}

// A binding read once must stay internally consistent while other
// goroutines switch versions.
func TestManager_ConcurrentSwitch(t *testing.T) {
	m, _ := NewManager(grammar.Default(), "1.4.0", WithLogger(quietLogger()))
	versions := []string{"1.4.0", "1.5.3", "2.0.0-ballot", "1.3.0"}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if _, err := m.SetVersion(versions[(i+j)%len(versions)]); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				b := m.Current()
				if b.Tokenizer().Grammar() != b.Grammar() {
					t.Error("tokenizer grammar differs from binding grammar")
					return
				}
				if b.Completion().Version() != b.Version() {
					t.Error("completion version differs from binding version")
					return
				}
			}
		}()
	}
	wg.Wait()
}
