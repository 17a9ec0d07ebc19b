package versions

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"mercator-hq/saturn/pkg/cql/completion"
	"mercator-hq/saturn/pkg/cql/grammar"
	"mercator-hq/saturn/pkg/cql/lexer"
	"mercator-hq/saturn/pkg/cql/validator"
)

// SwitchHook is called after a successful version switch.
type SwitchHook func(from, to string)

// Option configures a Manager.
type Option func(*options)

type options struct {
	logger            *slog.Logger
	hooks             []SwitchHook
	contextAware      bool
	reportAllUnclosed bool
	dateTimeCategory  bool
}

// WithLogger sets the logger used for switch events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSwitchHook registers a callback run after each successful switch.
func WithSwitchHook(hook SwitchHook) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, hook)
	}
}

// WithContextAwareValidation makes Validate ignore brackets inside string
// literals and comments.
func WithContextAwareValidation() Option {
	return func(o *options) {
		o.contextAware = true
	}
}

// WithReportAllUnclosed makes Validate report every unclosed bracket.
func WithReportAllUnclosed() Option {
	return func(o *options) {
		o.reportAllUnclosed = true
	}
}

// WithDateTimeCategory makes the tokenizer report datetime literals under
// their own category.
func WithDateTimeCategory() Option {
	return func(o *options) {
		o.dateTimeCategory = true
	}
}

// Manager holds the current grammar version of an editor session.
type Manager struct {
	registry *grammar.Registry
	opts     *options

	// switchMu serializes writers; readers only load current.
	switchMu sync.Mutex
	current  atomic.Pointer[Binding]
}

// NewManager creates a manager starting at version initial.
func NewManager(registry *grammar.Registry, initial string, opts ...Option) (*Manager, error) {
	if registry == nil {
		return nil, fmt.Errorf("grammar registry cannot be nil")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	def, err := registry.Get(initial)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		registry: registry,
		opts:     o,
	}
	m.current.Store(newBinding(def, o))
	return m, nil
}

// Version returns the current version.
func (m *Manager) Version() string {
	return m.current.Load().Version()
}

// Current returns the current binding. Callers that need several
// components should take one binding and use it throughout, so a
// concurrent switch cannot mix versions.
func (m *Manager) Current() *Binding {
	return m.current.Load()
}

// SupportedVersions returns the versions the manager can switch to.
func (m *Manager) SupportedVersions() []string {
	return m.registry.SupportedVersions()
}

// SetVersion switches to version and returns the new binding. If version
// is not registered, it returns an error matching grammar.ErrUnknownVersion
// and the current version is unchanged. Switching to the current version
// is a no-op that returns the existing binding.
func (m *Manager) SetVersion(version string) (*Binding, error) {
	def, err := m.registry.Get(version)
	if err != nil {
		m.opts.logger.Warn("grammar version switch rejected",
			"from", m.Version(),
			"to", version,
			"error", err,
		)
		return nil, err
	}

	m.switchMu.Lock()
	prev := m.current.Load()
	if prev.grammar == def {
		m.switchMu.Unlock()
		return prev, nil
	}
	next := newBinding(def, m.opts)
	m.current.Store(next)
	m.switchMu.Unlock()

	m.opts.logger.Info("grammar version switched",
		"from", prev.Version(),
		"to", next.Version(),
	)
	for _, hook := range m.opts.hooks {
		hook(prev.Version(), next.Version())
	}

	return next, nil
}

// Tokenize scans src under the current version.
func (m *Manager) Tokenize(src string) []lexer.Token {
	return m.Current().Tokenizer().Tokenize(src)
}

// Validate checks src with the session's validator.
func (m *Manager) Validate(src string) validator.Result {
	return m.Current().Validator().Validate(src)
}

// Complete returns completion items for prefix under the current version.
func (m *Manager) Complete(prefix string) []completion.Item {
	return m.Current().Completion().Complete(prefix)
}
