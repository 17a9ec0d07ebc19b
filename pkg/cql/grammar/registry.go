package grammar

import (
	"fmt"
	"slices"
	"sync"
)

// Registry owns one Definition per supported version. It is populated at
// startup and frozen; afterwards it is a read-only lookup table that any
// number of goroutines may query.
type Registry struct {
	mu     sync.RWMutex
	defs   map[string]*Definition
	order  []string
	frozen bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]*Definition),
	}
}

// Register adds a definition. It fails if the version is already registered
// or the registry has been frozen.
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return fmt.Errorf("register: definition cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("register %q: %w", def.version, ErrRegistryFrozen)
	}
	if _, exists := r.defs[def.version]; exists {
		return fmt.Errorf("register %q: %w", def.version, ErrDuplicateVersion)
	}

	r.defs[def.version] = def
	r.order = append(r.order, def.version)
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether the registry is read-only.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Get returns the definition for version. It returns an
// *UnknownVersionError (matching ErrUnknownVersion) if the version is not
// registered.
func (r *Registry) Get(version string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[version]
	if !ok {
		return nil, &UnknownVersionError{
			Version:   version,
			Supported: slices.Clone(r.order),
		}
	}
	return def, nil
}

// Has reports whether version is registered.
func (r *Registry) Has(version string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[version]
	return ok
}

// SupportedVersions returns the registered versions in registration order.
func (r *Registry) SupportedVersions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered versions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry of built-in versions. It is
// built on first use and frozen.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, def := range Builtin() {
			if err := defaultRegistry.Register(def); err != nil {
				panic(err)
			}
		}
		defaultRegistry.Freeze()
	})
	return defaultRegistry
}

// NewRegistryWithPacks builds a frozen registry holding the built-in
// versions followed by the given packs, in order. A pack may extend any
// version registered before it.
func NewRegistryWithPacks(packs []*Pack) (*Registry, error) {
	reg := NewRegistry()
	for _, def := range Builtin() {
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}

	for _, p := range packs {
		def, err := p.Definition(reg)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(def); err != nil {
			return nil, &PackError{FilePath: p.Path, Message: "cannot register", Cause: err}
		}
	}

	reg.Freeze()
	return reg, nil
}
