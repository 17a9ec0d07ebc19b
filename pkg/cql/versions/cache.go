package versions

import (
	"sync"

	"mercator-hq/saturn/pkg/cql/grammar"
)

// Cache hands out one shared binding per grammar version. It serves
// requests that name their version explicitly instead of holding a
// session.
type Cache struct {
	registry *grammar.Registry
	opts     *options

	mu       sync.RWMutex
	bindings map[string]*Binding
}

// NewCache creates a binding cache over registry. Logger and switch hooks
// in opts are ignored.
func NewCache(registry *grammar.Registry, opts ...Option) *Cache {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return &Cache{
		registry: registry,
		opts:     o,
		bindings: make(map[string]*Binding),
	}
}

// Binding returns the binding for version, building it on first request.
// Unknown versions return an error matching grammar.ErrUnknownVersion.
func (c *Cache) Binding(version string) (*Binding, error) {
	c.mu.RLock()
	b, ok := c.bindings[version]
	c.mu.RUnlock()
	if ok {
		return b, nil
	}

	def, err := c.registry.Get(version)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.bindings[version]; ok {
		return b, nil
	}
	b = newBinding(def, c.opts)
	c.bindings[version] = b
	return b, nil
}

// Registry returns the registry the cache resolves versions against.
func (c *Cache) Registry() *grammar.Registry {
	return c.registry
}
