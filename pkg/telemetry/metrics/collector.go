package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/saturn/pkg/config"
)

// OtherLabel replaces label values beyond the cardinality limit.
const OtherLabel = "other"

// DefaultMaxVersionLabels bounds the distinct version label values.
const DefaultMaxVersionLabels = 64

// Collector owns the analyzer's Prometheus metrics. A nil *Collector is
// valid and records nothing, so callers need no enabled checks.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	analysis *AnalysisMetrics
	http     *HTTPMetrics

	versions *CardinalityLimiter
}

// NewCollector creates a collector registered on registry. If registry is
// nil, a fresh registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := *cfg
	if c.Namespace == "" {
		c.Namespace = config.DefaultMetricsNamespace
	}
	if c.Subsystem == "" {
		c.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(c.DurationBuckets) == 0 {
		c.DurationBuckets = config.DefaultDurationBuckets
	}

	return &Collector{
		config:   &c,
		registry: registry,
		analysis: NewAnalysisMetrics(&c, registry),
		http:     NewHTTPMetrics(&c, registry),
		versions: NewCardinalityLimiter(DefaultMaxVersionLabels),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// version bounds the cardinality of a client-supplied version label.
func (c *Collector) version(v string) string {
	if c.versions.Allow(v) {
		return v
	}
	return OtherLabel
}

// RecordTokenize records a tokenize call.
func (c *Collector) RecordTokenize(version string, duration time.Duration, tokens, sourceBytes int) {
	if !c.enabled() {
		return
	}
	c.analysis.RecordTokenize(c.version(version), duration, tokens, sourceBytes)
}

// RecordValidate records a validate call.
func (c *Collector) RecordValidate(valid bool, duration time.Duration, errorKinds []string) {
	if !c.enabled() {
		return
	}
	c.analysis.RecordValidate(valid, duration, errorKinds)
}

// RecordCompletion records a completion request.
func (c *Collector) RecordCompletion(version string) {
	if !c.enabled() {
		return
	}
	c.analysis.RecordCompletion(c.version(version))
}

// RecordVersionSwitch records a version switch attempt.
func (c *Collector) RecordVersionSwitch(from, to string, ok bool) {
	if !c.enabled() {
		return
	}
	c.analysis.RecordVersionSwitch(c.version(from), c.version(to), ok)
}

// RecordHTTPRequest records an HTTP request by its route pattern.
func (c *Collector) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.http.RecordRequest(route, method, status, duration)
}

// SetActiveSessions updates the live session gauge.
func (c *Collector) SetActiveSessions(n int) {
	if !c.enabled() {
		return
	}
	c.http.SetActiveSessions(n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter caps the number of distinct label values.
type CardinalityLimiter struct {
	max     int
	mu      sync.RWMutex
	current map[string]struct{}
}

// NewCardinalityLimiter creates a limiter admitting at most max values.
func NewCardinalityLimiter(max int) *CardinalityLimiter {
	return &CardinalityLimiter{
		max:     max,
		current: make(map[string]struct{}),
	}
}

// Allow reports whether value may be used as a label. Values already seen
// are always allowed.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	_, ok := cl.current[value]
	cl.mu.RUnlock()
	if ok {
		return true
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	if _, ok := cl.current[value]; ok {
		return true
	}
	if len(cl.current) >= cl.max {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Count returns the number of admitted values.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
