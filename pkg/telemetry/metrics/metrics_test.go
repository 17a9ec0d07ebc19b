package metrics

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/saturn/pkg/config"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		Subsystem:       "cql",
		DurationBuckets: []float64{0.001, 0.01, 0.1},
	}
}

func TestNewCollector_Defaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	c := NewCollector(cfg, nil)

	if c.Registry() == nil {
		t.Fatal("expected registry")
	}
	if cfg.Namespace != "" {
		t.Error("NewCollector must not mutate the caller's config")
	}
	c.RecordCompletion("1.5.3")
	if got := testutil.ToFloat64(c.analysis.completionsTotal.WithLabelValues("1.5.3")); got != 1 {
		t.Errorf("completions = %v", got)
	}
}

func TestCollector_RecordTokenize(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.RecordTokenize("1.5.3", 2*time.Millisecond, 10, 120)
	c.RecordTokenize("1.5.3", time.Millisecond, 5, 60)
	c.RecordTokenize("1.4.0", time.Millisecond, 1, 10)

	if got := testutil.ToFloat64(c.analysis.tokenizeTotal.WithLabelValues("1.5.3")); got != 2 {
		t.Errorf("tokenize_total{1.5.3} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.analysis.tokensEmitted.WithLabelValues("1.5.3")); got != 15 {
		t.Errorf("tokens_emitted_total{1.5.3} = %v, want 15", got)
	}
	if got := testutil.CollectAndCount(c.analysis.tokenizeDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestCollector_RecordValidate(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.RecordValidate(true, time.Millisecond, nil)
	c.RecordValidate(false, time.Millisecond, []string{"closing", "opening", "closing"})

	if got := testutil.ToFloat64(c.analysis.validateTotal.WithLabelValues("valid")); got != 1 {
		t.Errorf("valid = %v", got)
	}
	if got := testutil.ToFloat64(c.analysis.validateTotal.WithLabelValues("invalid")); got != 1 {
		t.Errorf("invalid = %v", got)
	}
	if got := testutil.ToFloat64(c.analysis.bracketErrors.WithLabelValues("closing")); got != 2 {
		t.Errorf("closing errors = %v", got)
	}
}

func TestCollector_RecordVersionSwitch(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.RecordVersionSwitch("1.4.0", "1.5.3", true)
	c.RecordVersionSwitch("1.5.3", "9.9", false)

	if got := testutil.ToFloat64(c.analysis.versionSwitches.WithLabelValues("1.4.0", "1.5.3", "ok")); got != 1 {
		t.Errorf("ok switches = %v", got)
	}
	if got := testutil.ToFloat64(c.analysis.versionSwitches.WithLabelValues("1.5.3", "9.9", "rejected")); got != 1 {
		t.Errorf("rejected switches = %v", got)
	}
}

func TestCollector_VersionCardinality(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	for i := 0; i < DefaultMaxVersionLabels+10; i++ {
		c.RecordCompletion(fmt.Sprintf("v%d", i))
	}

	if got := c.versions.Count(); got != DefaultMaxVersionLabels {
		t.Errorf("admitted labels = %d", got)
	}
	if got := testutil.ToFloat64(c.analysis.completionsTotal.WithLabelValues(OtherLabel)); got != 10 {
		t.Errorf("other = %v, want 10", got)
	}
}

func TestCollector_HTTP(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.RecordHTTPRequest("/v1/tokenize", "POST", 200, 3*time.Millisecond)
	c.RecordHTTPRequest("/v1/tokenize", "POST", 422, time.Millisecond)
	c.SetActiveSessions(3)

	if got := testutil.ToFloat64(c.http.requestsTotal.WithLabelValues("/v1/tokenize", "POST", "422")); got != 1 {
		t.Errorf("422 requests = %v", got)
	}
	if got := testutil.ToFloat64(c.http.sessionsActive); got != 3 {
		t.Errorf("sessions = %v", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	c := NewCollector(cfg, prometheus.NewRegistry())

	c.RecordCompletion("1.5.3")
	if got := testutil.CollectAndCount(c.analysis.completionsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d series", got)
	}

	var nilCollector *Collector
	nilCollector.RecordTokenize("1.5.3", time.Millisecond, 1, 1)
	nilCollector.SetActiveSessions(1)
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())
	c.RecordCompletion("1.5.3")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test_cql_completions_total") {
		t.Errorf("metrics output missing completions_total:\n%s", rec.Body.String())
	}
}

func TestCardinalityLimiter(t *testing.T) {
	cl := NewCardinalityLimiter(2)
	if !cl.Allow("a") || !cl.Allow("b") {
		t.Fatal("first values should be allowed")
	}
	if cl.Allow("c") {
		t.Error("third value should be rejected")
	}
	if !cl.Allow("a") {
		t.Error("known value should stay allowed")
	}

	var wg sync.WaitGroup
	cl = NewCardinalityLimiter(10)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cl.Allow(fmt.Sprint(i % 20))
		}(i)
	}
	wg.Wait()
	if cl.Count() != 10 {
		t.Errorf("count = %d, want 10", cl.Count())
	}
}
