package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/saturn/pkg/config"
)

// sourceSizeBuckets covers single expressions up to large measure libraries.
var sourceSizeBuckets = prometheus.ExponentialBuckets(64, 4, 8)

// AnalysisMetrics tracks tokenizer, validator, and completion work.
type AnalysisMetrics struct {
	tokenizeTotal    *prometheus.CounterVec
	tokenizeDuration *prometheus.HistogramVec
	tokensEmitted    *prometheus.CounterVec
	sourceBytes      prometheus.Histogram

	validateTotal    *prometheus.CounterVec
	validateDuration prometheus.Histogram
	bracketErrors    *prometheus.CounterVec

	completionsTotal *prometheus.CounterVec
	versionSwitches  *prometheus.CounterVec
}

// NewAnalysisMetrics creates and registers analysis metrics.
func NewAnalysisMetrics(cfg *config.MetricsConfig, registry prometheus.Registerer) *AnalysisMetrics {
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		}
	}
	histOpts := func(name, help string, buckets []float64) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		}
	}

	am := &AnalysisMetrics{
		tokenizeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts(opts("tokenize_total", "Number of tokenize calls")),
			[]string{"version"},
		),
		tokenizeDuration: prometheus.NewHistogramVec(
			histOpts("tokenize_duration_seconds", "Tokenize duration in seconds", cfg.DurationBuckets),
			[]string{"version"},
		),
		tokensEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts(opts("tokens_emitted_total", "Number of tokens emitted")),
			[]string{"version"},
		),
		sourceBytes: prometheus.NewHistogram(
			histOpts("source_bytes", "Size of analyzed source text in bytes", sourceSizeBuckets),
		),
		validateTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts(opts("validate_total", "Number of validate calls by result")),
			[]string{"result"},
		),
		validateDuration: prometheus.NewHistogram(
			histOpts("validate_duration_seconds", "Validate duration in seconds", cfg.DurationBuckets),
		),
		bracketErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts(opts("bracket_errors_total", "Bracket errors reported by kind")),
			[]string{"kind"},
		),
		completionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts(opts("completions_total", "Number of completion requests")),
			[]string{"version"},
		),
		versionSwitches: prometheus.NewCounterVec(
			prometheus.CounterOpts(opts("version_switches_total", "Grammar version switches by result")),
			[]string{"from", "to", "result"},
		),
	}

	registry.MustRegister(
		am.tokenizeTotal,
		am.tokenizeDuration,
		am.tokensEmitted,
		am.sourceBytes,
		am.validateTotal,
		am.validateDuration,
		am.bracketErrors,
		am.completionsTotal,
		am.versionSwitches,
	)
	return am
}

// RecordTokenize records one tokenize call.
func (am *AnalysisMetrics) RecordTokenize(version string, duration time.Duration, tokens, sourceBytes int) {
	am.tokenizeTotal.WithLabelValues(version).Inc()
	am.tokenizeDuration.WithLabelValues(version).Observe(duration.Seconds())
	am.tokensEmitted.WithLabelValues(version).Add(float64(tokens))
	am.sourceBytes.Observe(float64(sourceBytes))
}

// RecordValidate records one validate call. errorKinds holds the bracket
// kind of every reported error.
func (am *AnalysisMetrics) RecordValidate(valid bool, duration time.Duration, errorKinds []string) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	am.validateTotal.WithLabelValues(result).Inc()
	am.validateDuration.Observe(duration.Seconds())
	for _, kind := range errorKinds {
		am.bracketErrors.WithLabelValues(kind).Inc()
	}
}

// RecordCompletion records one completion request.
func (am *AnalysisMetrics) RecordCompletion(version string) {
	am.completionsTotal.WithLabelValues(version).Inc()
}

// RecordVersionSwitch records a version switch attempt.
func (am *AnalysisMetrics) RecordVersionSwitch(from, to string, ok bool) {
	result := "ok"
	if !ok {
		result = "rejected"
	}
	am.versionSwitches.WithLabelValues(from, to, result).Inc()
}
