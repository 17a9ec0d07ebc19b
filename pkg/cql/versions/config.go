package versions

import "mercator-hq/saturn/pkg/config"

// OptionsFromConfig maps the analyzer section of the configuration onto
// manager and cache options.
func OptionsFromConfig(cfg config.AnalyzerConfig) []Option {
	var opts []Option
	if cfg.ContextAwareValidation {
		opts = append(opts, WithContextAwareValidation())
	}
	if cfg.ReportAllUnclosed {
		opts = append(opts, WithReportAllUnclosed())
	}
	if cfg.DateTimeCategory {
		opts = append(opts, WithDateTimeCategory())
	}
	return opts
}
