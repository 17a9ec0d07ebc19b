// Package metrics exposes Prometheus metrics for the CQL analyzer.
//
// Metrics (namespace and subsystem from config, default saturn_analyzer_):
//
//   - tokenize_total{version}, tokenize_duration_seconds{version},
//     tokens_emitted_total{version}, source_bytes (histogram)
//   - validate_total{result}, validate_duration_seconds, bracket_errors_total{kind}
//   - completions_total{version}
//   - version_switches_total{from,to,result}
//   - http_requests_total{route,method,status}, http_request_duration_seconds{route,method}
//   - sessions_active
//
// Version labels come from client input, so unregistered versions are folded
// into "other" once the cardinality limit is reached.
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle("/metrics", collector.Handler())
package metrics
