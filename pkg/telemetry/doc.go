// Package telemetry groups the observability packages used by the analyzer
// service and the CLI.
//
// # Components
//
//   - logging: slog-based structured logging with PHI redaction
//   - metrics: Prometheus counters and histograms for tokenize, validate,
//     completion, and version switches
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//   - health: liveness and readiness probes
//
// Each component is configured from the matching block of
// config.TelemetryConfig and is safe to leave disabled.
package telemetry
