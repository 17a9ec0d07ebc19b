// Package server exposes the CQL analyzer over HTTP for the browser IDE.
//
// The editor widget calls the service as the user types: tokens drive the
// highlighter, validation results fill the problems list, and completions
// feed autocomplete. Requests either name their grammar version or run
// inside a session, which holds one version manager per open editor.
//
// # Routes
//
//	GET    /v1/versions
//	POST   /v1/tokenize
//	POST   /v1/validate
//	GET    /v1/completions?version=&prefix=
//	POST   /v1/sessions
//	GET    /v1/sessions/{id}
//	DELETE /v1/sessions/{id}
//	PUT    /v1/sessions/{id}/version
//	POST   /v1/sessions/{id}/tokenize
//	POST   /v1/sessions/{id}/validate
//	GET    /v1/sessions/{id}/completions?prefix=
//
// Health probes and Prometheus metrics are mounted at the paths configured
// in config.TelemetryConfig.
//
// # Errors
//
// Error responses are JSON objects with an "error" field. An unknown
// grammar version answers 422 with a "suggestion" naming the closest
// registered version. Malformed bodies answer 400, oversized sources 413,
// and unknown sessions 404. Problems found in the CQL itself are never
// errors; they are reported in the validation result.
package server
