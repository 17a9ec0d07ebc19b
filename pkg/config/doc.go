// Package config provides configuration management for Saturn.
//
// Configuration is loaded from a YAML file, layered over built-in defaults,
// and then overridden by environment variables:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("saturn.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SATURN_SECTION_FIELD.
// For example:
//
//   - SATURN_ANALYZER_DEFAULT_VERSION overrides analyzer.default_version
//   - SATURN_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - SATURN_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// List values (SATURN_WATCH_EXTENSIONS, SATURN_SERVER_CORS_ALLOWED_ORIGINS)
// are comma-separated.
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	analyzer:
//	  default_version: "1.5.3"
//	  grammar_dir: "./grammars"
//	  context_aware_validation: true
//
//	server:
//	  listen_address: "127.0.0.1:8090"
//	  session_ttl: "30m"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//
// The CLI keeps the loaded configuration in a process-wide value
// (Initialize, GetConfig). Library code takes a *Config argument instead.
package config
