// Package logging provides structured logging with PHI redaction.
//
// # Overview
//
// The logging package wraps log/slog to provide:
//   - JSON, text, and console output formats
//   - Redaction of patient identifiers in logged CQL snippets
//   - Context fields (request, session, grammar version, trace)
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    RedactPHI: true,
//	})
//
//	logger.Info("validated source",
//	    "session_id", id,
//	    "snippet", src[:80], // MRN and SSN values are masked
//	)
//
//	ctx = logging.WithSessionID(ctx, id)
//	logger.InfoContext(ctx, "version switched") // includes session_id
//
// Packages that take a *slog.Logger get one from Logger.Slog; records
// written through it are redacted too.
//
// # PHI Redaction
//
// CQL libraries often embed test patients in comments and string literals.
// With RedactPHI enabled these are masked before they reach the handler:
//
//   - MRN: MRN: 00123456 -> MRN: [REDACTED]
//   - SSN: 123-45-6789 -> ***-**-****
//   - Emails: jane@example.org -> [EMAIL]
//   - Phone numbers: 555-123-4567 -> ***-***-****
//   - Bearer tokens: Bearer abc.def -> Bearer ***
package logging
