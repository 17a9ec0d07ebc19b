package logging

import "context"

type contextKey string

// Context keys for common log fields.
const (
	RequestIDKey      contextKey = "request_id"
	SessionIDKey      contextKey = "session_id"
	GrammarVersionKey contextKey = "grammar_version"
	TraceIDKey        contextKey = "trace_id"
	SpanIDKey         contextKey = "span_id"
)

// contextFields lists the keys extracted into log records, in output order.
var contextFields = []contextKey{
	RequestIDKey,
	SessionIDKey,
	GrammarVersionKey,
	TraceIDKey,
	SpanIDKey,
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// WithSessionID adds an editor session ID to the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}

// GetSessionID retrieves the editor session ID from the context.
func GetSessionID(ctx context.Context) string {
	return stringValue(ctx, SessionIDKey)
}

// WithGrammarVersion adds the active grammar version to the context.
func WithGrammarVersion(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, GrammarVersionKey, version)
}

// GetGrammarVersion retrieves the grammar version from the context.
func GetGrammarVersion(ctx context.Context) string {
	return stringValue(ctx, GrammarVersionKey)
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

// WithSpanID adds a span ID to the context.
func WithSpanID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SpanIDKey, id)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// extractContextFields returns the non-empty context fields as key/value
// pairs suitable for slog.
func extractContextFields(ctx context.Context) []any {
	var fields []any
	for _, key := range contextFields {
		if v := stringValue(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}

// Fields returns the context fields of ctx as slog key/value pairs, for
// callers that log through a plain *slog.Logger.
func Fields(ctx context.Context) []any {
	return extractContextFields(ctx)
}
