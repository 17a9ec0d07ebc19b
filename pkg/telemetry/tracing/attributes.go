package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys for CQL analysis.
const (
	AttrGrammarVersion   = attribute.Key("cql.grammar.version")
	AttrSourceBytes      = attribute.Key("cql.source.bytes")
	AttrTokenCount       = attribute.Key("cql.tokens.count")
	AttrValid            = attribute.Key("cql.validation.valid")
	AttrErrorCount       = attribute.Key("cql.validation.errors")
	AttrCompletionPrefix = attribute.Key("cql.completion.prefix")
	AttrCompletionItems  = attribute.Key("cql.completion.items")
	AttrSessionID        = attribute.Key("cql.session.id")
	AttrRequestID        = attribute.Key("http.request_id")
)

// SetTokenizeAttributes annotates a tokenize span.
func SetTokenizeAttributes(span trace.Span, version string, sourceBytes, tokens int) {
	span.SetAttributes(
		AttrGrammarVersion.String(version),
		AttrSourceBytes.Int(sourceBytes),
		AttrTokenCount.Int(tokens),
	)
}

// SetValidateAttributes annotates a validate span.
func SetValidateAttributes(span trace.Span, sourceBytes int, valid bool, errors int) {
	span.SetAttributes(
		AttrSourceBytes.Int(sourceBytes),
		AttrValid.Bool(valid),
		AttrErrorCount.Int(errors),
	)
}

// SetCompletionAttributes annotates a completion span.
func SetCompletionAttributes(span trace.Span, version, prefix string, items int) {
	span.SetAttributes(
		AttrGrammarVersion.String(version),
		AttrCompletionPrefix.String(prefix),
		AttrCompletionItems.Int(items),
	)
}

// SetSessionAttribute records the editor session a span belongs to.
func SetSessionAttribute(span trace.Span, sessionID string) {
	if sessionID == "" {
		return
	}
	span.SetAttributes(AttrSessionID.String(sessionID))
}
