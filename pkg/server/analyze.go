package server

import (
	"context"
	"time"

	"mercator-hq/saturn/pkg/cql/completion"
	"mercator-hq/saturn/pkg/cql/lexer"
	"mercator-hq/saturn/pkg/cql/versions"
	"mercator-hq/saturn/pkg/telemetry/tracing"
)

// tokenize runs the binding's tokenizer inside a span and records it.
func (s *Server) tokenize(ctx context.Context, b *versions.Binding, src string) []lexer.Token {
	_, span := s.tracer.Start(ctx, "cql.tokenize")
	defer span.End()

	start := time.Now()
	tokens := b.Tokenizer().Tokenize(src)
	if tokens == nil {
		tokens = []lexer.Token{}
	}
	s.metrics.RecordTokenize(b.Version(), time.Since(start), len(tokens), len(src))
	tracing.SetTokenizeAttributes(span, b.Version(), len(src), len(tokens))
	return tokens
}

// validateSource runs the binding's validator inside a span and converts
// the result into the problems list.
func (s *Server) validateSource(ctx context.Context, b *versions.Binding, src string) ValidateResponse {
	_, span := s.tracer.Start(ctx, "cql.validate")
	defer span.End()

	start := time.Now()
	res := b.Validator().Validate(src)
	kinds := make([]string, len(res.Errors))
	for i, e := range res.Errors {
		kinds[i] = string(e.Kind)
	}
	s.metrics.RecordValidate(res.IsValid, time.Since(start), kinds)
	tracing.SetValidateAttributes(span, len(src), res.IsValid, len(res.Errors))

	resp := ValidateResponse{
		IsValid:  res.IsValid,
		Errors:   res.Messages(),
		Problems: make([]Problem, len(res.Errors)),
	}
	for i, e := range res.Errors {
		resp.Problems[i] = Problem{
			Message: e.Message,
			Offset:  e.Position.Offset,
			Line:    e.Position.Line,
			Column:  e.Position.Column,
			Char:    e.Char,
			Kind:    string(e.Kind),
		}
	}
	return resp
}

// complete filters the binding's completion list inside a span. When
// nothing matches, the closest vocabulary word is offered instead.
func (s *Server) complete(ctx context.Context, b *versions.Binding, prefix string) CompletionsResponse {
	_, span := s.tracer.Start(ctx, "cql.complete")
	defer span.End()

	resp := CompletionsResponse{
		Version: b.Version(),
		Items:   b.Completion().Complete(prefix),
	}
	if resp.Items == nil {
		resp.Items = []completion.Item{}
	}
	if len(resp.Items) == 0 {
		resp.Suggestion = b.Completion().Suggest(prefix)
	}
	s.metrics.RecordCompletion(b.Version())
	tracing.SetCompletionAttributes(span, b.Version(), prefix, len(resp.Items))
	return resp
}
