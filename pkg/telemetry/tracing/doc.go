// Package tracing provides OpenTelemetry tracing for the analysis service.
//
// When tracing is disabled New returns a tracer backed by the noop provider,
// so call sites never check whether tracing is on:
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	defer tracer.Shutdown(ctx)
//
//	ctx, span := tracer.Start(ctx, "cql.tokenize")
//	tracing.SetTokenizeAttributes(span, version, len(src), len(tokens))
//	span.End()
//
// Spans are exported over OTLP/gRPC. Incoming W3C traceparent headers are
// honored by Middleware, which starts one server span per request.
package tracing
