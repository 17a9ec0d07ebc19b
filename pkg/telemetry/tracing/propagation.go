package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Extract returns ctx carrying any W3C trace context found in headers.
func Extract(ctx context.Context, headers http.Header) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(headers))
}

// Inject writes the trace context of ctx into headers.
func Inject(ctx context.Context, headers http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
}

// RouteFunc names the route that served a request, for span names.
// It is called after the handler returns.
type RouteFunc func(r *http.Request) string

// Middleware starts a server span per request, continuing any trace in the
// request headers. The trace ID is echoed in the X-Trace-ID response header.
// If route is non-nil, the span is renamed "<method> <route>" once the
// handler has run.
func (t *Tracer) Middleware(route RouteFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := Extract(r.Context(), r.Header)
			ctx, span := t.Start(ctx, "HTTP "+r.Method, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			if id := TraceID(ctx); id != "" {
				w.Header().Set("X-Trace-ID", id)
			}

			r = r.WithContext(ctx)
			next.ServeHTTP(w, r)

			if route != nil {
				if name := route(r); name != "" {
					span.SetName(r.Method + " " + name)
				}
			}
		})
	}
}
