package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var apiTracer = otel.Tracer("github.com/riskibarqy/carelink/internal/interfaces/httpapi")

// startSpan opens a child span for handlers and the access router. Other
// names, and requests without an active trace, get a no-op span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, noop.Span{}
	}
	ctx, span := apiTracer.Start(ctx, name)
	if id := requestIDFromContext(ctx); id != "" {
		span.SetAttributes(attribute.String("http.request_id", id))
	}
	return ctx, span
}

func shouldCreateHTTPAPISpan(name string) bool {
	handler, ok := strings.CutPrefix(name, "httpapi.Handler.")
	if ok {
		return handler != "" && !strings.HasPrefix(handler, "validate")
	}
	return name == "httpapi.AccessRouter"
}
