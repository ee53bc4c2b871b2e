package httpapi

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	cases := map[string]bool{
		"httpapi.Handler.GetDashboard":    true,
		"httpapi.Handler.validateRequest": false,
		"httpapi.Handler.":                false,
		"httpapi.AccessRouter":            true,
		"httpapi.RequestLogging":          false,
		"httpapi.CORS":                    false,
	}
	for name, want := range cases {
		if got := shouldCreateHTTPAPISpan(name); got != want {
			t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", name, got, want)
		}
	}
}

func TestStartSpan_UntracedRequestGetsNoopSpan(t *testing.T) {
	ctx, span := startSpan(context.Background(), "httpapi.Handler.GetDashboard")
	if span.SpanContext().IsValid() {
		t.Fatalf("expected no-op span without a parent")
	}
	if trace.SpanFromContext(ctx).SpanContext().IsValid() {
		t.Fatalf("context must stay untraced")
	}
}

func TestStartSpan_ChildOfActiveTrace(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, root := tp.Tracer("test").Start(context.Background(), "root")
	defer root.End()

	_, span := startSpan(ctx, "httpapi.Handler.GetDashboard")
	defer span.End()
	if span.SpanContext().TraceID() != root.SpanContext().TraceID() {
		t.Fatalf("expected child span in the root trace")
	}

	_, helper := startSpan(ctx, "httpapi.CORS")
	if helper.SpanContext().IsValid() {
		t.Fatalf("helper names must not open spans")
	}
}
