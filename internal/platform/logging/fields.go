package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxFieldsKey struct{}

// ContextWith returns a context whose *Context log calls carry args as
// extra key/value pairs, after any pairs already attached.
func ContextWith(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	prev, _ := ctx.Value(ctxFieldsKey{}).([]zap.Field)
	merged := make([]zap.Field, 0, len(prev)+len(args)/2+1)
	merged = append(merged, prev...)
	merged = append(merged, fields(args)...)
	return context.WithValue(ctx, ctxFieldsKey{}, merged)
}

func contextFields(ctx context.Context) []zap.Field {
	out, _ := ctx.Value(ctxFieldsKey{}).([]zap.Field)
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return out
	}
	return append(out[:len(out):len(out)],
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// fields turns alternating key/value args into zap fields. A non-string key
// becomes "arg" and a trailing key without a value logs null.
func fields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		key, _ := args[i].(string)
		if key == "" {
			key = "arg"
		}
		if i+1 == len(args) {
			out = append(out, zap.Any(key, nil))
			break
		}
		switch v := args[i+1].(type) {
		case error:
			out = append(out, zap.NamedError(key, v))
		default:
			out = append(out, zap.Any(key, v))
		}
	}
	return out
}
