package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type contextKey string

const tracerKey contextKey = "tracer"

// ContextWithTracer returns a context carrying tracer.
func ContextWithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	if tracer == nil {
		return ctx
	}
	return context.WithValue(ctx, tracerKey, tracer)
}

// TracerFromContext returns the tracer stored in ctx, or a no-op tracer.
func TracerFromContext(ctx context.Context) trace.Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey).(trace.Tracer); ok {
			return t
		}
	}
	return noop.NewTracerProvider().Tracer("noop")
}

// TraceIDFromContext returns the trace ID of the active span in ctx, or ""
// when there is none.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
