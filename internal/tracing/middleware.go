package tracing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RunFunc is a command body.
type RunFunc func(ctx context.Context, args []string) error

// WrapCommand runs fn inside a span named after the command and tagged
// with a fresh run id. Errors are recorded on the span and returned
// unchanged.
func WrapCommand(name string, fn RunFunc) RunFunc {
	return func(ctx context.Context, args []string) error {
		tracer := TracerFromContext(ctx)
		ctx, span := tracer.Start(ctx, SpanPrefixCommand+name,
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		span.SetAttributes(
			attribute.String(AttrCommand, name),
			attribute.String(AttrRunID, uuid.NewString()),
		)
		if len(args) > 0 {
			span.SetAttributes(attribute.String(AttrFile, args[0]))
		}

		err := fn(ctx, args)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.AddEvent(EventErrorOccured, trace.WithAttributes(
				attribute.String(AttrErrorMessage, err.Error()),
			))
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}

// AddEvent records an event on the span active in ctx.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
