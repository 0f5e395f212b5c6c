package views

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/go-go-golems/boltkit/pkg/views"

func startSpan(ctx context.Context, method string, d Document) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("slack.view.type", string(d.Type)),
		attribute.Int("slack.view.blocks", len(d.Blocks)),
	}
	if d.CallbackID != "" {
		attrs = append(attrs, attribute.String("slack.view.callback_id", d.CallbackID))
	}
	return otel.Tracer(tracerName).Start(ctx, method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// recordError marks the span failed. The error itself is returned to the caller untouched.
func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
