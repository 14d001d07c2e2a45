package reasoning

import (
	"context"

	"github.com/gothink/gothink/pkg/thought"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const reasoningTracerName = "gothink.reasoning"

const (
	spanSubmitThought = "reasoning.submit"
	spanSuggestNext   = "reasoning.suggest"
)

func reasoningTracer() trace.Tracer {
	return otel.Tracer(reasoningTracerName)
}

// startSubmitSpan opens the span covering gate screening and state application.
func startSubmitSpan(ctx context.Context, rec *thought.Record) (context.Context, trace.Span) {
	ctx, span := reasoningTracer().Start(ctx, spanSubmitThought)
	span.SetAttributes(
		attribute.Int("thought.number", rec.ThoughtNumber),
		attribute.String("thought.branch_id", rec.BranchID),
		attribute.Bool("thought.is_revision", rec.IsRevision),
	)
	return ctx, span
}

// startSuggestSpan opens the span covering candidate scoring.
func startSuggestSpan(ctx context.Context, strategy string) (context.Context, trace.Span) {
	ctx, span := reasoningTracer().Start(ctx, spanSuggestNext)
	span.SetAttributes(attribute.String("mcts.strategy", strategy))
	return ctx, span
}

// endSpan sets the span status from the operation error and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	} else {
		span.SetStatus(otelcodes.Ok, "")
	}
	span.End()
}
