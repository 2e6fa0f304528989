package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "boss"

// StartAskSpan starts the span covering one ask, across all rounds.
func StartAskSpan(ctx context.Context, taskID, intent string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "ask",
		trace.WithAttributes(
			attribute.String("task.id", taskID),
			attribute.String("task.intent", intent),
		),
	)
}

// StartRoundSpan starts a span for one routing round.
func StartRoundSpan(ctx context.Context, taskID string, round int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "round",
		trace.WithAttributes(
			attribute.String("task.id", taskID),
			attribute.Int("round", round),
		),
	)
}

// StartOwnerSpan starts a span for a single owner call within a round.
func StartOwnerSpan(ctx context.Context, owner string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "owner",
		trace.WithAttributes(attribute.String("owner.id", owner)),
	)
}
