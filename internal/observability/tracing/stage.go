package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StartRun starts the root span for one pipeline run.
// The returned context carries the span; every stage span becomes its child.
func StartRun(ctx context.Context, runID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("run.id", runID)))
}

// StartStage starts a child span for a named pipeline stage.
//
// Example usage:
//
//	ctx, span := tracing.StartStage(ctx, "segment")
//	defer span.End()
func StartStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "pipeline."+stage,
		trace.WithAttributes(attribute.String("pipeline.stage", stage)))
}
