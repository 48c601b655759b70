// Package tracing provides OpenTelemetry tracing for the pipeline.
// Each batch run produces one root span with a child span per stage, so a
// slow run can be attributed to transcription, segmentation, or the
// language-model calls without reading logs.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the chapterize application.
var tracer = otel.Tracer("chapterize")

// GetTracer returns the global tracer for creating spans.
// This tracer can be used throughout the application to create new spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}

// Setup installs a tracer provider and returns a shutdown function that
// flushes pending spans. With no exporter configured the provider is
// effectively a no-op; tests install an in-memory exporter instead.
func Setup(opts ...sdktrace.TracerProviderOption) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
