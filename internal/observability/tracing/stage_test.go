package tracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"chapterize/internal/observability/tracing"
)

func TestStartRunAndStage(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	shutdown := tracing.Setup(sdktrace.WithSyncer(exporter))
	defer func() {
		_ = shutdown(context.Background())
		otel.SetTracerProvider(sdktrace.NewTracerProvider())
	}()

	ctx, runSpan := tracing.StartRun(context.Background(), "run-42")
	stageCtx, stageSpan := tracing.StartStage(ctx, "segment")
	stageSpan.End()
	runSpan.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	// Child span is exported first.
	assert.Equal(t, "pipeline.segment", spans[0].Name)
	assert.Equal(t, "pipeline.run", spans[1].Name)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
	assert.NotNil(t, stageCtx)
}

func TestGetTracer(t *testing.T) {
	assert.NotNil(t, tracing.GetTracer())
}
