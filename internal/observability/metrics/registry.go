// Package metrics provides centralized Prometheus metrics for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics track the per-run behavior of the processing stages.
var (
	// RunsTotal counts completed pipeline runs by outcome
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	// ChaptersPerRun measures how many chapters the segmenter produced
	ChaptersPerRun = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_chapters_per_run",
			Help:    "Number of chapters produced per pipeline run",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
	)

	// StageDuration measures wall time per pipeline stage
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of each pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"stage"},
	)

	// SummariesTotal counts chapter summaries by provenance
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_summaries_total",
			Help: "Total chapter summaries produced, by source (model or fallback)",
		},
		[]string{"source"},
	)

	// KeywordExtractionsTotal counts chapter keyword sets by provenance
	KeywordExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_keyword_extractions_total",
			Help: "Total chapter keyword extractions, by source (model or fallback)",
		},
		[]string{"source"},
	)

	// ModelCallFailuresTotal counts classified language-model call failures
	ModelCallFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_model_call_failures_total",
			Help: "Total language-model call failures by classified reason",
		},
		[]string{"reason"},
	)

	// SegmentsTranscribedTotal counts transcript segments entering the pipeline
	SegmentsTranscribedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_segments_transcribed_total",
			Help: "Total transcript segments processed across runs",
		},
	)
)
