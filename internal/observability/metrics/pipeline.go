package metrics

import (
	"time"
)

// RecordRun records the outcome of a pipeline run.
func RecordRun(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	RunsTotal.WithLabelValues(outcome).Inc()
}

// RecordChapters records the number of chapters produced by a run.
func RecordChapters(count int) {
	ChaptersPerRun.Observe(float64(count))
}

// RecordStageDuration records the wall time of one pipeline stage.
// Stage names: "transcribe", "clean", "segment", "summarize", "keywords",
// "index", "render".
func RecordStageDuration(stage string, duration time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordSummary records a produced chapter summary with its provenance.
// Source should be "model" or "fallback".
func RecordSummary(source string) {
	SummariesTotal.WithLabelValues(source).Inc()
}

// RecordKeywordExtraction records a produced chapter keyword set with its
// provenance. Source should be "model" or "fallback".
func RecordKeywordExtraction(source string) {
	KeywordExtractionsTotal.WithLabelValues(source).Inc()
}

// RecordModelCallFailure records a classified language-model call failure.
// Reason is one of "auth", "quota", "network", "empty_response", "other".
func RecordModelCallFailure(reason string) {
	ModelCallFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordSegments records the number of segments entering a run.
func RecordSegments(count int) {
	SegmentsTranscribedTotal.Add(float64(count))
}
