package entity

import (
	"fmt"
	"strings"
)

// MaxChapterKeywords is the maximum number of keywords attached to a chapter.
const MaxChapterKeywords = 8

// Provenance records how a chapter's summary or keywords were derived.
// Downstream consumers and tests can distinguish model output from the
// deterministic fallback without re-deriving it.
type Provenance string

const (
	// SourceNone means the field has not been populated yet (for example when
	// the run was cancelled before the chapter was processed).
	SourceNone Provenance = ""

	// SourceModel means the field was produced by the language model.
	SourceModel Provenance = "model"

	// SourceFallback means the field was produced by the deterministic
	// fallback after a language-model failure.
	SourceFallback Provenance = "fallback"
)

// Chapter is a contiguous range of transcript segments treated as one topic.
// It is created by the topic segmenter and mutated in place by the summarizer
// and keyword extractor; the two write disjoint fields and may run
// concurrently.
type Chapter struct {
	// ID is the zero-based chapter index in document order.
	ID int

	// StartIndex and EndIndex are inclusive segment indices into the
	// transcript. Consecutive chapters partition the transcript exactly.
	StartIndex int
	EndIndex   int

	// Start and End are the chapter's time range in seconds, derived from the
	// boundary segments.
	Start float64
	End   float64

	// Segments holds the covered transcript segments in original order.
	Segments []Segment

	// Summary is the 4-5 sentence abstract, populated by the summarizer.
	Summary string

	// SummarySource records whether Summary came from the model or the
	// extractive fallback.
	SummarySource Provenance

	// Keywords is the ranked keyword set, at most MaxChapterKeywords entries,
	// populated by the keyword extractor.
	Keywords []string

	// KeywordSource records whether Keywords came from the model or the
	// frequency fallback.
	KeywordSource Provenance
}

// Text returns the concatenation of the chapter's segment texts joined by
// single spaces.
func (c Chapter) Text() string {
	parts := make([]string, 0, len(c.Segments))
	for _, s := range c.Segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

// Document is the structured output of one pipeline run: ordered chapters
// over a single transcript plus run-level aggregates. Downstream rendering
// consumes it read-only.
type Document struct {
	// AudioPath is the source recording path, if the run started from audio.
	AudioPath string

	// Transcript is the cleaned transcript the chapters partition.
	Transcript Transcript

	// Chapters are ordered by start time and partition the transcript.
	Chapters []Chapter

	// GlobalKeywords aggregates the most frequent chapter keywords across the
	// whole recording.
	GlobalKeywords []string
}

// ValidatePartition verifies that the chapters form an exact partition of the
// transcript: contiguous index ranges, no gaps, no overlaps, full coverage.
// A violation is a defect in the segmenter, not an input error, so callers
// should fail fast rather than continue with inconsistent output.
func ValidatePartition(transcript Transcript, chapters []Chapter) error {
	if len(chapters) == 0 {
		return fmt.Errorf("%w: no chapters for %d segments", ErrPartitionViolation, len(transcript.Segments))
	}
	next := 0
	for i, ch := range chapters {
		if ch.StartIndex != next {
			return fmt.Errorf("%w: chapter %d starts at segment %d, expected %d", ErrPartitionViolation, i, ch.StartIndex, next)
		}
		if ch.EndIndex < ch.StartIndex {
			return fmt.Errorf("%w: chapter %d has end index %d before start index %d", ErrPartitionViolation, i, ch.EndIndex, ch.StartIndex)
		}
		if got, want := len(ch.Segments), ch.EndIndex-ch.StartIndex+1; got != want {
			return fmt.Errorf("%w: chapter %d holds %d segments, index range covers %d", ErrPartitionViolation, i, got, want)
		}
		next = ch.EndIndex + 1
	}
	if next != len(transcript.Segments) {
		return fmt.Errorf("%w: chapters cover %d of %d segments", ErrPartitionViolation, next, len(transcript.Segments))
	}
	return nil
}
