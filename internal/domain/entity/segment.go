// Package entity defines the core domain entities and validation logic for the
// pipeline. It contains the fundamental business objects such as Segment,
// Transcript, and Chapter, along with their validation rules and domain-specific
// errors.
package entity

import (
	"fmt"
	"strings"
)

// Segment represents one timestamped unit of transcribed speech.
// Segments are produced by the transcription step and are immutable for the
// duration of a pipeline run.
type Segment struct {
	// Start is the segment start offset in seconds from the beginning of the
	// recording. Must be >= 0.
	Start float64

	// End is the segment end offset in seconds. Must be > Start.
	End float64

	// Text is the transcribed speech for this time range. Must be non-empty.
	Text string
}

// Validate checks that the segment's timestamps and text are well-formed.
// Returns a ValidationError describing the first violation found.
func (s Segment) Validate() error {
	if s.Start < 0 {
		return &ValidationError{Field: "start", Message: fmt.Sprintf("start time must be >= 0, got %f", s.Start)}
	}
	if s.End <= s.Start {
		return &ValidationError{Field: "end", Message: fmt.Sprintf("end time %f must be greater than start time %f", s.End, s.Start)}
	}
	if strings.TrimSpace(s.Text) == "" {
		return &ValidationError{Field: "text", Message: "segment text must not be empty"}
	}
	return nil
}

// Transcript is the ordered sequence of segments produced by transcription.
// Segments are ordered by non-decreasing start time and do not overlap.
type Transcript struct {
	Segments []Segment
}

// FullText returns the concatenation of all segment texts joined by single
// spaces. Used for chunk planning and the search index fallback.
func (t Transcript) FullText() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

// Duration returns the total duration of the transcript in seconds, which is
// the end time of the last segment. Returns 0 for an empty transcript.
func (t Transcript) Duration() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].End
}

// Validate checks the transcript invariants: non-empty, every segment valid,
// segments in non-decreasing start order without overlap.
// Returns ErrEmptyTranscript for an empty transcript so callers can treat it
// as an input error rather than a defect.
func (t Transcript) Validate() error {
	if len(t.Segments) == 0 {
		return ErrEmptyTranscript
	}
	for i, s := range t.Segments {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		if i > 0 {
			prev := t.Segments[i-1]
			if s.Start < prev.Start {
				return &ValidationError{
					Field:   "segments",
					Message: fmt.Sprintf("segment %d starts at %f before segment %d at %f", i, s.Start, i-1, prev.Start),
				}
			}
			if s.Start < prev.End {
				return &ValidationError{
					Field:   "segments",
					Message: fmt.Sprintf("segment %d overlaps segment %d", i, i-1),
				}
			}
		}
	}
	return nil
}
