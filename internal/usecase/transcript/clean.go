// Package transcript provides transcript normalization applied between
// transcription and topic segmentation.
package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"chapterize/internal/domain/entity"
)

// fillerPattern matches spoken filler words and phrases as whole words,
// case-insensitively. Multi-word phrases are listed before their prefixes so
// the alternation consumes the longest match.
var fillerPattern = regexp.MustCompile(`(?i)\b(you know|sort of|kind of|umm|um|uh|like)\b`)

// spacePattern collapses runs of whitespace left behind by filler removal.
var spacePattern = regexp.MustCompile(`\s+`)

// commaPattern collapses comma runs orphaned when a parenthetical filler
// phrase ("you know") is removed from between two commas.
var commaPattern = regexp.MustCompile(`,(\s*,)+`)

// CleanText removes filler words from a single piece of text and normalizes
// whitespace. Returns the empty string when nothing but filler remains.
func CleanText(s string) string {
	cleaned := fillerPattern.ReplaceAllString(s, " ")
	cleaned = spacePattern.ReplaceAllString(cleaned, " ")
	cleaned = commaPattern.ReplaceAllString(cleaned, ",")
	// Filler removal can orphan punctuation at the start of a segment.
	cleaned = strings.TrimLeft(cleaned, " ,;")
	return strings.TrimSpace(cleaned)
}

// Clean returns a copy of the transcript with filler words removed from every
// segment. Segment timestamps are preserved; segments reduced to nothing are
// dropped. Returns an error wrapping entity.ErrEmptyTranscript when cleaning
// removes every segment, since downstream stages require a non-empty
// transcript.
func Clean(t *entity.Transcript) (*entity.Transcript, error) {
	segments := make([]entity.Segment, 0, len(t.Segments))
	for _, s := range t.Segments {
		cleaned := CleanText(s.Text)
		if cleaned == "" {
			continue
		}
		segments = append(segments, entity.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  cleaned,
		})
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("cleaning removed all %d segments: %w", len(t.Segments), entity.ErrEmptyTranscript)
	}

	return &entity.Transcript{Segments: segments}, nil
}
