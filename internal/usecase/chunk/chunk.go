// Package chunk splits long text into sentence-aligned chunks for model
// calls whose input budget is smaller than a chapter.
package chunk

import (
	"chapterize/internal/utils/text"
)

// Plan splits s into chunks of at most maxChars bytes without breaking
// sentences. Sentences are packed greedily in order. A single sentence longer
// than maxChars becomes a chunk on its own rather than being split mid-word.
// Concatenating the returned chunks reproduces s exactly.
//
// maxChars must be positive; text at or under the limit yields one chunk.
func Plan(s string, maxChars int) []string {
	if s == "" {
		return nil
	}
	if len(s) <= maxChars {
		return []string{s}
	}

	sentences := text.SplitSentences(s)

	var chunks []string
	var current string
	for _, sentence := range sentences {
		switch {
		case current == "":
			current = sentence
		case len(current)+len(sentence) <= maxChars:
			current += sentence
		default:
			chunks = append(chunks, current)
			current = sentence
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}
