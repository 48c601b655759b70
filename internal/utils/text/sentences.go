package text

import "unicode"

// SplitSentences splits text on sentence boundaries using punctuation-based
// detection. A boundary lies after a run of terminal punctuation (. ! ?)
// followed by whitespace; the whitespace stays attached to the preceding
// sentence so that concatenating the returned slices reproduces the input
// exactly. Text without terminal punctuation is returned as one sentence.
//
// Returns nil for an empty input.
func SplitSentences(s string) []string {
	if s == "" {
		return nil
	}

	var sentences []string
	runes := []rune(s)
	start := 0
	i := 0

	for i < len(runes) {
		if !isTerminal(runes[i]) {
			i++
			continue
		}
		// Consume the full punctuation run ("..." or "?!").
		for i < len(runes) && isTerminal(runes[i]) {
			i++
		}
		if i >= len(runes) || !unicode.IsSpace(runes[i]) {
			continue
		}
		// Attach the whitespace run to the current sentence.
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		sentences = append(sentences, string(runes[start:i]))
		start = i
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
