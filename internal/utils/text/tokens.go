package text

import "regexp"

// stopwords are excluded from tokenization. The set intentionally covers only
// high-frequency English function words; anything rarer is left to the
// frequency ranking to sort out.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "to": {}, "of": {}, "in": {}, "a": {}, "for": {},
	"is": {}, "it": {}, "on": {}, "that": {}, "this": {}, "with": {}, "as": {},
	"at": {}, "by": {}, "from": {}, "or": {}, "an": {}, "be": {}, "are": {},
}

var wordPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z\-]+`)

// Tokenize extracts lowercase word tokens from text, filtering out stop words
// and tokens shorter than three characters. Used by the topic segmenter's
// continuity scoring and the frequency-based keyword fallback.
func Tokenize(s string) []string {
	matches := wordPattern.FindAllString(s, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		w := toLower(m)
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// IsStopword reports whether the lowercase word is in the stop-word set.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// toLower lowercases ASCII letters. The word pattern only matches ASCII, so a
// full Unicode case mapping is unnecessary.
func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
