package segment

import (
	"math"

	"chapterize/internal/utils/text"
)

// termVector is a term-frequency vector over tokenized text.
type termVector map[string]float64

// vectorize builds a term-frequency vector from raw text using the shared
// tokenizer (lowercased, stopwords removed).
func vectorize(s string) termVector {
	vec := make(termVector)
	for _, token := range text.Tokenize(s) {
		vec[token]++
	}
	return vec
}

// cosineSimilarity computes the cosine of the angle between two term vectors.
// A vector with no terms carries no topical signal, so any comparison against
// it returns -1, which callers treat as a hard topic boundary.
func cosineSimilarity(a, b termVector) float64 {
	var dot, normA, normB float64

	for term, weight := range a {
		normA += weight * weight
		if other, ok := b[term]; ok {
			dot += weight * other
		}
	}
	for _, weight := range b {
		normB += weight * weight
	}

	if normA == 0 || normB == 0 {
		return -1
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
