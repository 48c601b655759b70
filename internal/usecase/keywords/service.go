// Package keywords extracts ranked keywords for chapters and aggregates them
// across a document. The model path asks for a comma-separated list; any
// failure, including an unparseable or empty response, switches the chapter
// to a deterministic frequency-based fallback without retrying.
package keywords

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"chapterize/internal/domain/entity"
	"chapterize/internal/infra/llm"
	"chapterize/internal/observability/metrics"
	"chapterize/internal/usecase/chunk"
	"chapterize/internal/utils/text"
)

// Service extracts chapter keywords.
type Service struct {
	generator     llm.Generator
	maxKeywords   int
	maxChunkChars int
}

// NewService creates a keyword extractor. A nil generator disables the model
// path: every chapter gets the frequency fallback.
func NewService(generator llm.Generator, maxKeywords, maxChunkChars int) *Service {
	if maxKeywords <= 0 || maxKeywords > entity.MaxChapterKeywords {
		maxKeywords = entity.MaxChapterKeywords
	}
	return &Service{
		generator:     generator,
		maxKeywords:   maxKeywords,
		maxChunkChars: maxChunkChars,
	}
}

// Extract fills in ch.Keywords and ch.KeywordSource. It never fails: a model
// error or an empty parse downgrades the chapter to the frequency fallback.
func (s *Service) Extract(ctx context.Context, ch *entity.Chapter) {
	chapterText := ch.Text()

	if s.generator == nil {
		s.applyFallback(ctx, ch, chapterText, "no generator configured")
		return
	}

	raw, err := s.generate(ctx, chapterText)
	if err != nil {
		s.applyFallback(ctx, ch, chapterText, err.Error())
		return
	}

	parsed := ParseList(raw, s.maxKeywords)
	if len(parsed) == 0 {
		s.applyFallback(ctx, ch, chapterText, "model response contained no keywords")
		return
	}

	ch.Keywords = parsed
	ch.KeywordSource = entity.SourceModel
	metrics.RecordKeywordExtraction(string(entity.SourceModel))
}

// generate asks the model for keywords, going through the per-chunk path when
// the chapter exceeds the input budget.
func (s *Service) generate(ctx context.Context, chapterText string) (string, error) {
	chunks := chunk.Plan(chapterText, s.maxChunkChars)

	if len(chunks) <= 1 {
		return s.generator.Generate(ctx, listPrompt(s.maxKeywords, chapterText))
	}

	// Candidate keywords per chunk, then one selection call. Chunk calls run
	// sequentially: keyword lists are tiny and the summarizer already
	// saturates the model budget for long chapters.
	candidates := make([]string, 0, len(chunks))
	for i, c := range chunks {
		raw, err := s.generator.Generate(ctx, chunkPrompt(c))
		if err != nil {
			return "", fmt.Errorf("keywords for chunk %d of %d: %w", i+1, len(chunks), err)
		}
		candidates = append(candidates, raw)
	}

	return s.generator.Generate(ctx, selectionPrompt(s.maxKeywords, candidates))
}

// applyFallback writes frequency-ranked keywords into the chapter.
func (s *Service) applyFallback(ctx context.Context, ch *entity.Chapter, chapterText, reason string) {
	slog.WarnContext(ctx, "Using fallback keywords",
		slog.Int("chapter_id", ch.ID),
		slog.String("reason", reason))

	ch.Keywords = FallbackKeywords(chapterText, s.maxKeywords)
	ch.KeywordSource = entity.SourceFallback
	metrics.RecordKeywordExtraction(string(entity.SourceFallback))
}

// ParseList parses a comma-separated model response into at most limit
// keywords: lowercased, trimmed, deduplicated, original order preserved.
func ParseList(raw string, limit int) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	seen := make(map[string]struct{}, len(fields))
	keywords := make([]string, 0, limit)
	for _, f := range fields {
		kw := strings.ToLower(strings.Trim(f, " \t.\"'`"))
		if len(kw) <= 1 {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
		if len(keywords) == limit {
			break
		}
	}
	return keywords
}

// FallbackKeywords ranks the chapter's own vocabulary by frequency: count
// descending, then lexical ascending for equal counts.
func FallbackKeywords(chapterText string, limit int) []string {
	counts := make(map[string]int)
	for _, token := range text.Tokenize(chapterText) {
		counts[token]++
	}

	return rankByCount(counts, limit)
}

// GlobalKeywords aggregates chapter keywords across the document, ranked by
// how many chapters mention them, count descending then lexical ascending.
func GlobalKeywords(chapters []entity.Chapter, limit int) []string {
	counts := make(map[string]int)
	for _, ch := range chapters {
		for _, kw := range ch.Keywords {
			counts[kw]++
		}
	}

	return rankByCount(counts, limit)
}

// rankByCount orders the keys of counts by count descending, breaking ties
// lexically, and returns at most limit of them.
func rankByCount(counts map[string]int, limit int) []string {
	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}

// listPrompt asks for the chapter's keywords as a bare comma-separated list.
func listPrompt(limit int, chapterText string) string {
	return fmt.Sprintf(
		"Extract the %d most important keywords or key phrases from the following podcast chapter. Respond with only a comma-separated list, no numbering and no extra text:\n\n%s",
		limit, chapterText)
}

// chunkPrompt asks for candidate keywords from one part of a long chapter.
func chunkPrompt(chunkText string) string {
	return fmt.Sprintf(
		"Extract 5-6 candidate keywords from this part of a podcast chapter. Respond with only a comma-separated list:\n\n%s",
		chunkText)
}

// selectionPrompt narrows the per-chunk candidates to the final keyword set.
func selectionPrompt(limit int, candidates []string) string {
	return fmt.Sprintf(
		"From the following candidate keywords for one podcast chapter, select the %d most important. Respond with only a comma-separated list:\n\n%s",
		limit, strings.Join(candidates, ", "))
}
