// Package summarize produces chapter summaries. The primary path asks a
// language model; any generation failure switches the whole chapter to a
// deterministic extractive fallback, so a summary is always produced. Failed
// model calls are never retried here: the fallback is immediate.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"chapterize/internal/domain/entity"
	"chapterize/internal/infra/llm"
	"chapterize/internal/observability/metrics"
	"chapterize/internal/usecase/chunk"
	"chapterize/internal/utils/text"
)

// fallbackSentences is how many leading sentences the extractive fallback
// keeps.
const fallbackSentences = 5

// Service summarizes chapters.
type Service struct {
	generator        llm.Generator
	maxChunkChars    int
	chunkConcurrency int
}

// NewService creates a summarizer. A nil generator disables the model path
// entirely: every chapter gets the extractive fallback.
func NewService(generator llm.Generator, maxChunkChars, chunkConcurrency int) *Service {
	if chunkConcurrency < 1 {
		chunkConcurrency = 1
	}
	return &Service{
		generator:        generator,
		maxChunkChars:    maxChunkChars,
		chunkConcurrency: chunkConcurrency,
	}
}

// Summarize fills in ch.Summary and ch.SummarySource. It never fails: a
// model error on any call downgrades the whole chapter to the fallback.
// Summarizing the same chapter twice produces the same outcome for the same
// model behavior.
func (s *Service) Summarize(ctx context.Context, ch *entity.Chapter) {
	chapterText := ch.Text()

	if s.generator == nil {
		s.applyFallback(ctx, ch, chapterText, "no generator configured")
		return
	}

	summary, err := s.generate(ctx, ch.ID, chapterText)
	if err != nil {
		s.applyFallback(ctx, ch, chapterText, err.Error())
		return
	}

	ch.Summary = summary
	ch.SummarySource = entity.SourceModel
	metrics.RecordSummary(string(entity.SourceModel))
}

// generate produces a model summary for the chapter text, splitting into
// chunks when the text exceeds the per-call budget.
func (s *Service) generate(ctx context.Context, chapterID int, chapterText string) (string, error) {
	chunks := chunk.Plan(chapterText, s.maxChunkChars)

	if len(chunks) <= 1 {
		return s.generator.Generate(ctx, singlePrompt(chapterText))
	}

	slog.InfoContext(ctx, "Summarizing chapter in chunks",
		slog.Int("chapter_id", chapterID),
		slog.Int("chunks", len(chunks)),
		slog.Int("max_chunk_chars", s.maxChunkChars))

	partials, err := s.summarizeChunks(ctx, chunks)
	if err != nil {
		return "", err
	}

	return s.generator.Generate(ctx, mergePrompt(partials))
}

// summarizeChunks summarizes every chunk concurrently, bounded by the
// configured concurrency. All partial summaries must succeed before the
// merge; the first failure aborts the remaining work.
func (s *Service) summarizeChunks(ctx context.Context, chunks []string) ([]string, error) {
	partials := make([]string, len(chunks))
	sem := make(chan struct{}, s.chunkConcurrency)

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range chunks {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			partial, err := s.generator.Generate(gctx, chunkPrompt(i+1, len(chunks), c))
			if err != nil {
				return fmt.Errorf("summarize chunk %d of %d: %w", i+1, len(chunks), err)
			}
			partials[i] = partial
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return partials, nil
}

// applyFallback writes the extractive fallback summary into the chapter.
func (s *Service) applyFallback(ctx context.Context, ch *entity.Chapter, chapterText, reason string) {
	slog.WarnContext(ctx, "Using fallback summary",
		slog.Int("chapter_id", ch.ID),
		slog.String("reason", reason))

	ch.Summary = FallbackSummary(chapterText)
	ch.SummarySource = entity.SourceFallback
	metrics.RecordSummary(string(entity.SourceFallback))
}

// FallbackSummary returns the first sentences of the text as a deterministic
// stand-in for a model summary.
func FallbackSummary(chapterText string) string {
	sentences := text.SplitSentences(chapterText)
	if len(sentences) > fallbackSentences {
		sentences = sentences[:fallbackSentences]
	}
	return strings.TrimSpace(strings.Join(sentences, ""))
}

// singlePrompt is the one-shot prompt for chapters within the input budget.
func singlePrompt(chapterText string) string {
	return fmt.Sprintf(
		"Summarize the following podcast chapter in 4-5 sentences, focusing on the main topics discussed:\n\n%s",
		chapterText)
}

// chunkPrompt is the per-part prompt used when a chapter is split.
func chunkPrompt(part, total int, chunkText string) string {
	return fmt.Sprintf(
		"This is part %d of %d of a podcast chapter. Summarize this part in 2-3 sentences:\n\n%s",
		part, total, chunkText)
}

// mergePrompt combines the partial summaries into one final request.
func mergePrompt(partials []string) string {
	return fmt.Sprintf(
		"Combine the following partial summaries of one podcast chapter into a single coherent summary of 4-5 sentences:\n\n%s",
		strings.Join(partials, "\n\n"))
}
