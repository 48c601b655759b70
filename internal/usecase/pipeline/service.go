// Package pipeline orchestrates a full run: transcribe, clean, segment, then
// summarize and extract keywords per chapter with bounded concurrency.
//
// A run that reaches segmentation always completes: model failures downgrade
// individual chapters to deterministic fallbacks and are reported in the run
// stats instead of aborting the run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"chapterize/internal/domain/entity"
	"chapterize/internal/observability/logging"
	"chapterize/internal/observability/metrics"
	"chapterize/internal/observability/tracing"
	"chapterize/internal/usecase/keywords"
	"chapterize/internal/usecase/transcript"
)

// Transcriber converts an audio file into a timestamped transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*entity.Transcript, error)
}

// Segmenter partitions a transcript into chapters.
type Segmenter interface {
	Chapterize(ctx context.Context, t *entity.Transcript) ([]entity.Chapter, error)
}

// Summarizer fills in a chapter's summary and its provenance.
type Summarizer interface {
	Summarize(ctx context.Context, ch *entity.Chapter)
}

// KeywordExtractor fills in a chapter's keywords and their provenance.
type KeywordExtractor interface {
	Extract(ctx context.Context, ch *entity.Chapter)
}

// Options configures run-level behavior.
type Options struct {
	// ChapterConcurrency bounds how many chapters are processed at once.
	ChapterConcurrency int

	// GlobalKeywords is the size of the document-level keyword list.
	GlobalKeywords int
}

// Service orchestrates pipeline runs.
type Service struct {
	Transcriber Transcriber
	Segmenter   Segmenter
	Summarizer  Summarizer
	Keywords    KeywordExtractor
	opts        Options
}

// NewService creates a pipeline service. The transcriber may be nil when runs
// always start from a pre-transcribed input.
func NewService(tr Transcriber, seg Segmenter, sum Summarizer, kw KeywordExtractor, opts Options) *Service {
	if opts.ChapterConcurrency < 1 {
		opts.ChapterConcurrency = 1
	}
	return &Service{
		Transcriber: tr,
		Segmenter:   seg,
		Summarizer:  sum,
		Keywords:    kw,
		opts:        opts,
	}
}

// Input describes one run. Exactly one of AudioPath or Transcript is used:
// a provided transcript skips the transcription stage.
type Input struct {
	AudioPath  string
	Transcript *entity.Transcript
}

// RunStats contains statistics about a completed run. The fallback and
// skipped counters are updated atomically by chapter workers.
type RunStats struct {
	RunID            string
	Segments         int
	Chapters         int
	SummaryFallbacks int64
	KeywordFallbacks int64
	SkippedChapters  int64
	Elapsed          time.Duration
}

// Run executes the pipeline and returns the chaptered document with run
// statistics. Stage failures before chapter processing (transcription,
// cleaning, segmentation) abort the run; from segmentation on, the run
// always completes. Cancellation stops scheduling new chapters but returns
// the document with the untouched chapters left empty.
func (s *Service) Run(ctx context.Context, input Input) (*entity.Document, *RunStats, error) {
	runID := uuid.New().String()
	logger := logging.WithRunID(slog.Default(), runID)
	ctx = logging.WithLogger(ctx, logger)

	ctx, span := tracing.StartRun(ctx, runID)
	defer span.End()

	start := time.Now()
	stats := &RunStats{RunID: runID}

	logger.InfoContext(ctx, "Pipeline run started",
		slog.String("audio_path", input.AudioPath),
		slog.Bool("pre_transcribed", input.Transcript != nil))

	raw, err := s.obtainTranscript(ctx, input)
	if err != nil {
		metrics.RecordRun(false)
		return nil, stats, err
	}

	cleaned, err := s.cleanStage(ctx, raw)
	if err != nil {
		metrics.RecordRun(false)
		return nil, stats, err
	}
	stats.Segments = len(cleaned.Segments)

	chapters, err := s.segmentStage(ctx, cleaned)
	if err != nil {
		metrics.RecordRun(false)
		return nil, stats, err
	}
	stats.Chapters = len(chapters)
	metrics.RecordChapters(len(chapters))

	doc := &entity.Document{
		AudioPath:  input.AudioPath,
		Transcript: *cleaned,
		Chapters:   chapters,
	}

	s.processChapters(ctx, doc, stats)
	s.globalKeywordStage(ctx, doc)

	stats.Elapsed = time.Since(start)
	metrics.RecordRun(true)

	logger.InfoContext(ctx, "Pipeline run completed",
		slog.Int("segments", stats.Segments),
		slog.Int("chapters", stats.Chapters),
		slog.Int64("summary_fallbacks", atomic.LoadInt64(&stats.SummaryFallbacks)),
		slog.Int64("keyword_fallbacks", atomic.LoadInt64(&stats.KeywordFallbacks)),
		slog.Int64("skipped_chapters", atomic.LoadInt64(&stats.SkippedChapters)),
		slog.Duration("elapsed", stats.Elapsed))

	return doc, stats, nil
}

// obtainTranscript runs the transcription stage, or returns the provided
// transcript after validation.
func (s *Service) obtainTranscript(ctx context.Context, input Input) (*entity.Transcript, error) {
	if input.Transcript != nil {
		if err := input.Transcript.Validate(); err != nil {
			return nil, fmt.Errorf("provided transcript: %w", err)
		}
		return input.Transcript, nil
	}

	if s.Transcriber == nil {
		return nil, fmt.Errorf("no transcriber configured and no transcript provided: %w", entity.ErrInvalidInput)
	}

	ctx, span := tracing.StartStage(ctx, "transcribe")
	defer span.End()

	start := time.Now()
	t, err := s.Transcriber.Transcribe(ctx, input.AudioPath)
	metrics.RecordStageDuration("transcribe", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("transcribe stage: %w", err)
	}
	return t, nil
}

func (s *Service) cleanStage(ctx context.Context, raw *entity.Transcript) (*entity.Transcript, error) {
	_, span := tracing.StartStage(ctx, "clean")
	defer span.End()

	start := time.Now()
	cleaned, err := transcript.Clean(raw)
	metrics.RecordStageDuration("clean", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("clean stage: %w", err)
	}
	return cleaned, nil
}

func (s *Service) segmentStage(ctx context.Context, cleaned *entity.Transcript) ([]entity.Chapter, error) {
	ctx, span := tracing.StartStage(ctx, "segment")
	defer span.End()

	start := time.Now()
	chapters, err := s.Segmenter.Chapterize(ctx, cleaned)
	metrics.RecordStageDuration("segment", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("segment stage: %w", err)
	}
	return chapters, nil
}

// processChapters summarizes and extracts keywords for every chapter through
// a bounded worker pool. Workers never fail; a cancelled context skips the
// chapters that have not started yet and leaves them empty.
func (s *Service) processChapters(ctx context.Context, doc *entity.Document, stats *RunStats) {
	ctx, span := tracing.StartStage(ctx, "chapters")
	defer span.End()

	start := time.Now()
	sem := make(chan struct{}, s.opts.ChapterConcurrency)
	var g errgroup.Group

	for i := range doc.Chapters {
		ch := &doc.Chapters[i]
		g.Go(func() error {
			if ctx.Err() != nil {
				atomic.AddInt64(&stats.SkippedChapters, 1)
				return nil
			}
			select {
			case <-ctx.Done():
				atomic.AddInt64(&stats.SkippedChapters, 1)
				return nil
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			s.Summarizer.Summarize(ctx, ch)
			s.Keywords.Extract(ctx, ch)

			if ch.SummarySource == entity.SourceFallback {
				atomic.AddInt64(&stats.SummaryFallbacks, 1)
			}
			if ch.KeywordSource == entity.SourceFallback {
				atomic.AddInt64(&stats.KeywordFallbacks, 1)
			}
			return nil
		})
	}

	// Workers only return nil; Wait is a barrier here.
	_ = g.Wait()

	metrics.RecordStageDuration("summarize", time.Since(start))
}

// globalKeywordStage aggregates chapter keywords into the document list.
func (s *Service) globalKeywordStage(ctx context.Context, doc *entity.Document) {
	_, span := tracing.StartStage(ctx, "keywords")
	defer span.End()

	start := time.Now()
	doc.GlobalKeywords = keywords.GlobalKeywords(doc.Chapters, s.opts.GlobalKeywords)
	metrics.RecordStageDuration("keywords", time.Since(start))
}
