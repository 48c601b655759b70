// Command chapterize turns a podcast recording (or a pre-transcribed JSON
// file) into topical chapters with summaries and keywords, rendered as a
// Markdown report or JSON export.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"chapterize/internal/config"
	"chapterize/internal/domain/entity"
	"chapterize/internal/infra/llm"
	"chapterize/internal/infra/render"
	"chapterize/internal/infra/search"
	"chapterize/internal/infra/transcriber"
	"chapterize/internal/observability/logging"
	"chapterize/internal/observability/tracing"
	"chapterize/internal/usecase/keywords"
	"chapterize/internal/usecase/pipeline"
	"chapterize/internal/usecase/segment"
	"chapterize/internal/usecase/summarize"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	var (
		audioPath      = flag.String("audio", "", "path to the audio file to transcribe and chapter")
		transcriptPath = flag.String("transcript", "", "path to a pre-transcribed JSON file (skips transcription)")
		configPath     = flag.String("config", "", "path to a YAML configuration file")
		format         = flag.String("format", "markdown", "output format: markdown or json")
		outPath        = flag.String("o", "", "write output to this file instead of stdout")
		searchQuery    = flag.String("search", "", "search the chaptered transcript and print matching positions")
		searchLimit    = flag.Int("search-limit", 5, "maximum number of search hits")
	)
	flag.Parse()

	if (*audioPath == "") == (*transcriptPath == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -audio or -transcript is required")
		flag.Usage()
		os.Exit(2)
	}
	if *format != "markdown" && *format != "json" {
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := tracing.Setup()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown failed", slog.Any("error", err))
		}
	}()

	// SIGINT/SIGTERM cancels the run; chapters not yet started stay empty
	// and the report is still produced.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	input, tr, err := buildInput(cfg, *audioPath, *transcriptPath)
	if err != nil {
		logger.Error("failed to prepare input", slog.Any("error", err))
		os.Exit(1)
	}

	svc := buildPipeline(logger, cfg, tr)

	doc, stats, err := svc.Run(ctx, input)
	if err != nil {
		logger.Error("pipeline run failed", slog.Any("error", err))
		os.Exit(1)
	}

	if *searchQuery != "" {
		if err := runSearch(ctx, cfg, doc, *searchQuery, *searchLimit); err != nil {
			logger.Error("search failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	if err := writeOutput(doc, stats, *format, *outPath); err != nil {
		logger.Error("failed to write output", slog.Any("error", err))
		os.Exit(1)
	}
}

// buildInput resolves the run input and, for audio input, the transcriber.
func buildInput(cfg config.PipelineConfig, audioPath, transcriptPath string) (pipeline.Input, pipeline.Transcriber, error) {
	if transcriptPath != "" {
		t, err := transcriber.LoadFromFile(transcriptPath)
		if err != nil {
			return pipeline.Input{}, nil, err
		}
		return pipeline.Input{Transcript: t}, nil, nil
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" && cfg.Transcription.BaseURL == "" {
		return pipeline.Input{}, nil, fmt.Errorf("OPENAI_API_KEY is required to transcribe audio")
	}

	whisper := transcriber.NewWhisper(apiKey, transcriber.WhisperConfig{
		Model:   transcriber.WhisperModelForQuality(cfg.Transcription.Quality, cfg.Transcription.BaseURL),
		BaseURL: cfg.Transcription.BaseURL,
		Timeout: cfg.Transcription.Timeout,
	})

	return pipeline.Input{AudioPath: audioPath}, whisper, nil
}

// buildPipeline wires the configured components into a pipeline service.
func buildPipeline(logger *slog.Logger, cfg config.PipelineConfig, tr pipeline.Transcriber) *pipeline.Service {
	generator := buildGenerator(logger, cfg)

	segmenter := segment.NewService(segment.Options{
		WindowSeconds:       float64(cfg.Segmentation.WindowSeconds),
		SimilarityThreshold: cfg.Segmentation.SimilarityThreshold,
		MinChapterSeconds:   float64(cfg.Segmentation.MinChapterSeconds),
	})

	summarizer := summarize.NewService(generator,
		cfg.Summarization.MaxChunkChars, cfg.Summarization.ChunkConcurrency)

	keyworder := keywords.NewService(generator,
		cfg.Keywords.MaxKeywords, cfg.Summarization.MaxChunkChars)

	return pipeline.NewService(tr, segmenter, summarizer, keyworder, pipeline.Options{
		ChapterConcurrency: cfg.ChapterConcurrency,
		GlobalKeywords:     cfg.Keywords.GlobalKeywords,
	})
}

// buildGenerator selects the model backend. Provider "none", or a missing
// API key, yields nil, which routes every chapter to the deterministic
// fallbacks.
func buildGenerator(logger *slog.Logger, cfg config.PipelineConfig) llm.Generator {
	llmConfig := llm.Config{
		MaxTokens:         1024,
		Timeout:           cfg.LLM.CallTimeout,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	}

	switch cfg.LLM.Provider {
	case config.ProviderClaude:
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Warn("ANTHROPIC_API_KEY not set, using fallback summaries and keywords")
			return nil
		}
		llmConfig.Model = llm.ClaudeModelForTier(cfg.LLM.ModelTier)
		return llm.NewClaude(apiKey, llmConfig)

	case config.ProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Warn("OPENAI_API_KEY not set, using fallback summaries and keywords")
			return nil
		}
		llmConfig.Model = llm.OpenAIModelForTier(cfg.LLM.ModelTier)
		return llm.NewOpenAI(apiKey, llmConfig)

	default:
		return nil
	}
}

// runSearch indexes the document and prints the matching segments.
func runSearch(ctx context.Context, cfg config.PipelineConfig, doc *entity.Document, query string, limit int) error {
	if !cfg.SearchEnabled {
		return fmt.Errorf("search is disabled by configuration")
	}

	idx, err := search.NewIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	if err := idx.IndexDocument(doc); err != nil {
		return err
	}

	hits, err := idx.Search(ctx, query, limit)
	if err != nil {
		return err
	}

	if len(hits) == 0 {
		fmt.Printf("no matches for %q\n", query)
		return nil
	}

	for _, h := range hits {
		fmt.Printf("[chapter %d, %.0fs-%.0fs] %s\n", h.ChapterID+1, h.Start, h.End, h.Text)
	}
	return nil
}

// writeOutput renders the document and writes it to the file or stdout.
func writeOutput(doc *entity.Document, stats *pipeline.RunStats, format, outPath string) error {
	var data []byte
	switch format {
	case "json":
		rendered, err := render.JSON(doc, stats)
		if err != nil {
			return err
		}
		data = rendered
	default:
		data = []byte(render.Markdown(doc, stats))
	}

	if outPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}
