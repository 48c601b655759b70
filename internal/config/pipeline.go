// Package config defines the immutable pipeline configuration. Configuration
// is loaded once at startup from an optional YAML file plus environment
// variables (environment wins) and passed into components at construction;
// there is no runtime mutation and no ambient global state.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	pkgconfig "chapterize/internal/pkg/config"
)

// Transcription quality tiers, fastest to most accurate. Each tier maps to a
// Whisper model variant on the transcription backend.
const (
	TierTiny   = "tiny"
	TierBase   = "base"
	TierSmall  = "small"
	TierMedium = "medium"
	TierLarge  = "large"
)

// Language-model tiers. "fast" selects the cost-effective model of the
// configured provider, "quality" the stronger one.
const (
	ModelTierFast    = "fast"
	ModelTierQuality = "quality"
)

// LLM provider identifiers.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// PipelineConfig is the process-wide configuration for one pipeline run.
type PipelineConfig struct {
	// Transcription configures the speech-to-text collaborator.
	Transcription TranscriptionConfig `yaml:"transcription"`

	// LLM configures the language-model collaborator.
	LLM LLMConfig `yaml:"llm"`

	// Segmentation configures the topic segmenter.
	Segmentation SegmentationConfig `yaml:"segmentation"`

	// Summarization configures the summarizer and chunk planner.
	Summarization SummarizationConfig `yaml:"summarization"`

	// Keywords configures the keyword extractor.
	Keywords KeywordConfig `yaml:"keywords"`

	// ChapterConcurrency bounds the number of chapters processed in parallel.
	// Range: 1-32. Default: 4.
	ChapterConcurrency int `yaml:"chapter_concurrency"`

	// SearchEnabled controls whether the in-memory segment search index is
	// built after processing. Default: true.
	SearchEnabled bool `yaml:"search_enabled"`
}

// TranscriptionConfig holds settings for the transcription collaborator.
type TranscriptionConfig struct {
	// Quality selects the model variant:
	// tiny, base, small, medium, large. Default: medium.
	Quality string `yaml:"quality"`

	// BaseURL of the Whisper-compatible transcription endpoint. An empty
	// value uses the provider's public endpoint.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds one transcription call. Default: 10 minutes.
	Timeout time.Duration `yaml:"timeout"`
}

// LLMConfig holds settings for the language-model collaborator.
type LLMConfig struct {
	// Provider is the model backend: claude, openai, or none.
	// "none" disables model calls and forces the deterministic fallbacks.
	// Default: claude.
	Provider string `yaml:"provider"`

	// ModelTier selects fast (cost-effective) or quality. Default: fast.
	ModelTier string `yaml:"model_tier"`

	// CallTimeout bounds a single model call. Default: 60 seconds.
	CallTimeout time.Duration `yaml:"call_timeout"`

	// RequestsPerMinute limits client-side call rate across all workers.
	// Zero disables rate limiting. Default: 60.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// SegmentationConfig holds the topic segmenter's tuning parameters.
type SegmentationConfig struct {
	// WindowSeconds is the time-window size used for continuity scoring.
	// Default: 60.
	WindowSeconds int `yaml:"window_seconds"`

	// SimilarityThreshold is the continuity score below which a chapter
	// boundary is declared. Range: 0-1. Default: 0.5.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// MinChapterSeconds is the minimum accumulated chapter duration before a
	// boundary may be declared. Default: 120.
	MinChapterSeconds int `yaml:"min_chapter_seconds"`
}

// SummarizationConfig holds the summarizer's tuning parameters.
type SummarizationConfig struct {
	// MaxChunkChars is the character budget for one model call, a
	// conservative proxy for roughly a quarter as many tokens.
	// Default: 30000.
	MaxChunkChars int `yaml:"max_chunk_chars"`

	// ChunkConcurrency bounds parallel per-chunk model calls inside one
	// chapter. Default: 3.
	ChunkConcurrency int `yaml:"chunk_concurrency"`
}

// KeywordConfig holds the keyword extractor's tuning parameters.
type KeywordConfig struct {
	// MaxKeywords is the ranked keyword set size per chapter. Default: 8.
	MaxKeywords int `yaml:"max_keywords"`

	// GlobalKeywords is the size of the aggregated document-level keyword
	// list. Default: 20.
	GlobalKeywords int `yaml:"global_keywords"`
}

// Default returns a PipelineConfig with production-ready default values.
func Default() PipelineConfig {
	return PipelineConfig{
		Transcription: TranscriptionConfig{
			Quality: TierMedium,
			Timeout: 10 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:          ProviderClaude,
			ModelTier:         ModelTierFast,
			CallTimeout:       60 * time.Second,
			RequestsPerMinute: 60,
		},
		Segmentation: SegmentationConfig{
			WindowSeconds:       60,
			SimilarityThreshold: 0.5,
			MinChapterSeconds:   120,
		},
		Summarization: SummarizationConfig{
			MaxChunkChars:    30000,
			ChunkConcurrency: 3,
		},
		Keywords: KeywordConfig{
			MaxKeywords:    8,
			GlobalKeywords: 20,
		},
		ChapterConcurrency: 4,
		SearchEnabled:      true,
	}
}

// Load builds the pipeline configuration. The precedence is:
// defaults < YAML file (if path is non-empty) < environment variables.
// The result is validated before being returned; Load never returns a
// half-valid configuration.
func Load(path string) (PipelineConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return PipelineConfig{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return PipelineConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return PipelineConfig{}, fmt.Errorf("invalid pipeline configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration. Parse
// failures keep the previous value and log a warning.
func (c *PipelineConfig) applyEnv() {
	c.Transcription.Quality = pkgconfig.GetEnvString("TRANSCRIPTION_QUALITY", c.Transcription.Quality)
	c.Transcription.BaseURL = pkgconfig.GetEnvString("TRANSCRIPTION_BASE_URL", c.Transcription.BaseURL)
	c.Transcription.Timeout = pkgconfig.GetEnvDuration("TRANSCRIPTION_TIMEOUT", c.Transcription.Timeout)

	c.LLM.Provider = pkgconfig.GetEnvString("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.ModelTier = pkgconfig.GetEnvString("LLM_MODEL_TIER", c.LLM.ModelTier)
	c.LLM.CallTimeout = pkgconfig.GetEnvDuration("LLM_CALL_TIMEOUT", c.LLM.CallTimeout)
	c.LLM.RequestsPerMinute = pkgconfig.GetEnvInt("LLM_REQUESTS_PER_MINUTE", c.LLM.RequestsPerMinute)

	c.Segmentation.WindowSeconds = pkgconfig.GetEnvInt("SEGMENTATION_WINDOW_SECONDS", c.Segmentation.WindowSeconds)
	c.Segmentation.SimilarityThreshold = pkgconfig.GetEnvFloat("SEGMENTATION_SIMILARITY_THRESHOLD", c.Segmentation.SimilarityThreshold)
	c.Segmentation.MinChapterSeconds = pkgconfig.GetEnvInt("SEGMENTATION_MIN_CHAPTER_SECONDS", c.Segmentation.MinChapterSeconds)

	c.Summarization.MaxChunkChars = pkgconfig.GetEnvInt("SUMMARIZER_MAX_CHUNK_CHARS", c.Summarization.MaxChunkChars)
	c.Summarization.ChunkConcurrency = pkgconfig.GetEnvInt("SUMMARIZER_CHUNK_CONCURRENCY", c.Summarization.ChunkConcurrency)

	c.Keywords.MaxKeywords = pkgconfig.GetEnvInt("KEYWORDS_MAX", c.Keywords.MaxKeywords)
	c.Keywords.GlobalKeywords = pkgconfig.GetEnvInt("KEYWORDS_GLOBAL", c.Keywords.GlobalKeywords)

	c.ChapterConcurrency = pkgconfig.GetEnvInt("CHAPTER_CONCURRENCY", c.ChapterConcurrency)
	c.SearchEnabled = pkgconfig.GetEnvBool("SEARCH_INDEX_ENABLED", c.SearchEnabled)
}

// Validate checks that every configuration value is inside its valid range.
// Fail-closed: the pipeline refuses to start with an invalid configuration
// rather than guessing.
func (c PipelineConfig) Validate() error {
	switch c.Transcription.Quality {
	case TierTiny, TierBase, TierSmall, TierMedium, TierLarge:
	default:
		return fmt.Errorf("unknown transcription quality %q", c.Transcription.Quality)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Transcription.Timeout); err != nil {
		return fmt.Errorf("transcription timeout: %w", err)
	}

	switch c.LLM.Provider {
	case ProviderClaude, ProviderOpenAI, ProviderNone:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	switch c.LLM.ModelTier {
	case ModelTierFast, ModelTierQuality:
	default:
		return fmt.Errorf("unknown llm model tier %q", c.LLM.ModelTier)
	}
	if err := pkgconfig.ValidateDurationRange(c.LLM.CallTimeout, time.Second, 10*time.Minute); err != nil {
		return fmt.Errorf("llm call timeout: %w", err)
	}
	if c.LLM.RequestsPerMinute < 0 {
		return fmt.Errorf("llm requests per minute must be >= 0, got %d", c.LLM.RequestsPerMinute)
	}

	if c.Segmentation.WindowSeconds <= 0 {
		return fmt.Errorf("segmentation window must be positive, got %d", c.Segmentation.WindowSeconds)
	}
	if c.Segmentation.SimilarityThreshold < 0 || c.Segmentation.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in [0,1], got %f", c.Segmentation.SimilarityThreshold)
	}
	if c.Segmentation.MinChapterSeconds < 0 {
		return fmt.Errorf("minimum chapter length must be >= 0, got %d", c.Segmentation.MinChapterSeconds)
	}

	if c.Summarization.MaxChunkChars < 1000 {
		return fmt.Errorf("max chunk chars must be >= 1000, got %d", c.Summarization.MaxChunkChars)
	}
	if c.Summarization.ChunkConcurrency < 1 {
		return fmt.Errorf("chunk concurrency must be >= 1, got %d", c.Summarization.ChunkConcurrency)
	}

	if c.Keywords.MaxKeywords < 1 || c.Keywords.MaxKeywords > 32 {
		return fmt.Errorf("max keywords must be in 1-32, got %d", c.Keywords.MaxKeywords)
	}
	if c.Keywords.GlobalKeywords < 1 {
		return fmt.Errorf("global keywords must be >= 1, got %d", c.Keywords.GlobalKeywords)
	}

	if c.ChapterConcurrency < 1 || c.ChapterConcurrency > 32 {
		return fmt.Errorf("chapter concurrency must be in 1-32, got %d", c.ChapterConcurrency)
	}
	return nil
}
