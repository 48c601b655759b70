package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chapterize/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, config.TierMedium, cfg.Transcription.Quality)
	assert.Equal(t, config.ProviderClaude, cfg.LLM.Provider)
	assert.Equal(t, config.ModelTierFast, cfg.LLM.ModelTier)
	assert.Equal(t, 60*time.Second, cfg.LLM.CallTimeout)
	assert.Equal(t, 30000, cfg.Summarization.MaxChunkChars)
	assert.Equal(t, 0.5, cfg.Segmentation.SimilarityThreshold)
	assert.Equal(t, 120, cfg.Segmentation.MinChapterSeconds)
	assert.Equal(t, 8, cfg.Keywords.MaxKeywords)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
transcription:
  quality: small
llm:
  provider: openai
  model_tier: quality
segmentation:
  similarity_threshold: 0.65
summarization:
  max_chunk_chars: 20000
chapter_concurrency: 8
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.TierSmall, cfg.Transcription.Quality)
	assert.Equal(t, config.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, config.ModelTierQuality, cfg.LLM.ModelTier)
	assert.Equal(t, 0.65, cfg.Segmentation.SimilarityThreshold)
	assert.Equal(t, 20000, cfg.Summarization.MaxChunkChars)
	assert.Equal(t, 8, cfg.ChapterConcurrency)
	// Untouched fields keep their defaults.
	assert.Equal(t, 8, cfg.Keywords.MaxKeywords)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: openai\n"), 0o600))

	t.Setenv("LLM_PROVIDER", "claude")
	t.Setenv("SEGMENTATION_SIMILARITY_THRESHOLD", "0.7")
	t.Setenv("CHAPTER_CONCURRENCY", "2")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.ProviderClaude, cfg.LLM.Provider)
	assert.Equal(t, 0.7, cfg.Segmentation.SimilarityThreshold)
	assert.Equal(t, 2, cfg.ChapterConcurrency)
}

func TestLoad_InvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("SEGMENTATION_SIMILARITY_THRESHOLD", "not-a-number")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Segmentation.SimilarityThreshold)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.PipelineConfig)
	}{
		{"unknown quality", func(c *config.PipelineConfig) { c.Transcription.Quality = "ultra" }},
		{"unknown provider", func(c *config.PipelineConfig) { c.LLM.Provider = "gemini" }},
		{"unknown tier", func(c *config.PipelineConfig) { c.LLM.ModelTier = "cheap" }},
		{"timeout too small", func(c *config.PipelineConfig) { c.LLM.CallTimeout = time.Millisecond }},
		{"negative rate", func(c *config.PipelineConfig) { c.LLM.RequestsPerMinute = -1 }},
		{"zero window", func(c *config.PipelineConfig) { c.Segmentation.WindowSeconds = 0 }},
		{"threshold above one", func(c *config.PipelineConfig) { c.Segmentation.SimilarityThreshold = 1.5 }},
		{"tiny chunk budget", func(c *config.PipelineConfig) { c.Summarization.MaxChunkChars = 10 }},
		{"zero chunk concurrency", func(c *config.PipelineConfig) { c.Summarization.ChunkConcurrency = 0 }},
		{"zero keywords", func(c *config.PipelineConfig) { c.Keywords.MaxKeywords = 0 }},
		{"concurrency too high", func(c *config.PipelineConfig) { c.ChapterConcurrency = 100 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
