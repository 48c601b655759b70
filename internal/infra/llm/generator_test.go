package llm

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaudeModelForTier(t *testing.T) {
	assert.Equal(t, "claude-sonnet-4-5-20250929", ClaudeModelForTier("quality"))
	assert.Equal(t, "claude-3-5-haiku-latest", ClaudeModelForTier("fast"))
	assert.Equal(t, "claude-3-5-haiku-latest", ClaudeModelForTier("unknown"))
}

func TestOpenAIModelForTier(t *testing.T) {
	assert.Equal(t, "gpt-4o", OpenAIModelForTier("quality"))
	assert.Equal(t, "gpt-4o-mini", OpenAIModelForTier("fast"))
	assert.Equal(t, "gpt-4o-mini", OpenAIModelForTier(""))
}

func TestNewLimiter(t *testing.T) {
	t.Run("zero disables limiting", func(t *testing.T) {
		assert.Nil(t, newLimiter(0))
		assert.NoError(t, waitForSlot(context.Background(), nil))
	})

	t.Run("positive rate creates limiter", func(t *testing.T) {
		limiter := newLimiter(60)
		require.NotNil(t, limiter)

		// First slot is available immediately.
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		assert.NoError(t, waitForSlot(ctx, limiter))
	})

	t.Run("wait respects context cancellation", func(t *testing.T) {
		limiter := newLimiter(1)
		require.NotNil(t, limiter)

		// Consume the only available slot.
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		require.NoError(t, waitForSlot(ctx, limiter))

		// The next wait cannot be satisfied within the deadline.
		err := waitForSlot(ctx, limiter)
		assert.Error(t, err)
	})
}

func TestNoOpGenerate(t *testing.T) {
	gen := NewNoOp()

	t.Run("short prompt returned unchanged", func(t *testing.T) {
		result, err := gen.Generate(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", result)
	})

	t.Run("long prompt truncated", func(t *testing.T) {
		prompt := strings.Repeat("a", 1000)
		result, err := gen.Generate(context.Background(), prompt)
		require.NoError(t, err)
		assert.Len(t, result, 503)
		assert.True(t, strings.HasSuffix(result, "..."))
	})
}

func TestNewPrometheusGenerationMetrics(t *testing.T) {
	first := NewPrometheusGenerationMetrics()
	second := NewPrometheusGenerationMetrics()

	// Singleton avoids duplicate registration.
	assert.Same(t, first, second)

	// Recording must not panic.
	first.RecordDuration(2 * time.Second)
	first.RecordOutputLength(420)
}
