package keywords

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chapterize/internal/domain/entity"
)

type fakeGenerator struct {
	calls   []string
	respond func(prompt string) (string, error)
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls = append(f.calls, prompt)
	return f.respond(prompt)
}

func chapterOf(text string) *entity.Chapter {
	return &entity.Chapter{
		Segments: []entity.Segment{{Start: 0, End: 60, Text: text}},
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		limit int
		want  []string
	}{
		{
			name:  "plain comma list",
			raw:   "neural networks, backpropagation, gradient descent",
			limit: 8,
			want:  []string{"neural networks", "backpropagation", "gradient descent"},
		},
		{
			name:  "lowercased and deduplicated",
			raw:   "Go, concurrency, go, Channels, concurrency",
			limit: 8,
			want:  []string{"go", "concurrency", "channels"},
		},
		{
			name:  "quotes and trailing period stripped",
			raw:   `"testing", 'mocks', benchmarks.`,
			limit: 8,
			want:  []string{"testing", "mocks", "benchmarks"},
		},
		{
			name:  "newline separated",
			raw:   "alpha\nbeta\ngamma",
			limit: 8,
			want:  []string{"alpha", "beta", "gamma"},
		},
		{
			name:  "capped at limit",
			raw:   "a1, a2, a3, a4, a5",
			limit: 3,
			want:  []string{"a1", "a2", "a3"},
		},
		{
			name:  "single characters dropped",
			raw:   "a, golang, b, testing",
			limit: 8,
			want:  []string{"golang", "testing"},
		},
		{
			name:  "empty response",
			raw:   "   ",
			limit: 8,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseList(tt.raw, tt.limit))
		})
	}
}

func TestExtract_ModelPath(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		return "Neural Networks, Backpropagation, Gradient Descent, Training Data", nil
	}}
	svc := NewService(gen, 8, 30000)

	ch := chapterOf("Today we explain how neural networks learn through backpropagation.")
	svc.Extract(context.Background(), ch)

	assert.Equal(t, []string{"neural networks", "backpropagation", "gradient descent", "training data"}, ch.Keywords)
	assert.Equal(t, entity.SourceModel, ch.KeywordSource)
	require.Len(t, gen.calls, 1)
	assert.Contains(t, gen.calls[0], "8 most important keywords")
}

func TestExtract_ModelFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		return "", errors.New("rate limited")
	}}
	svc := NewService(gen, 3, 30000)

	ch := chapterOf("backpropagation tunes weights and backpropagation updates weights during neural training")
	svc.Extract(context.Background(), ch)

	assert.Equal(t, entity.SourceFallback, ch.KeywordSource)
	// backpropagation and weights appear twice, everything else once; ties
	// break lexically.
	assert.Equal(t, []string{"backpropagation", "weights", "during"}, ch.Keywords)
	// A single failed attempt, never retried.
	assert.Len(t, gen.calls, 1)
}

func TestExtract_EmptyResponseFallsBack(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		return "  \n ", nil
	}}
	svc := NewService(gen, 8, 30000)

	ch := chapterOf("Some chapter about distributed queues and brokers.")
	svc.Extract(context.Background(), ch)

	assert.Equal(t, entity.SourceFallback, ch.KeywordSource)
	assert.NotEmpty(t, ch.Keywords)
}

func TestExtract_ChunkedPath(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "select the") {
			return "queues, brokers, delivery", nil
		}
		return "candidate one, candidate two", nil
	}}
	svc := NewService(gen, 8, 60)

	ch := chapterOf("First topic sentence here. Second topic sentence here. Third topic sentence here.")
	svc.Extract(context.Background(), ch)

	assert.Equal(t, []string{"queues", "brokers", "delivery"}, ch.Keywords)
	assert.Equal(t, entity.SourceModel, ch.KeywordSource)

	// Two chunk calls then one selection call, in order.
	require.Len(t, gen.calls, 3)
	assert.Contains(t, gen.calls[0], "candidate keywords from this part")
	assert.Contains(t, gen.calls[1], "candidate keywords from this part")
	assert.Contains(t, gen.calls[2], "select the 8 most important")
	assert.Contains(t, gen.calls[2], "candidate one")
}

func TestExtract_NilGeneratorUsesFallback(t *testing.T) {
	svc := NewService(nil, 8, 30000)

	ch := chapterOf("Compilers optimize code and compilers generate code.")
	svc.Extract(context.Background(), ch)

	assert.Equal(t, entity.SourceFallback, ch.KeywordSource)
	assert.Contains(t, ch.Keywords, "compilers")
}

func TestFallbackKeywords(t *testing.T) {
	t.Run("stopwords excluded and short tokens dropped", func(t *testing.T) {
		got := FallbackKeywords("the go scheduler and the go runtime", 8)
		assert.NotContains(t, got, "the")
		assert.NotContains(t, got, "and")
		assert.NotContains(t, got, "go")
		assert.Contains(t, got, "scheduler")
		assert.Contains(t, got, "runtime")
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, FallbackKeywords("", 8))
	})
}

func TestGlobalKeywords(t *testing.T) {
	chapters := []entity.Chapter{
		{Keywords: []string{"kubernetes", "deployment", "scaling"}},
		{Keywords: []string{"kubernetes", "networking"}},
		{Keywords: []string{"kubernetes", "deployment"}},
	}

	t.Run("ranked by chapter mentions", func(t *testing.T) {
		got := GlobalKeywords(chapters, 20)
		require.Len(t, got, 4)
		assert.Equal(t, "kubernetes", got[0])
		assert.Equal(t, "deployment", got[1])
		// Single-mention keywords tie and sort lexically.
		assert.Equal(t, []string{"networking", "scaling"}, got[2:])
	})

	t.Run("limit applied", func(t *testing.T) {
		got := GlobalKeywords(chapters, 2)
		assert.Equal(t, []string{"kubernetes", "deployment"}, got)
	})

	t.Run("no chapters", func(t *testing.T) {
		assert.Empty(t, GlobalKeywords(nil, 20))
	})
}
