// Package llm provides text generation adapters for the Claude (Anthropic)
// and OpenAI chat APIs with reliability patterns. Calls are rate limited and
// guarded by a circuit breaker, with comprehensive observability through
// structured logging and Prometheus metrics.
//
// Generation failures are surfaced to the caller immediately rather than
// retried: the use case layer substitutes deterministic fallback content for
// a failed call, so a retry here would only delay that substitution.
package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Generator produces model text for a single prompt.
// Implementations are safe for concurrent use.
type Generator interface {
	// Generate sends the prompt to the model and returns the generated text.
	// A nil error guarantees a non-empty result.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds the parameters shared by all generator implementations.
type Config struct {
	// Model is the provider-specific model identifier.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Timeout is the maximum duration for a single generation API call.
	Timeout time.Duration

	// RequestsPerMinute caps the outbound call rate. Zero disables limiting.
	RequestsPerMinute int
}

// ClaudeModelForTier maps a model tier name to the Claude model identifier.
// Unknown tiers resolve to the fast model.
func ClaudeModelForTier(tier string) string {
	if tier == "quality" {
		return "claude-sonnet-4-5-20250929"
	}
	return "claude-3-5-haiku-latest"
}

// OpenAIModelForTier maps a model tier name to the OpenAI model identifier.
// Unknown tiers resolve to the fast model.
func OpenAIModelForTier(tier string) string {
	if tier == "quality" {
		return "gpt-4o"
	}
	return "gpt-4o-mini"
}

// newLimiter builds a rate limiter for the configured requests-per-minute
// budget. A nil limiter means unlimited.
func newLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

// waitForSlot blocks until the limiter grants a slot or the context ends.
func waitForSlot(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}
