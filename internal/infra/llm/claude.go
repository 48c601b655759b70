package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"chapterize/internal/observability/metrics"
	"chapterize/internal/resilience/circuitbreaker"
	"chapterize/internal/utils/text"
)

// Claude implements the Generator interface using Anthropic's Claude API.
// Calls are rate limited and guarded by a circuit breaker. Failures are
// returned to the caller without retrying so the caller can fall back to
// deterministic content immediately.
type Claude struct {
	client          anthropic.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	limiter         *rate.Limiter
	config          Config
	metricsRecorder GenerationMetricsRecorder
}

// NewClaude creates a new Claude generator with the given API key.
// It automatically configures the circuit breaker, rate limiter,
// and metrics recording.
func NewClaude(apiKey string, config Config) *Claude {
	slog.Info("Initialized Claude generator with configuration",
		slog.String("model", config.Model),
		slog.Int("max_tokens", config.MaxTokens),
		slog.Duration("timeout", config.Timeout),
		slog.Int("requests_per_minute", config.RequestsPerMinute))

	return &Claude{
		client:          anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.LLMAPIConfig("claude-api")),
		limiter:         newLimiter(config.RequestsPerMinute),
		config:          config,
		metricsRecorder: NewPrometheusGenerationMetrics(),
	}
}

// Generate sends the prompt to Claude and returns the generated text.
// A failed call is not retried: the error is classified for metrics and
// returned so the caller can substitute fallback content.
func (c *Claude) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if err := waitForSlot(ctx, c.limiter); err != nil {
		return "", fmt.Errorf("claude rate limiter wait: %w", err)
	}

	cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doGenerate(ctx, prompt)
	})
	if err != nil {
		metrics.RecordModelCallFailure(FailureReason(err))
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("claude api circuit breaker open, request rejected",
				slog.String("service", "claude-api"),
				slog.String("state", c.circuitBreaker.State().String()))
			return "", fmt.Errorf("claude api unavailable: %w", err)
		}
		return "", err
	}

	return cbResult.(string), nil
}

// doGenerate performs the actual API call without the circuit breaker.
// It includes structured logging and metrics recording for observability.
func (c *Claude) doGenerate(ctx context.Context, prompt string) (string, error) {
	// Unique request ID for correlating log lines of a single call
	requestID := uuid.New().String()

	slog.InfoContext(ctx, "Starting generation",
		slog.String("request_id", requestID),
		slog.String("model", c.config.Model),
		slog.Int("prompt_length", text.CountRunes(prompt)))

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Generation failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		slog.ErrorContext(ctx, "Claude API returned empty response",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api: %w", ErrEmptyResponse)
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		slog.ErrorContext(ctx, "Claude API returned unexpected response type",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api returned unexpected response type: %w", ErrEmptyResponse)
	}

	generated := textBlock.Text
	if generated == "" {
		slog.ErrorContext(ctx, "Claude API returned empty text block",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api: %w", ErrEmptyResponse)
	}

	outputLength := text.CountRunes(generated)

	slog.InfoContext(ctx, "Generation completed",
		slog.String("request_id", requestID),
		slog.Int("output_length", outputLength),
		slog.Duration("duration", duration))

	c.metricsRecorder.RecordDuration(duration)
	c.metricsRecorder.RecordOutputLength(outputLength)

	return generated, nil
}
