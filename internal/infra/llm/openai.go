package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"chapterize/internal/observability/metrics"
	"chapterize/internal/resilience/circuitbreaker"
	"chapterize/internal/utils/text"
)

// OpenAI implements the Generator interface using OpenAI's chat completion
// API. It mirrors the Claude adapter: rate limited, circuit breaker guarded,
// no retries.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	limiter         *rate.Limiter
	config          Config
	metricsRecorder GenerationMetricsRecorder
}

// NewOpenAI creates a new OpenAI generator with the given API key.
func NewOpenAI(apiKey string, config Config) *OpenAI {
	slog.Info("Initialized OpenAI generator with configuration",
		slog.String("model", config.Model),
		slog.Int("max_tokens", config.MaxTokens),
		slog.Duration("timeout", config.Timeout),
		slog.Int("requests_per_minute", config.RequestsPerMinute))

	return &OpenAI{
		client:          openai.NewClient(apiKey),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.LLMAPIConfig("openai-api")),
		limiter:         newLimiter(config.RequestsPerMinute),
		config:          config,
		metricsRecorder: NewPrometheusGenerationMetrics(),
	}
}

// Generate sends the prompt to the OpenAI API and returns the generated text.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	if err := waitForSlot(ctx, o.limiter); err != nil {
		return "", fmt.Errorf("openai rate limiter wait: %w", err)
	}

	cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
		return o.doGenerate(ctx, prompt)
	})
	if err != nil {
		metrics.RecordModelCallFailure(FailureReason(err))
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("openai api circuit breaker open, request rejected",
				slog.String("service", "openai-api"),
				slog.String("state", o.circuitBreaker.State().String()))
			return "", fmt.Errorf("openai api unavailable: %w", err)
		}
		return "", err
	}

	return cbResult.(string), nil
}

// doGenerate performs the actual API call without the circuit breaker.
func (o *OpenAI) doGenerate(ctx context.Context, prompt string) (string, error) {
	slog.InfoContext(ctx, "Starting generation",
		slog.String("model", o.config.Model),
		slog.Int("prompt_length", text.CountRunes(prompt)))

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Generation failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}

	// Safety check to prevent panic on array access
	if len(resp.Choices) == 0 {
		slog.ErrorContext(ctx, "OpenAI API returned empty response",
			slog.Duration("duration", duration))
		return "", fmt.Errorf("openai api: %w", ErrEmptyResponse)
	}

	generated := resp.Choices[0].Message.Content
	if generated == "" {
		slog.ErrorContext(ctx, "OpenAI API returned empty message content",
			slog.Duration("duration", duration))
		return "", fmt.Errorf("openai api: %w", ErrEmptyResponse)
	}

	outputLength := text.CountRunes(generated)

	slog.InfoContext(ctx, "Generation completed",
		slog.Int("output_length", outputLength),
		slog.Duration("duration", duration))

	o.metricsRecorder.RecordDuration(duration)
	o.metricsRecorder.RecordOutputLength(outputLength)

	return generated, nil
}
