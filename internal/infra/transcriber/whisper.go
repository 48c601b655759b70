package transcriber

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"chapterize/internal/domain/entity"
	"chapterize/internal/observability/metrics"
	"chapterize/internal/resilience/circuitbreaker"
	"chapterize/internal/resilience/retry"
)

// WhisperConfig holds configuration parameters for the Whisper transcriber.
type WhisperConfig struct {
	// Model is the speech-to-text model identifier.
	Model string

	// BaseURL overrides the API endpoint for OpenAI-compatible backends.
	// Empty uses the hosted OpenAI endpoint.
	BaseURL string

	// Timeout is the maximum duration for a single transcription call.
	// Long audio takes minutes to transcribe.
	Timeout time.Duration
}

// Whisper implements the Transcriber interface using the Whisper
// transcription API. Transient failures are retried with backoff; transcribing
// again is cheap compared to abandoning a run, unlike the per-chapter model
// calls downstream which fall back instead.
type Whisper struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         WhisperConfig
}

// NewWhisper creates a new Whisper transcriber with the given API key.
func NewWhisper(apiKey string, config WhisperConfig) *Whisper {
	clientConfig := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	slog.Info("Initialized Whisper transcriber with configuration",
		slog.String("model", config.Model),
		slog.String("base_url", config.BaseURL),
		slog.Duration("timeout", config.Timeout))

	return &Whisper{
		client:         openai.NewClientWithConfig(clientConfig),
		circuitBreaker: circuitbreaker.New(circuitbreaker.SpeechAPIConfig()),
		retryConfig:    retry.SpeechAPIConfig(),
		config:         config,
	}
}

// Transcribe converts the audio file at the given path into a transcript.
// It uses circuit breaker and retry logic for improved reliability.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (*entity.Transcript, error) {
	ctx, cancel := context.WithTimeout(ctx, w.config.Timeout)
	defer cancel()

	var result *entity.Transcript

	retryErr := retry.WithBackoff(ctx, w.retryConfig, func() error {
		cbResult, err := w.circuitBreaker.Execute(func() (interface{}, error) {
			return w.doTranscribe(ctx, audioPath)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("speech api circuit breaker open, request rejected",
					slog.String("service", "speech-api"),
					slog.String("state", w.circuitBreaker.State().String()))
				return fmt.Errorf("speech api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(*entity.Transcript)
		return nil
	})

	if retryErr != nil {
		return nil, fmt.Errorf("whisper transcribe failed after retries: %w", retryErr)
	}

	return result, nil
}

// doTranscribe performs the actual API call without retry or circuit breaker.
func (w *Whisper) doTranscribe(ctx context.Context, audioPath string) (*entity.Transcript, error) {
	slog.InfoContext(ctx, "Starting transcription",
		slog.String("audio_path", audioPath),
		slog.String("model", w.config.Model))

	start := time.Now()

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.config.Model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Transcription failed",
			slog.String("audio_path", audioPath),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("whisper api error: %w", err)
	}

	transcript := transcriptFromResponse(&resp)
	if err := transcript.Validate(); err != nil {
		slog.ErrorContext(ctx, "Transcription produced invalid transcript",
			slog.String("audio_path", audioPath),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("whisper response invalid: %w", err)
	}

	slog.InfoContext(ctx, "Transcription completed",
		slog.String("audio_path", audioPath),
		slog.Int("segments", len(transcript.Segments)),
		slog.Float64("audio_seconds", transcript.Duration()),
		slog.Duration("duration", duration))

	metrics.RecordSegments(len(transcript.Segments))

	return transcript, nil
}

// transcriptFromResponse converts a verbose Whisper response into a domain
// transcript. Whisper emits segment text with leading whitespace and the
// occasional empty segment; both are normalized away here.
func transcriptFromResponse(resp *openai.AudioResponse) *entity.Transcript {
	segments := make([]entity.Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segmentText := strings.TrimSpace(s.Text)
		if segmentText == "" {
			continue
		}
		segments = append(segments, entity.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  segmentText,
		})
	}
	return &entity.Transcript{Segments: segments}
}
