// Package transcriber converts audio files into timestamped transcripts.
// It includes a Whisper API adapter with retry and circuit breaker logic,
// plus a loader for pre-transcribed JSON files so the pipeline can run
// without a speech-to-text backend.
package transcriber

import (
	"context"

	"chapterize/internal/domain/entity"
)

// Transcriber produces a timestamped transcript from an audio file.
type Transcriber interface {
	// Transcribe converts the audio file at the given path into a transcript.
	// The returned transcript is validated: non-empty, ordered, non-overlapping.
	Transcribe(ctx context.Context, audioPath string) (*entity.Transcript, error)
}

// WhisperModelForQuality maps a transcription quality tier to a model
// identifier. The hosted OpenAI endpoint exposes a single Whisper model, so
// every tier resolves to it there. Self-hosted OpenAI-compatible backends
// register per-size models, so a custom base URL selects by tier name.
func WhisperModelForQuality(quality, baseURL string) string {
	if baseURL == "" {
		return "whisper-1"
	}
	return "whisper-" + quality
}
