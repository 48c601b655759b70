// Package resilience provides reliability patterns for the external services
// the pipeline depends on.
//
// The circuitbreaker subpackage guards the model and speech APIs so a
// degraded backend fails fast instead of stalling a run. The retry
// subpackage provides exponential backoff with jitter for the transcription
// path; model generation calls are deliberately not retried, since the
// pipeline substitutes deterministic fallback content the moment a call
// fails.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.SpeechAPIConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callExternalService()
//	})
//
//	err := retry.WithBackoff(ctx, retry.SpeechAPIConfig(), func() error {
//	    return performOperation()
//	})
package resilience
