package llm

import (
	"context"
)

// NoOp is a generator that echoes a truncated form of the prompt without
// calling any model API. This is useful for testing and development when
// model output is not needed.
type NoOp struct{}

// NewNoOp creates a new NoOp generator.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Generate returns the prompt truncated to the first 500 bytes.
func (n *NoOp) Generate(_ context.Context, prompt string) (string, error) {
	const maxLength = 500
	if len(prompt) <= maxLength {
		return prompt, nil
	}
	return prompt[:maxLength] + "...", nil
}
