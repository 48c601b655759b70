package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrEmptyTranscript indicates that a transcript has no segments.
	// This is an input error and is fatal to the run.
	ErrEmptyTranscript = errors.New("transcript is empty")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrPartitionViolation indicates that the chapter set does not partition
	// the transcript exactly. This is an internal defect, never recovered.
	ErrPartitionViolation = errors.New("chapter partition violation")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
