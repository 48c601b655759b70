package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// ErrEmptyResponse indicates the model API succeeded but returned no usable
// text. Callers treat it the same as any other generation failure.
var ErrEmptyResponse = errors.New("model returned empty response")

// Failure reason labels recorded on the model call failure counter.
const (
	ReasonAuth          = "auth"
	ReasonQuota         = "quota"
	ReasonNetwork       = "network"
	ReasonEmptyResponse = "empty_response"
	ReasonOther         = "other"
)

// FailureReason classifies a generation error into a metrics label.
// The classification only drives observability: every failure class triggers
// the same fallback behavior in the caller.
func FailureReason(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrEmptyResponse) {
		return ReasonEmptyResponse
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return reasonForStatus(anthropicErr.StatusCode)
	}

	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) {
		return reasonForStatus(openaiErr.HTTPStatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, gobreaker.ErrOpenState) {
		return ReasonNetwork
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ReasonNetwork
	}

	return ReasonOther
}

// reasonForStatus maps an HTTP status code from a provider API error to a
// failure reason label.
func reasonForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ReasonAuth
	case status == http.StatusTooManyRequests:
		return ReasonQuota
	case status >= http.StatusInternalServerError:
		return ReasonNetwork
	default:
		return ReasonOther
	}
}
