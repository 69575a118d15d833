// Package relay forwards text-generation requests to the upstream API and
// provides the client used to reach the relay from the visitor side.
package relay

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no upstream credential is set.
var ErrNotConfigured = errors.New("API key not configured")

// ErrEmptyCompletion is returned when the upstream answers without text.
var ErrEmptyCompletion = errors.New("upstream returned no text")

// Generator produces text for a prompt and optional system prompt.
type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// UpstreamError reports a non-success status from a remote endpoint.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API request failed: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API request failed: %d", e.StatusCode)
}

// GenerateRequest is the relay's wire request body.
type GenerateRequest struct {
	Prompt       string `json:"prompt"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// GenerateResponse is the relay's wire response body. Exactly one of
// Text or Error is set.
type GenerateResponse struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}
