package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxUpstreamBody caps how much of an upstream response is read.
const maxUpstreamBody = 4 << 20

// AnthropicConfig configures the upstream Messages API client.
type AnthropicConfig struct {
	APIKey     string
	Model      string
	MaxTokens  int
	URL        string
	Version    string
	HTTPClient *http.Client
}

// Anthropic implements Generator against the Anthropic Messages API.
type Anthropic struct {
	cfg    AnthropicConfig
	client *http.Client
}

// NewAnthropic creates an upstream client. A nil HTTPClient uses a client
// without a timeout.
func NewAnthropic(cfg AnthropicConfig) *Anthropic {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Anthropic{cfg: cfg, client: client}
}

// Configured reports whether a credential is present.
func (a *Anthropic) Configured() bool {
	return a.cfg.APIKey != ""
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Error   *apiError      `json:"error,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Generate sends one user message and returns the first text block.
func (a *Anthropic) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	if !a.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(messagesRequest{
		Model:     a.cfg.Model,
		MaxTokens: a.cfg.MaxTokens,
		System:    systemPrompt,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal upstream request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.cfg.APIKey)
	req.Header.Set("anthropic-version", a.cfg.Version)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return "", fmt.Errorf("read upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{StatusCode: resp.StatusCode}
	}

	var parsed messagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode upstream response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("upstream error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}

	for _, block := range parsed.Content {
		if block.Type == "text" || block.Type == "" {
			return block.Text, nil
		}
	}
	return "", ErrEmptyCompletion
}
