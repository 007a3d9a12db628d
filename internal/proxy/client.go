// Package proxy provides a client for an OpenAI-compatible chat-completion
// proxy endpoint. The judge pipeline issues exactly one request per
// evaluation; failures are surfaced once, never retried.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultURL is the hosted completion proxy endpoint.
const DefaultURL = "https://api.braintrust.dev/v1/proxy/chat/completions"

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request holds the sampling parameters for one completion call.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Usage reports token consumption for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the decoded result of a successful call.
type Completion struct {
	Text         string
	FinishReason string
	Usage        Usage
}

type wireResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// Client issues chat-completion requests.
type Client struct {
	url    string
	apiKey string
	client *http.Client
	logger *zap.Logger
}

// NewClient creates a proxy client. An empty url selects the hosted proxy.
func NewClient(url, apiKey string, logger *zap.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 300 * time.Second},
		logger: logger,
	}
}

// Complete sends one chat-completion request and returns the model's text.
// A response with no choices is an EmptyResponseError; an empty body with
// finish_reason "length" is a TruncatedError, reported before any decoding
// of the text is attempted.
func (c *Client) Complete(ctx context.Context, req Request) (*Completion, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("completion request",
		zap.String("model", req.Model),
		zap.Int("max_tokens", req.MaxTokens),
		zap.Int("prompt_chars", promptChars(req.Messages)),
	)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: snippet(respBody)}
	}

	var wire wireResponse
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(wire.Choices) == 0 {
		return nil, &EmptyResponseError{Usage: wire.Usage}
	}

	choice := wire.Choices[0]
	if strings.TrimSpace(choice.Message.Content) == "" {
		if choice.FinishReason == "length" {
			return nil, &TruncatedError{Usage: wire.Usage}
		}
		return nil, &EmptyResponseError{Usage: wire.Usage}
	}

	return &Completion{
		Text:         choice.Message.Content,
		FinishReason: choice.FinishReason,
		Usage:        wire.Usage,
	}, nil
}

func promptChars(messages []Message) int {
	n := 0
	for _, m := range messages {
		n += len(m.Content)
	}
	return n
}

func snippet(b []byte) string {
	const max = 100
	s := string(b)
	if len(s) > max {
		return s[:max]
	}
	return s
}
