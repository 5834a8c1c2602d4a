// Package llm is the boundary to the external language-model service. The
// rest of the application depends on the narrow Completer interface; the
// concrete client speaks the OpenAI chat-completions protocol, which is what
// Kimi/Moonshot-style endpoints expose.
package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Message is one prompt turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is the model capability consumed by the orchestrator and the
// quiz synthesis step. Implementations must surface failures (timeout, HTTP
// error, empty body) as errors rather than partial success, because callers
// key their fallback behavior off the error.
type Completer interface {
	Complete(ctx context.Context, msgs []Message, temperature float32, maxTokens int) (string, error)
}

// ErrEmptyCompletion is returned when the upstream responds 200 but carries
// no usable choice.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Client is a Completer backed by an OpenAI-compatible HTTP endpoint.
// Construct it once at startup and share it; it is safe for concurrent use
// and holds no per-request state.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a Client for the given endpoint. baseURL may be empty for
// the default OpenAI endpoint; timeout bounds every completion call.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// Complete sends one chat-completion request and returns the first choice's
// content. A single attempt, no retries: the caller decides whether failure
// means fallback or error.
func (c *Client) Complete(ctx context.Context, msgs []Message, temperature float32, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(msgs)),
	}
	for _, m := range msgs {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
