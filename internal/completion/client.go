// Package completion talks to an OpenAI-compatible chat completions API
// (OpenRouter by default).
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dmitrijs2005/talentscout/internal/logging"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-oss-20b:free"
	DefaultTimeout = 60 * time.Second
)

var ErrEmptyResponse = errors.New("completion returned no choices")

// Request is one instruction and its sampling settings.
type Request struct {
	Instruction string
	Temperature float32
	MaxTokens   int
}

// Completer returns the completion service's text for r.
type Completer interface {
	Complete(ctx context.Context, r Request) (string, error)
}

type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// Client is a Completer backed by go-openai.
type Client struct {
	api    *openai.Client
	model  string
	logger logging.Logger
}

func NewClient(cfg Config, l logging.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = baseURL
	oc.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		api:    openai.NewClientWithConfig(oc),
		model:  model,
		logger: l.With("module", "completion"),
	}
}

func (c *Client) Complete(ctx context.Context, r Request) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: r.Instruction},
		},
		Temperature: r.Temperature,
		MaxTokens:   r.MaxTokens,
	})
	if err != nil {
		c.logger.Warn(ctx, "chat completion failed", "model", c.model, "error", err)
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	c.logger.Debug(ctx, "chat completion", "model", c.model, "finish_reason", string(resp.Choices[0].FinishReason))
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
