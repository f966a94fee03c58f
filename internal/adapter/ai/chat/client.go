// Package chat implements domain.ChatClient against an OpenAI compatible
// chat completions API.
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/observability"
)

// DefaultTemperature is the sampling temperature used for suggestions.
const DefaultTemperature float32 = 0.7

// Client sends single-shot chat completions. It never retries.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	obs         *observability.ExternalClient
}

// Option customizes a Client.
type Option func(*Client)

// WithTemperature overrides DefaultTemperature.
func WithTemperature(t float32) Option {
	return func(c *Client) { c.temperature = t }
}

// New builds a client. timeout bounds the whole HTTP exchange.
func New(apiKey, baseURL, model string, timeout time.Duration, opts ...Option) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	c := &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: DefaultTemperature,
		obs:         observability.NewExternalClient(observability.ConnectionTypeAI, cfg.BaseURL, timeout),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Chat implements domain.ChatClient and returns the first choice's content.
func (c *Client) Chat(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
	}

	var content string
	err := c.obs.Execute(ctx, "chat_completion", func(ctx context.Context) error {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("no choices returned")
		}
		content = strings.TrimSpace(resp.Choices[0].Message.Content)
		if content == "" {
			return errors.New("empty content")
		}
		observability.LoggerFromContext(ctx).Debug("chat completion usage",
			"model", resp.Model,
			"prompt_tokens", resp.Usage.PromptTokens,
			"completion_tokens", resp.Usage.CompletionTokens,
		)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("op=chat.Chat: %w: %w", domain.ErrExternalService, err)
	}
	return content, nil
}
