// Package llm wraps an OpenAI-compatible chat completion endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrEmptyPrompt  = errors.New("llm: empty prompt")
	ErrNoCompletion = errors.New("llm: no completion returned")
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client is constructed once at startup and handed to whoever needs it.
type Client struct {
	api   openai.Client
	model string
}

func New(cfg Config, opts ...option.RequestOption) *Client {
	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	all := append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(base),
	}, opts...)

	return &Client{
		api:   openai.NewClient(all...),
		model: cfg.Model,
	}
}

// Complete sends prompt, preceded by an optional system instruction, and
// returns the first choice.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	ctx, span := otel.Tracer("learner-portal/llm").Start(ctx, "llm.Complete")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	messages := []openai.ChatCompletionMessageParamUnion{}
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
