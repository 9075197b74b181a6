package assistant

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"

	"jarvis/internal/config"
)

const SystemPrompt = "You are JARVIS, Tony Stark's AI assistant. Be helpful, intelligent, and concise. " +
	"Address the user respectfully (e.g., 'sir' when natural). Avoid citing sources verbatim. " +
	"If you don't know, say so and suggest alternatives. Defer song recognition to built-in features."

// Completer sends one system+user exchange to a chat model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIChat talks to any OpenAI-compatible chat completions endpoint
// (OpenAI itself, Groq, a local server).
type OpenAIChat struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

func NewOpenAIChat(client openai.Client, cfg config.Assistant) *OpenAIChat {
	return &OpenAIChat{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (c *OpenAIChat) Complete(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:       openai.ChatModel(c.model),
		Temperature: openai.Float(c.temperature),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(c.maxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty message content")
	}

	return content, nil
}
