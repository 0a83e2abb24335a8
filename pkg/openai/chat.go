package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const Source = "openai"

const systemPrompt = `You are a personal assistant that understands short spoken commands about e-mail and calendars.
Answer concisely. When asked for JSON, return ONLY valid JSON, nothing else.`

var ErrModelResponse = errors.New("unusable response from OpenAI API")

type IChatGPT interface {
	Generate(ctx context.Context, prompt string, jsonMode bool) (string, error)
	Name() string
	Close() error
}

type chatGPTService struct {
	client *openai.Client
	model  string
}

// NewChatGPT builds a client for the OpenAI chat API or any server speaking
// the same protocol when baseURL is set.
func NewChatGPT(apiKey, model, baseURL string) (IChatGPT, error) {
	if apiKey == "" {
		return nil, errors.New("openai API key is required")
	}

	if model == "" {
		model = openai.GPT4oMini
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return &chatGPTService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

func (c *chatGPTService) Generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
	}

	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: %s", ErrModelResponse, apiErr.Message)
		}
		return "", fmt.Errorf("ChatGPT API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no choices", ErrModelResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *chatGPTService) Name() string {
	return Source
}

func (c *chatGPTService) Close() error {
	return nil
}
