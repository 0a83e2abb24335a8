package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	DefaultModelName = "gemini-1.5-flash"
	Source           = "gemini"
)

// ErrModelResponse marks a reply that arrived but cannot be used: no candidates,
// a blocked prompt, or parts that are not text.
var ErrModelResponse = errors.New("unusable response from Gemini API")

type IGemini interface {
	Generate(ctx context.Context, prompt string, jsonMode bool) (string, error)
	Name() string
	Close() error
}

type geminiClient struct {
	modelName string
	client    *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string, opts ...option.ClientOption) (IGemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	if modelName == "" {
		modelName = DefaultModelName
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		modelName: modelName,
		client:    client,
	}, nil
}

// Generate sends a single text prompt. With jsonMode the model is asked to
// answer with application/json; the reply is still returned as raw text.
func (g *geminiClient) Generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	if jsonMode {
		model.ResponseMIMEType = "application/json"
	}

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", fmt.Errorf("%w: %s", ErrModelResponse, blocked.Error())
		}
		return "", err
	}

	return responseText(res)
}

func (g *geminiClient) Name() string {
	return Source
}

func (g *geminiClient) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func responseText(res *genai.GenerateContentResponse) (string, error) {
	if res == nil {
		return "", fmt.Errorf("%w: empty response", ErrModelResponse)
	}

	if res.PromptFeedback != nil && res.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("%w: prompt blocked (%s)", ErrModelResponse, res.PromptFeedback.BlockReason)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrModelResponse)
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		text, ok := part.(genai.Text)
		if !ok {
			return "", fmt.Errorf("%w: unexpected part %T", ErrModelResponse, part)
		}
		sb.WriteString(string(text))
	}

	return sb.String(), nil
}
