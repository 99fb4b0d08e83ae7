package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// openaiExtractor works with any OpenAI-compatible provider via a custom base URL.
type openaiExtractor struct {
	client   openai.Client
	model    string
	provider Provider
}

// newOpenAIExtractor creates an extractor for Groq, Cerebras or a custom endpoint.
// endpoint overrides ProviderEndpoint when set.
func newOpenAIExtractor(provider Provider, apiKey, model, endpoint string) (*openaiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: api key is required", provider)
	}

	baseURL := endpoint
	if baseURL == "" {
		var ok bool
		baseURL, ok = ProviderEndpoint[provider]
		if !ok {
			return nil, fmt.Errorf("unsupported OpenAI-compatible provider: %s", provider)
		}
	}

	if model == "" {
		switch provider {
		case ProviderGroq:
			model = DefaultGroqModel
		case ProviderCerebras:
			model = DefaultCerebrasModel
		default:
			return nil, fmt.Errorf("model is required for provider: %s", provider)
		}
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &openaiExtractor{client: client, model: model, provider: provider}, nil
}

// Generate implements SlotExtractor.
func (e *openaiExtractor) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: e.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SlotSystemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(256),
	}

	start := time.Now()
	resp, err := e.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			err = &LLMError{Err: err, StatusCode: apiErr.StatusCode, Provider: e.provider}
		}
		slog.WarnContext(ctx, "slot extraction API call failed",
			"provider", e.provider,
			"model", e.model,
			"prompt_length", len(prompt),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "slot extraction completed",
			"provider", e.provider,
			"model", e.model,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"total_tokens", resp.Usage.TotalTokens,
			"duration_ms", duration.Milliseconds())
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Provider implements SlotExtractor.
func (e *openaiExtractor) Provider() Provider { return e.provider }

// Model implements SlotExtractor.
func (e *openaiExtractor) Model() string { return e.model }

// Close implements SlotExtractor.
func (e *openaiExtractor) Close() error { return nil }
