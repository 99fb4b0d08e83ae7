package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiExtractor calls Gemini with a JSON response MIME type.
type geminiExtractor struct {
	client *genai.Client
	model  string
}

func newGeminiExtractor(ctx context.Context, apiKey, model string) (*geminiExtractor, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiExtractor{client: client, model: model}, nil
}

// Generate implements SlotExtractor.
func (g *geminiExtractor) Generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SlotSystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0),
		MaxOutputTokens:   256,
	}

	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	duration := time.Since(start)

	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			err = &LLMError{Err: err, StatusCode: apiErr.Code, Provider: ProviderGemini}
		}
		slog.WarnContext(ctx, "slot extraction API call failed",
			"provider", ProviderGemini,
			"model", g.model,
			"prompt_length", len(prompt),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	text := collectText(result)

	if result.UsageMetadata != nil {
		slog.DebugContext(ctx, "slot extraction completed",
			"provider", ProviderGemini,
			"model", g.model,
			"input_tokens", result.UsageMetadata.PromptTokenCount,
			"output_tokens", result.UsageMetadata.CandidatesTokenCount,
			"total_tokens", result.UsageMetadata.TotalTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return text, nil
}

func collectText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 {
		return ""
	}
	candidate := result.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// Provider implements SlotExtractor.
func (g *geminiExtractor) Provider() Provider { return ProviderGemini }

// Model implements SlotExtractor.
func (g *geminiExtractor) Model() string { return g.model }

// Close implements SlotExtractor. genai.Client needs no explicit cleanup.
func (g *geminiExtractor) Close() error { return nil }
