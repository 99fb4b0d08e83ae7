// Package genai wraps the language model providers used as the primary slot extractor.
//
// Architecture:
//   - Gemini: google.golang.org/genai (official SDK)
//   - Groq/Cerebras/custom OpenAI endpoints: github.com/openai/openai-go/v3
//
// Exactly one provider is selected at startup and called at most once per request.
// There is no retry and no provider chain; failures degrade to the deterministic extractor.
package genai

import (
	"context"
	"time"
)

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderGemini represents Google's Gemini API (non-OpenAI-compatible).
	ProviderGemini Provider = "gemini"
	// ProviderGroq represents Groq's API (OpenAI-compatible).
	ProviderGroq Provider = "groq"
	// ProviderCerebras represents Cerebras's API (OpenAI-compatible).
	ProviderCerebras Provider = "cerebras"
	// ProviderOpenAI represents any OpenAI-compatible endpoint configured by URL.
	ProviderOpenAI Provider = "openai"
)

// ProviderEndpoint defines the base URL for OpenAI-compatible providers.
// ProviderOpenAI has no fixed endpoint; it must be configured.
var ProviderEndpoint = map[Provider]string{
	ProviderGroq:     "https://api.groq.com/openai/v1/",
	ProviderCerebras: "https://api.cerebras.ai/v1/",
}

// IsOpenAICompatible returns true if the provider uses the OpenAI chat completions API.
func (p Provider) IsOpenAICompatible() bool {
	return p == ProviderGroq || p == ProviderCerebras || p == ProviderOpenAI
}

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// SlotExtractor sends one prompt to a language model and returns its raw text.
// Implementations must be safe for concurrent use.
type SlotExtractor interface {
	// Generate performs a single model call. It does not retry.
	Generate(ctx context.Context, prompt string) (string, error)
	// Provider returns the provider type for metrics.
	Provider() Provider
	// Model returns the model name for logs.
	Model() string
	// Close releases any resources held by the extractor.
	Close() error
}

// ProviderConfig holds configuration for a single LLM provider.
type ProviderConfig struct {
	APIKey string
	Model  string
	// Endpoint overrides the base URL. Required for ProviderOpenAI.
	Endpoint string
}

// LLMConfig holds configuration for all LLM providers.
type LLMConfig struct {
	// Providers is the preference order. The first one with an API key is used.
	Providers []Provider

	Gemini   ProviderConfig
	Groq     ProviderConfig
	Cerebras ProviderConfig
	OpenAI   ProviderConfig

	// Timeout bounds the single call made per request.
	Timeout time.Duration
}

// Default models per provider.
const (
	DefaultGeminiModel   = "gemini-2.5-flash-lite"
	DefaultGroqModel     = "llama-3.1-8b-instant"
	DefaultCerebrasModel = "llama-3.3-70b"
	DefaultTimeout       = 10 * time.Second
)

// DefaultProviders is the default provider preference order.
var DefaultProviders = []Provider{ProviderGemini, ProviderGroq, ProviderCerebras, ProviderOpenAI}

// DefaultLLMConfig returns a configuration with default models and no API keys.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Providers: append([]Provider(nil), DefaultProviders...),
		Gemini:    ProviderConfig{Model: DefaultGeminiModel},
		Groq:      ProviderConfig{Model: DefaultGroqModel},
		Cerebras:  ProviderConfig{Model: DefaultCerebrasModel},
		Timeout:   DefaultTimeout,
	}
}

// HasAnyProvider returns true if at least one provider is configured.
func (c *LLMConfig) HasAnyProvider() bool {
	return len(c.ConfiguredProviders()) > 0
}

// HasProvider returns true if the specified provider is configured with an API key.
// ProviderOpenAI additionally needs an endpoint and a model.
func (c *LLMConfig) HasProvider(p Provider) bool {
	pc := c.GetProviderConfig(p)
	if pc == nil || pc.APIKey == "" {
		return false
	}
	if p == ProviderOpenAI {
		return pc.Endpoint != "" && pc.Model != ""
	}
	return true
}

// GetProviderConfig returns the configuration for a specific provider.
func (c *LLMConfig) GetProviderConfig(p Provider) *ProviderConfig {
	switch p {
	case ProviderGemini:
		return &c.Gemini
	case ProviderGroq:
		return &c.Groq
	case ProviderCerebras:
		return &c.Cerebras
	case ProviderOpenAI:
		return &c.OpenAI
	default:
		return nil
	}
}

// ConfiguredProviders returns the providers with credentials, in preference order.
func (c *LLMConfig) ConfiguredProviders() []Provider {
	result := make([]Provider, 0, len(c.Providers))
	for _, p := range c.Providers {
		if c.HasProvider(p) {
			result = append(result, p)
		}
	}
	return result
}
