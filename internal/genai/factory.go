package genai

import (
	"context"
	"fmt"
	"log/slog"
)

// CreateExtractor builds the extractor for the first configured provider.
// It returns (nil, nil) when no provider has credentials; callers then run
// on the deterministic extractor alone.
func CreateExtractor(ctx context.Context, cfg LLMConfig) (SlotExtractor, error) {
	configured := cfg.ConfiguredProviders()
	if len(configured) == 0 {
		slog.InfoContext(ctx, "no LLM provider configured for slot extraction")
		return nil, nil //nolint:nilnil // Intentional: primary extraction disabled
	}

	provider := configured[0]
	pc := cfg.GetProviderConfig(provider)

	var (
		ext SlotExtractor
		err error
	)
	switch provider {
	case ProviderGemini:
		ext, err = newGeminiExtractor(ctx, pc.APIKey, pc.Model)
	case ProviderGroq, ProviderCerebras, ProviderOpenAI:
		ext, err = newOpenAIExtractor(provider, pc.APIKey, pc.Model, pc.Endpoint)
	default:
		err = fmt.Errorf("unknown provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s extractor: %w", provider, err)
	}

	slog.InfoContext(ctx, "slot extractor configured",
		"provider", ext.Provider(),
		"model", ext.Model())

	return ext, nil
}
