package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/garyellow/merit-linebot-go/internal/config"
	"github.com/garyellow/merit-linebot-go/internal/genai"
	"github.com/garyellow/merit-linebot-go/internal/metrics"
	"github.com/garyellow/merit-linebot-go/internal/normalize"
	"github.com/garyellow/merit-linebot-go/internal/r2client"
	"github.com/garyellow/merit-linebot-go/internal/resolver"
	"github.com/garyellow/merit-linebot-go/internal/seed"
	"github.com/garyellow/merit-linebot-go/internal/storage"
)

// SeedSource returns the configured seed location: the R2 object when a key
// is set, otherwise the local file.
func SeedSource(ctx context.Context, cfg *config.Config) (storage.SeedSource, error) {
	if cfg.SeedR2Key == "" {
		return seed.FileSource{Path: cfg.SeedFilePath()}, nil
	}
	client, err := NewR2Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return seed.R2Source{Client: client, Key: cfg.SeedR2Key}, nil
}

// NewR2Client builds the object storage client from cfg.
func NewR2Client(ctx context.Context, cfg *config.Config) (*r2client.Client, error) {
	if !cfg.HasR2() {
		return nil, errors.New("R2 credentials are incomplete")
	}
	client, err := r2client.New(ctx, r2client.Config{
		Endpoint:    r2client.EndpointForAccount(cfg.R2AccountID),
		AccessKeyID: cfg.R2AccessKeyID,
		SecretKey:   cfg.R2SecretAccessKey,
		BucketName:  cfg.R2BucketName,
	})
	if err != nil {
		return nil, fmt.Errorf("r2: %w", err)
	}
	return client, nil
}

// LoadAliases returns the alias table from MERIT_ALIAS_FILE, or the built-in one.
func LoadAliases(cfg *config.Config) (*normalize.AliasTable, error) {
	if cfg.AliasFile == "" {
		return normalize.Default(), nil
	}
	table, err := normalize.LoadFile(cfg.AliasFile)
	if err != nil {
		return nil, fmt.Errorf("alias file: %w", err)
	}
	return table, nil
}

// BuildLLMConfig creates an LLMConfig from the application config.
func BuildLLMConfig(cfg *config.Config) genai.LLMConfig {
	llmCfg := genai.DefaultLLMConfig()

	llmCfg.Gemini.APIKey = cfg.GeminiAPIKey
	llmCfg.Groq.APIKey = cfg.GroqAPIKey
	llmCfg.Cerebras.APIKey = cfg.CerebrasAPIKey
	llmCfg.OpenAI.APIKey = cfg.OpenAIAPIKey
	llmCfg.OpenAI.Endpoint = cfg.OpenAIEndpoint
	llmCfg.OpenAI.Model = cfg.OpenAIModel

	if cfg.GeminiModel != "" {
		llmCfg.Gemini.Model = cfg.GeminiModel
	}
	if cfg.GroqModel != "" {
		llmCfg.Groq.Model = cfg.GroqModel
	}
	if cfg.CerebrasModel != "" {
		llmCfg.Cerebras.Model = cfg.CerebrasModel
	}
	if cfg.LLMTimeout > 0 {
		llmCfg.Timeout = cfg.LLMTimeout
	}

	if len(cfg.LLMProviders) > 0 {
		providers := make([]genai.Provider, 0, len(cfg.LLMProviders))
		for _, p := range cfg.LLMProviders {
			switch provider := genai.Provider(p); provider {
			case genai.ProviderGemini, genai.ProviderGroq, genai.ProviderCerebras, genai.ProviderOpenAI:
				providers = append(providers, provider)
			default:
				slog.Warn("ignoring unknown provider", "name", p)
			}
		}
		if len(providers) > 0 {
			llmCfg.Providers = providers
		}
	}

	return llmCfg
}

// BuildEngine loads the stored records and assembles the resolver. The
// returned extractor is nil when no language model is in use; callers close
// it on shutdown. m may be nil.
func BuildEngine(ctx context.Context, cfg *config.Config, repo storage.MeritRepository, m *metrics.Metrics) (*resolver.Engine, genai.SlotExtractor, error) {
	records, err := repo.LoadRecords(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load records: %w", err)
	}
	aliases, err := LoadAliases(cfg)
	if err != nil {
		return nil, nil, err
	}
	data := resolver.NewDataset(records, aliases)

	var extractor genai.SlotExtractor
	if cfg.LLMEnabled {
		extractor, err = genai.CreateExtractor(ctx, BuildLLMConfig(cfg))
		if err != nil {
			slog.WarnContext(ctx, "slot extractor initialization failed, using fallback only", "error", err)
			extractor = nil
		}
	}

	var recorder genai.Recorder
	if m != nil {
		recorder = m
		m.SetRecordsLoaded(len(records))
	}
	adapter := genai.NewAdapter(extractor, cfg.LLMTimeout, cfg.DefaultYear, recorder)

	return resolver.NewEngine(data, adapter, cfg.DefaultYear), extractor, nil
}
