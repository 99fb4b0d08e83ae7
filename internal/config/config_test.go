package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key so values from the host do not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvPort, EnvLogLevel, EnvDataDir, EnvSeedPath, EnvSeedR2Key, EnvDefaultYear,
		EnvRequestTimeout, EnvMaxMessageLength, EnvLLMEnabled, EnvLLMProviders,
		EnvGeminiAPIKey, LegacyGeminiAPIKey, EnvGroqAPIKey, EnvCerebrasAPIKey,
		EnvOpenAIModel, EnvOpenAIEndpoint, EnvLineChannelSecret, EnvLineChannelAccessToken,
		EnvR2AccountID, EnvR2AccessKeyID, EnvR2SecretAccessKey, EnvR2BucketName,
		EnvSentrySampleRate, EnvUserRateBurst, EnvUserRateRefill,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, 2024, cfg.DefaultYear)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 2000, cfg.MaxMessageLength)
	assert.True(t, cfg.LLMEnabled)
	assert.Equal(t, []string{"gemini", "groq", "cerebras", "openai"}, cfg.LLMProviders)
	assert.InDelta(t, 0.5, cfg.UserRateRefillPerSec, 1e-9)
	assert.Equal(t, filepath.Join("data", "merit.db"), filepath.Clean(cfg.SQLitePath()))
	assert.Equal(t, filepath.Join("data", "merit_list.csv"), filepath.Clean(cfg.SeedFilePath()))
	assert.False(t, cfg.HasLINE())
	assert.False(t, cfg.HasR2())
	assert.False(t, cfg.HasLLMProvider())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvDefaultYear, "2023")
	t.Setenv(EnvLLMProviders, " Groq , ,cerebras")
	t.Setenv(EnvLLMEnabled, "false")
	t.Setenv(EnvSeedPath, "/srv/seed.csv.zst")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2023, cfg.DefaultYear)
	assert.Equal(t, []string{"groq", "cerebras"}, cfg.LLMProviders)
	assert.False(t, cfg.LLMEnabled)
	if filepath.IsAbs("/srv/seed.csv.zst") {
		assert.Equal(t, "/srv/seed.csv.zst", cfg.SeedFilePath())
	}
}

func TestLegacyGeminiKey(t *testing.T) {
	clearEnv(t)
	t.Setenv(LegacyGeminiAPIKey, "legacy")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.GeminiAPIKey)
	assert.True(t, cfg.HasLLMProvider())

	t.Setenv(EnvGeminiAPIKey, "prefixed")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.GeminiAPIKey)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			Port: "10000", DataDir: "./data", SeedPath: "merit_list.csv", DefaultYear: 2024,
			ShutdownTimeout: time.Second, RequestTimeout: time.Second, LLMTimeout: time.Second,
			MaxMessageLength: 2000, UserRateBurst: 1, UserRateRefillPerSec: 1,
			LLMRateBurst: 1, LLMRateRefillPerHour: 1, SentrySampleRate: 1,
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Port = "" }, EnvPort},
		{"year out of range", func(c *Config) { c.DefaultYear = 1800 }, EnvDefaultYear},
		{"half LINE config", func(c *Config) { c.LineChannelSecret = "s" }, EnvLineChannelSecret},
		{"r2 key without credentials", func(c *Config) { c.SeedR2Key = "seed.csv" }, EnvSeedR2Key},
		{"bad sample rate", func(c *Config) { c.SentrySampleRate = 2 }, EnvSentrySampleRate},
		{"zero message length", func(c *Config) { c.MaxMessageLength = 0 }, EnvMaxMessageLength},
		{"no seed", func(c *Config) { c.SeedPath = "" }, EnvSeedPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.errContains), "error %q should mention %s", err, tt.errContains)
		})
	}
}
