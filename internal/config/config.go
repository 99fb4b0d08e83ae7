// Package config provides application configuration management.
// It loads settings from environment variables (optionally via a .env file)
// and provides defaults for the server, the LLM extractor and the seed loader.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir     string // Directory holding merit.db
	SeedPath    string // Local seed file, relative paths resolve against DataDir
	SeedR2Key   string // Object key of the seed in R2; takes precedence over SeedPath
	AliasFile   string // Optional YAML alias table replacing the built-in one
	DefaultYear int

	// Request handling
	RequestTimeout   time.Duration
	MaxMessageLength int

	// Rate Limits (Token Bucket Algorithm)
	UserRateBurst        float64 // Maximum burst tokens per client
	UserRateRefillPerSec float64 // Tokens refilled per second
	LLMRateBurst         float64 // Maximum burst of primary extractor calls per client
	LLMRateRefillPerHour float64 // Primary extractor tokens refilled per hour

	// LLM Configuration
	LLMEnabled     bool
	LLMProviders   []string
	LLMTimeout     time.Duration
	GeminiAPIKey   string
	GeminiModel    string
	GroqAPIKey     string
	GroqModel      string
	CerebrasAPIKey string
	CerebrasModel  string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIEndpoint string

	// LINE Bot Configuration (optional transport)
	LineChannelSecret string
	LineChannelToken  string

	// R2 Configuration (optional seed source)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string

	// Observability
	SentryDSN           string
	SentryEnvironment   string
	SentrySampleRate    float64
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics Basic Auth
	MetricsPassword string // Password for /metrics Basic Auth (empty = no auth)
}

// Load reads configuration from environment variables.
// It attempts to load .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, DefaultShutdownTimeout),

		DataDir:     getEnv(EnvDataDir, "./data"),
		SeedPath:    getEnv(EnvSeedPath, "merit_list.csv"),
		SeedR2Key:   getEnv(EnvSeedR2Key, ""),
		AliasFile:   getEnv(EnvAliasFile, ""),
		DefaultYear: getIntEnv(EnvDefaultYear, 2024),

		RequestTimeout:   getDurationEnv(EnvRequestTimeout, DefaultRequestTimeout),
		MaxMessageLength: getIntEnv(EnvMaxMessageLength, 2000),

		UserRateBurst:        getFloatEnv(EnvUserRateBurst, 15),
		UserRateRefillPerSec: getFloatEnv(EnvUserRateRefill, 0.5),
		LLMRateBurst:         getFloatEnv(EnvLLMRateBurst, 40),
		LLMRateRefillPerHour: getFloatEnv(EnvLLMRateRefill, 20),

		LLMEnabled:     getBoolEnv(EnvLLMEnabled, true),
		LLMProviders:   getListEnv(EnvLLMProviders, []string{"gemini", "groq", "cerebras", "openai"}),
		LLMTimeout:     getDurationEnv(EnvLLMTimeout, DefaultLLMTimeout),
		GeminiAPIKey:   getEnv(EnvGeminiAPIKey, os.Getenv(LegacyGeminiAPIKey)),
		GeminiModel:    getEnv(EnvGeminiModel, ""),
		GroqAPIKey:     getEnv(EnvGroqAPIKey, ""),
		GroqModel:      getEnv(EnvGroqModel, ""),
		CerebrasAPIKey: getEnv(EnvCerebrasAPIKey, ""),
		CerebrasModel:  getEnv(EnvCerebrasModel, ""),
		OpenAIAPIKey:   getEnv(EnvOpenAIAPIKey, ""),
		OpenAIModel:    getEnv(EnvOpenAIModel, ""),
		OpenAIEndpoint: getEnv(EnvOpenAIEndpoint, ""),

		LineChannelSecret: getEnv(EnvLineChannelSecret, ""),
		LineChannelToken:  getEnv(EnvLineChannelAccessToken, ""),

		R2AccountID:       getEnv(EnvR2AccountID, ""),
		R2AccessKeyID:     getEnv(EnvR2AccessKeyID, ""),
		R2SecretAccessKey: getEnv(EnvR2SecretAccessKey, ""),
		R2BucketName:      getEnv(EnvR2BucketName, ""),

		SentryDSN:           getEnv(EnvSentryDSN, ""),
		SentryEnvironment:   getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:    getFloatEnv(EnvSentrySampleRate, 1.0),
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks value ranges and that optional features are configured completely.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPort))
	}
	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvDataDir))
	}
	if c.SeedPath == "" && c.SeedR2Key == "" {
		errs = append(errs, fmt.Errorf("%s or %s is required", EnvSeedPath, EnvSeedR2Key))
	}
	if c.DefaultYear < 1900 || c.DefaultYear > 2099 {
		errs = append(errs, fmt.Errorf("%s must be between 1900 and 2099, got %d", EnvDefaultYear, c.DefaultYear))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvRequestTimeout, c.RequestTimeout))
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvLLMTimeout, c.LLMTimeout))
	}
	if c.MaxMessageLength <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvMaxMessageLength, c.MaxMessageLength))
	}
	if c.UserRateBurst <= 0 || c.UserRateRefillPerSec <= 0 {
		errs = append(errs, fmt.Errorf("%s and %s must be positive", EnvUserRateBurst, EnvUserRateRefill))
	}
	if c.LLMRateBurst <= 0 || c.LLMRateRefillPerHour <= 0 {
		errs = append(errs, fmt.Errorf("%s and %s must be positive", EnvLLMRateBurst, EnvLLMRateRefill))
	}
	if (c.LineChannelSecret == "") != (c.LineChannelToken == "") {
		errs = append(errs, fmt.Errorf("%s and %s must be set together", EnvLineChannelSecret, EnvLineChannelAccessToken))
	}
	if c.SeedR2Key != "" && !c.HasR2() {
		errs = append(errs, fmt.Errorf("%s requires the R2 account, credentials and bucket", EnvSeedR2Key))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be between 0 and 1, got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}

	return errors.Join(errs...)
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "merit.db")
}

// SeedFilePath resolves SeedPath against DataDir unless it is absolute.
func (c *Config) SeedFilePath() string {
	if filepath.IsAbs(c.SeedPath) {
		return c.SeedPath
	}
	return filepath.Join(c.DataDir, c.SeedPath)
}

// HasLINE reports whether the LINE webhook transport is configured.
func (c *Config) HasLINE() bool {
	return c.LineChannelSecret != "" && c.LineChannelToken != ""
}

// HasR2 reports whether R2 credentials are complete.
func (c *Config) HasR2() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

// HasLLMProvider returns true if at least one LLM provider has credentials.
func (c *Config) HasLLMProvider() bool {
	return c.GeminiAPIKey != "" || c.GroqAPIKey != "" || c.CerebrasAPIKey != "" ||
		(c.OpenAIEndpoint != "" && c.OpenAIModel != "")
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated value into lowercase, non-empty items.
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
