// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "MERIT_PORT"
	EnvLogLevel        = "MERIT_LOG_LEVEL"
	EnvShutdownTimeout = "MERIT_SHUTDOWN_TIMEOUT"

	// Data
	EnvDataDir     = "MERIT_DATA_DIR"
	EnvSeedPath    = "MERIT_SEED_PATH"
	EnvSeedR2Key   = "MERIT_SEED_R2_KEY"
	EnvAliasFile   = "MERIT_ALIAS_FILE"
	EnvDefaultYear = "MERIT_DEFAULT_YEAR"

	// Request handling
	EnvRequestTimeout   = "MERIT_REQUEST_TIMEOUT"
	EnvMaxMessageLength = "MERIT_MAX_MESSAGE_LENGTH"

	// Rate Limits
	EnvUserRateBurst  = "MERIT_USER_RATE_BURST"
	EnvUserRateRefill = "MERIT_USER_RATE_REFILL"
	EnvLLMRateBurst   = "MERIT_LLM_RATE_BURST"
	EnvLLMRateRefill  = "MERIT_LLM_RATE_REFILL"

	// LLM Feature
	EnvLLMEnabled     = "MERIT_LLM_ENABLED"
	EnvLLMProviders   = "MERIT_LLM_PROVIDERS"
	EnvLLMTimeout     = "MERIT_LLM_TIMEOUT"
	EnvGeminiAPIKey   = "MERIT_GEMINI_API_KEY"
	EnvGeminiModel    = "MERIT_GEMINI_MODEL"
	EnvGroqAPIKey     = "MERIT_GROQ_API_KEY"
	EnvGroqModel      = "MERIT_GROQ_MODEL"
	EnvCerebrasAPIKey = "MERIT_CEREBRAS_API_KEY"
	EnvCerebrasModel  = "MERIT_CEREBRAS_MODEL"
	EnvOpenAIAPIKey   = "MERIT_OPENAI_API_KEY"
	EnvOpenAIModel    = "MERIT_OPENAI_MODEL"
	EnvOpenAIEndpoint = "MERIT_OPENAI_ENDPOINT"

	// LegacyGeminiAPIKey is read when EnvGeminiAPIKey is unset.
	LegacyGeminiAPIKey = "GEMINI_API_KEY"

	// LINE Feature
	EnvLineChannelSecret      = "MERIT_LINE_CHANNEL_SECRET"
	EnvLineChannelAccessToken = "MERIT_LINE_CHANNEL_ACCESS_TOKEN"

	// R2 Seed Feature
	EnvR2AccountID       = "MERIT_R2_ACCOUNT_ID"
	EnvR2AccessKeyID     = "MERIT_R2_ACCESS_KEY_ID"
	EnvR2SecretAccessKey = "MERIT_R2_SECRET_ACCESS_KEY"
	EnvR2BucketName      = "MERIT_R2_BUCKET_NAME"

	// Sentry Feature
	EnvSentryDSN         = "MERIT_SENTRY_DSN"
	EnvSentryEnvironment = "MERIT_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "MERIT_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "MERIT_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "MERIT_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsUsername = "MERIT_METRICS_USERNAME"
	EnvMetricsPassword = "MERIT_METRICS_PASSWORD"
)
