// Package config provides centralized timeout constants for the application.
//
// LINE expects a quick 200 OK on the webhook, so events are answered in the
// background and only the HTTP acknowledgment is bounded by the server timeouts.
package config

import "time"

// HTTP server timeouts
const (
	// ServerReadHeader bounds reading request headers.
	ServerReadHeader = 5 * time.Second

	// ServerRead bounds reading a whole request. Chat and webhook payloads are small.
	ServerRead = 10 * time.Second

	// ServerWrite must accommodate DefaultRequestTimeout plus serialization.
	ServerWrite = 35 * time.Second

	// ServerIdle is the keep-alive idle timeout.
	ServerIdle = 120 * time.Second
)

// Request defaults
const (
	// DefaultRequestTimeout bounds answering one utterance, LLM call included.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultLLMTimeout bounds one primary extractor call.
	DefaultLLMTimeout = 10 * time.Second

	// DefaultShutdownTimeout is the graceful shutdown budget.
	DefaultShutdownTimeout = 30 * time.Second

	// LINEReplyTimeout bounds one reply API call.
	LINEReplyTimeout = 10 * time.Second
)

// Operational bounds
const (
	// ReadinessCheckTimeout bounds the database checks behind /readyz.
	ReadinessCheckTimeout = 3 * time.Second

	// SeedLoadTimeout bounds downloading and importing the seed file at startup.
	SeedLoadTimeout = 2 * time.Minute

	// SentryFlushTimeout bounds delivery of buffered error reports on shutdown.
	SentryFlushTimeout = 2 * time.Second
)
