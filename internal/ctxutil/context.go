// Package ctxutil provides typed context values shared across layers.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	clientIDKey    contextKey = "ctxutil.clientID"
	chatIDKey      contextKey = "ctxutil.chatID"
	requestIDKey   contextKey = "ctxutil.requestID"
	transportKey   contextKey = "ctxutil.transport"
	skipPrimaryKey contextKey = "ctxutil.skipPrimary"
)

// WithClientID adds the caller identity used for rate limiting and logging.
// For HTTP this is the client IP; for LINE it is the user ID.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey, clientID)
}

// GetClientID returns the caller identity, or "" when absent.
func GetClientID(ctx context.Context) string {
	if v, ok := ctx.Value(clientIDKey).(string); ok {
		return v
	}
	return ""
}

// WithChatID adds the LINE conversation ID (user, group or room).
func WithChatID(ctx context.Context, chatID string) context.Context {
	return context.WithValue(ctx, chatIDKey, chatID)
}

// GetChatID returns the LINE conversation ID, or "" when absent.
func GetChatID(ctx context.Context) string {
	if v, ok := ctx.Value(chatIDKey).(string); ok {
		return v
	}
	return ""
}

// WithRequestID adds a request ID for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID and whether one was set.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok && requestID != ""
}

// WithTransport records which surface received the request ("http", "line", "cli").
func WithTransport(ctx context.Context, transport string) context.Context {
	return context.WithValue(ctx, transportKey, transport)
}

// GetTransport returns the transport name, or "unknown".
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(transportKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// WithPrimarySkipped marks the request as not allowed to call the language model.
// Extraction then relies on the deterministic extractor alone.
func WithPrimarySkipped(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipPrimaryKey, true)
}

// PrimarySkipped reports whether WithPrimarySkipped was applied.
func PrimarySkipped(ctx context.Context) bool {
	v, _ := ctx.Value(skipPrimaryKey).(bool)
	return v
}

// PreserveTracing returns a fresh background context carrying only the
// identity and tracing values of ctx. Use it for work that outlives the
// inbound request, such as LINE events handled after the 200 response.
func PreserveTracing(ctx context.Context) context.Context {
	newCtx := context.Background()

	if clientID := GetClientID(ctx); clientID != "" {
		newCtx = WithClientID(newCtx, clientID)
	}
	if chatID := GetChatID(ctx); chatID != "" {
		newCtx = WithChatID(newCtx, chatID)
	}
	if requestID, ok := GetRequestID(ctx); ok {
		newCtx = WithRequestID(newCtx, requestID)
	}
	if transport, ok := ctx.Value(transportKey).(string); ok {
		newCtx = WithTransport(newCtx, transport)
	}

	return newCtx
}
