// Package sentry wraps the Sentry Go SDK for error reporting. Any
// Sentry-compatible DSN works, including Better Stack Errors.
package sentry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds Sentry configuration.
type Config struct {
	// DSN enables reporting when non-empty.
	DSN string

	// Environment identifies the deployment environment (e.g., "production", "staging").
	Environment string

	// Release identifies the application release version.
	Release string

	// SampleRate controls error sampling (0.0-1.0, zero means 1.0).
	SampleRate float64

	// Debug enables Sentry SDK debug logging.
	Debug bool
}

// Initialize sets up the Sentry SDK. An empty DSN disables reporting and returns nil.
func Initialize(cfg Config) error {
	if cfg.DSN == "" {
		return nil
	}
	if u, err := url.Parse(cfg.DSN); err != nil || u.Host == "" {
		return fmt.Errorf("invalid sentry DSN")
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

// Flush waits for buffered events. Returns true if all were sent within timeout.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled returns true if Sentry is initialized and active.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// hubFor prefers the request hub installed by the gin middleware.
func hubFor(ctx context.Context) *sentry.Hub {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

// CaptureException reports err with optional tags. It is a no-op when disabled.
func CaptureException(ctx context.Context, err error, tags map[string]string) {
	if err == nil || !IsEnabled() {
		return
	}
	hub := hubFor(ctx)
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}

// CapturePanic reports a recovered panic value.
func CapturePanic(ctx context.Context, recovered any, tags map[string]string) {
	if recovered == nil {
		return
	}
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", recovered)
	} else {
		err = errors.Join(errors.New("panic"), err)
	}
	CaptureException(ctx, err, tags)
}
