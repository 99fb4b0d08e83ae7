package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestValuesRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		if got := GetClientID(ctx); got != "" {
			t.Errorf("GetClientID() = %q, want empty", got)
		}
		if got := GetChatID(ctx); got != "" {
			t.Errorf("GetChatID() = %q, want empty", got)
		}
		if _, ok := GetRequestID(ctx); ok {
			t.Error("GetRequestID() reported a value on empty context")
		}
		if got := GetTransport(ctx); got != "unknown" {
			t.Errorf("GetTransport() = %q, want unknown", got)
		}
		if PrimarySkipped(ctx) {
			t.Error("PrimarySkipped() = true on empty context")
		}
	})

	t.Run("populated context", func(t *testing.T) {
		t.Parallel()
		ctx := WithClientID(context.Background(), "U123")
		ctx = WithChatID(ctx, "C456")
		ctx = WithRequestID(ctx, "req-1")
		ctx = WithTransport(ctx, "line")
		ctx = WithPrimarySkipped(ctx)

		if got := GetClientID(ctx); got != "U123" {
			t.Errorf("GetClientID() = %q", got)
		}
		if got := GetChatID(ctx); got != "C456" {
			t.Errorf("GetChatID() = %q", got)
		}
		if got, ok := GetRequestID(ctx); !ok || got != "req-1" {
			t.Errorf("GetRequestID() = %q, %v", got, ok)
		}
		if got := GetTransport(ctx); got != "line" {
			t.Errorf("GetTransport() = %q", got)
		}
		if !PrimarySkipped(ctx) {
			t.Error("PrimarySkipped() = false")
		}
	})
}

func TestPreserveTracing(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	parent = WithClientID(parent, "U1")
	parent = WithRequestID(parent, "req-2")
	parent = WithTransport(parent, "line")
	parent = WithPrimarySkipped(parent)
	cancel()

	ctx := PreserveTracing(parent)

	if ctx.Err() != nil {
		t.Fatalf("detached context inherited cancellation: %v", ctx.Err())
	}
	if _, ok := ctx.Deadline(); ok {
		t.Error("detached context inherited deadline")
	}
	if got := GetClientID(ctx); got != "U1" {
		t.Errorf("GetClientID() = %q", got)
	}
	if got, _ := GetRequestID(ctx); got != "req-2" {
		t.Errorf("GetRequestID() = %q", got)
	}
	if got := GetTransport(ctx); got != "line" {
		t.Errorf("GetTransport() = %q", got)
	}
	if PrimarySkipped(ctx) {
		t.Error("PrimarySkipped should not survive PreserveTracing")
	}
}
