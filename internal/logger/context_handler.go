package logger

import (
	"context"
	"log/slog"

	"github.com/garyellow/merit-linebot-go/internal/ctxutil"
)

// ContextHandler decorates records logged with a context with the request
// values carried by internal/ctxutil.
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler wraps next.
func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(requestAttrs(ctx)...)
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewContextHandler(h.next.WithAttrs(attrs))
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return NewContextHandler(h.next.WithGroup(name))
}

// requestAttrs lists the non-empty request values of ctx. llm_skipped appears
// only when the language model budget was exhausted for this request.
func requestAttrs(ctx context.Context) []slog.Attr {
	attrs := make([]slog.Attr, 0, 5)
	add := func(key, value string) {
		if value != "" {
			attrs = append(attrs, slog.String(key, value))
		}
	}

	add("client_id", ctxutil.GetClientID(ctx))
	add("chat_id", ctxutil.GetChatID(ctx))
	if id, ok := ctxutil.GetRequestID(ctx); ok {
		add("request_id", id)
	}
	if t := ctxutil.GetTransport(ctx); t != "unknown" {
		add("transport", t)
	}
	if ctxutil.PrimarySkipped(ctx) {
		attrs = append(attrs, slog.Bool("llm_skipped", true))
	}
	return attrs
}
