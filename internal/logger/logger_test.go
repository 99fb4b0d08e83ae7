package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyellow/merit-linebot-go/internal/ctxutil"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestNewWithWriter_JSONFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Warn("low confidence")

	entry := decode(t, &buf)
	assert.Contains(t, entry, "timestamp")
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "low confidence", entry["message"])
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("dropped")
	assert.Zero(t, buf.Len())
}

func TestLogger_Fields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.WithModule("resolver").
		WithRequestID("req-1").
		WithError(errors.New("boom")).
		WithField("outcome", "ambiguous").
		WithFields(map[string]any{"rows": 2}).
		Info("answered")

	entry := decode(t, &buf)
	assert.Equal(t, "resolver", entry["module"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "ambiguous", entry["outcome"])
	assert.EqualValues(t, 2, entry["rows"])
}

func TestNewWithWriter_ContextValues(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.InfoContext(ctxutil.WithClientID(context.Background(), "U1"), "hello")
	assert.Equal(t, "U1", decode(t, &buf)["client_id"])
}

// Setup replaces slog.Default, so it must not run in parallel with others using it.
func TestSetup_LocalOnly(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	_, flush := Setup(Options{Level: "info", Writer: &buf})
	slog.Info("via default")
	require.NoError(t, flush(context.Background()))

	assert.Equal(t, "via default", decode(t, &buf)["message"])
}

type recordingHandler struct {
	mu   sync.Mutex
	msgs []string
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, r.Message)
	return nil
}
func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestAsyncHandler_FlushOnShutdown(t *testing.T) {
	t.Parallel()
	rec := &recordingHandler{}
	async := NewAsyncHandler(rec, AsyncOptions{BufferSize: 16, FlushTimeout: time.Second})
	log := slog.New(async)

	for range 5 {
		log.Info("queued")
	}
	require.NoError(t, async.Shutdown(context.Background()))
	// Records after shutdown are dropped silently.
	log.Info("late")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Len(t, rec.msgs, 5)
}
