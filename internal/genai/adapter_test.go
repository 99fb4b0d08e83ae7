package genai

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyellow/merit-linebot-go/internal/catalog"
	"github.com/garyellow/merit-linebot-go/internal/ctxutil"
	"github.com/garyellow/merit-linebot-go/internal/merit"
)

type fakeExtractor struct {
	mu      sync.Mutex
	text    string
	err     error
	panics  bool
	block   bool
	calls   int
	prompts []string
}

func (f *fakeExtractor) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.panics {
		panic("sdk exploded")
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

func (f *fakeExtractor) Provider() Provider { return ProviderGroq }
func (f *fakeExtractor) Model() string      { return "fake" }
func (f *fakeExtractor) Close() error       { return nil }

type fakeRecorder struct {
	mu          sync.Mutex
	extractions []string
	calls       []string
}

func (r *fakeRecorder) RecordExtraction(status, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractions = append(r.extractions, status+":"+reason)
}

func (r *fakeRecorder) RecordLLMCall(provider, status string, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, provider+":"+status)
}

func testCatalog() *catalog.Catalog {
	return catalog.Build([]merit.Record{
		{University: "Alpha U", Campus: "Main", Department: "Computing", Program: "BS", Year: 2023},
	})
}

func TestTryExtractOK(t *testing.T) {
	t.Parallel()
	ext := &fakeExtractor{text: `{"university":"Alpha U","department":"Computing","program":"BS","year":2023}`}
	rec := &fakeRecorder{}
	a := NewAdapter(ext, time.Second, 2024, rec)

	res := a.TryExtract(context.Background(), "alpha computing", testCatalog())

	require.True(t, res.OK)
	assert.Equal(t, "Alpha U", res.Slots.University.Or(""))
	assert.Equal(t, 2023, res.Slots.Year.Or(0))
	assert.Equal(t, 1, ext.calls)
	assert.Contains(t, ext.prompts[0], `"Alpha U"`)
	assert.Equal(t, []string{"ok:"}, rec.extractions)
	assert.Equal(t, []string{"groq:success"}, rec.calls)
}

func TestTryExtractUnavailable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		ext    *fakeExtractor
		reason string
	}{
		{"call error", &fakeExtractor{err: &LLMError{Err: errors.New("down"), StatusCode: 503}}, "unavailable"},
		{"empty text", &fakeExtractor{text: ""}, "malformed"},
		{"garbage", &fakeExtractor{text: "no idea, sorry"}, "malformed"},
		{"bad json", &fakeExtractor{text: `{"university": }`}, "malformed"},
		{"empty object", &fakeExtractor{text: `{}`}, "malformed"},
		{"panic", &fakeExtractor{panics: true}, "panic"},
		{"timeout", &fakeExtractor{block: true}, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := &fakeRecorder{}
			a := NewAdapter(tt.ext, 20*time.Millisecond, 2024, rec)

			var res Result
			require.NotPanics(t, func() {
				res = a.TryExtract(context.Background(), "alpha u computing", testCatalog())
			})

			assert.False(t, res.OK)
			assert.True(t, res.Slots.IsEmpty())
			assert.Equal(t, tt.reason, res.Reason)
			assert.Equal(t, 1, tt.ext.calls, "exactly one external call")
			assert.Equal(t, []string{"unavailable:" + tt.reason}, rec.extractions)
		})
	}
}

func TestTryExtractDisabledAndSkipped(t *testing.T) {
	t.Parallel()

	var nilAdapter *Adapter
	assert.False(t, nilAdapter.Enabled())
	assert.Equal(t, "disabled", nilAdapter.TryExtract(context.Background(), "x", testCatalog()).Reason)

	a := NewAdapter(nil, 0, 2024, nil)
	assert.False(t, a.Enabled())
	assert.False(t, a.TryExtract(context.Background(), "x", testCatalog()).OK)

	ext := &fakeExtractor{text: `{"university":"Alpha U"}`}
	a = NewAdapter(ext, time.Second, 2024, nil)
	res := a.TryExtract(ctxutil.WithPrimarySkipped(context.Background()), "x", testCatalog())
	assert.False(t, res.OK)
	assert.Equal(t, "skipped", res.Reason)
	assert.Equal(t, 0, ext.calls)
}
