package genai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/garyellow/merit-linebot-go/internal/catalog"
	"github.com/garyellow/merit-linebot-go/internal/ctxutil"
	"github.com/garyellow/merit-linebot-go/internal/merit"
)

// Result is the outcome of one primary extraction: either OK with slots, or unavailable.
// Callers treat an unavailable result exactly like an empty slot record.
type Result struct {
	Slots merit.Slots
	OK    bool
	// Reason labels why the result is unavailable. Empty when OK.
	Reason string
}

// Unavailable returns a result signalling that no primary extraction exists.
func Unavailable(reason string) Result {
	return Result{Reason: reason}
}

// Recorder receives extraction metrics. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordExtraction(status, reason string)
	RecordLLMCall(provider, status string, duration float64)
}

// Adapter turns a SlotExtractor into a total function that never fails.
type Adapter struct {
	extractor   SlotExtractor
	timeout     time.Duration
	defaultYear int
	recorder    Recorder
}

// NewAdapter creates an Adapter. extractor and recorder may be nil.
func NewAdapter(extractor SlotExtractor, timeout time.Duration, defaultYear int, recorder Recorder) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{
		extractor:   extractor,
		timeout:     timeout,
		defaultYear: defaultYear,
		recorder:    recorder,
	}
}

// Enabled reports whether a language model is configured.
func (a *Adapter) Enabled() bool {
	return a != nil && a.extractor != nil
}

// TryExtract makes at most one model call for utterance.
// Every failure, including a panic inside the provider SDK, becomes Unavailable.
func (a *Adapter) TryExtract(ctx context.Context, utterance string, cat *catalog.Catalog) (res Result) {
	if !a.Enabled() {
		return Unavailable("disabled")
	}
	if ctxutil.PrimarySkipped(ctx) {
		a.record(Unavailable("skipped"))
		return Unavailable("skipped")
	}

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic in slot extractor",
				"provider", a.extractor.Provider(),
				"panic", fmt.Sprint(r))
			res = Unavailable(KindPanic.String())
		}
		a.record(res)
	}()

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := BuildPrompt(utterance, Vocabulary{
		Universities: cat.Universities(),
		Departments:  cat.Departments(),
		Programs:     cat.Programs(),
		Campuses:     cat.Campuses(),
	}, a.defaultYear)

	start := time.Now()
	text, err := a.extractor.Generate(callCtx, prompt)
	a.recordCall(err, time.Since(start))
	if err != nil {
		return a.degrade(ctx, err)
	}

	slots, err := ParseSlots(text)
	if err != nil {
		return a.degrade(ctx, err)
	}

	return Result{Slots: slots, OK: true}
}

func (a *Adapter) degrade(ctx context.Context, err error) Result {
	kind := ClassifyError(err)
	slog.DebugContext(ctx, "primary extraction unavailable, using fallback extractor",
		"provider", a.extractor.Provider(),
		"reason", kind.String(),
		"error", err)
	return Unavailable(kind.String())
}

func (a *Adapter) record(res Result) {
	if a.recorder == nil {
		return
	}
	if res.OK {
		a.recorder.RecordExtraction("ok", "")
		return
	}
	a.recorder.RecordExtraction("unavailable", res.Reason)
}

func (a *Adapter) recordCall(err error, d time.Duration) {
	if a.recorder == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	a.recorder.RecordLLMCall(a.extractor.Provider().String(), status, d.Seconds())
}
