// Package bot turns one inbound utterance into one reply. It owns the
// request-level concerns shared by every transport: input sanitizing, the
// length limit, per-client rate limits, the request timeout and panic recovery.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/garyellow/merit-linebot-go/internal/ctxutil"
	"github.com/garyellow/merit-linebot-go/internal/metrics"
	"github.com/garyellow/merit-linebot-go/internal/ratelimit"
	"github.com/garyellow/merit-linebot-go/internal/resolver"
	"github.com/garyellow/merit-linebot-go/internal/sentry"
)

// Outcomes recorded for requests that never reach the resolver.
const (
	OutcomeEmptyInput  = "empty_input"
	OutcomeTooLong     = "too_long"
	OutcomeRateLimited = "rate_limited"
	OutcomePanic       = "panic"
)

const defaultMaxMessageLength = 2000

// Answerer resolves a sanitized utterance. *resolver.Engine satisfies it.
type Answerer interface {
	Answer(ctx context.Context, text string) resolver.Answer
}

// Reply is the processed result handed back to a transport.
type Reply struct {
	Text    string
	Outcome string
	// Suggestions are values that narrow the question when appended to it.
	Suggestions []string
}

// ProcessorConfig holds configuration for creating a new Processor.
type ProcessorConfig struct {
	Engine Answerer

	// UserLimiter rejects clients that send too fast. Optional.
	UserLimiter *ratelimit.KeyedLimiter
	// LLMLimiter budgets primary extractor calls per client. When a client
	// is out of tokens the request still runs on the fallback extractor. Optional.
	LLMLimiter *ratelimit.KeyedLimiter

	Metrics          *metrics.Metrics // optional
	RequestTimeout   time.Duration
	MaxMessageLength int
}

// Processor is safe for concurrent use.
type Processor struct {
	engine         Answerer
	userLimiter    *ratelimit.KeyedLimiter
	llmLimiter     *ratelimit.KeyedLimiter
	metrics        *metrics.Metrics
	requestTimeout time.Duration
	maxLen         int
}

// NewProcessor creates a new processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	maxLen := cfg.MaxMessageLength
	if maxLen <= 0 {
		maxLen = defaultMaxMessageLength
	}
	return &Processor{
		engine:         cfg.Engine,
		userLimiter:    cfg.UserLimiter,
		llmLimiter:     cfg.LLMLimiter,
		metrics:        cfg.Metrics,
		requestTimeout: cfg.RequestTimeout,
		maxLen:         maxLen,
	}
}

// Process answers text for the client identified by ctxutil.GetClientID(ctx).
// It always returns a reply; failures are turned into user-facing text.
func (p *Processor) Process(ctx context.Context, text string) (reply Reply) {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.RecordQuery(reply.Outcome, ctxutil.GetTransport(ctx), time.Since(start).Seconds())
		}
	}()

	text = Sanitize(text)
	if text == "" {
		return Reply{Text: EmptyMessageReply, Outcome: OutcomeEmptyInput}
	}
	if len(text) > p.maxLen {
		slog.WarnContext(ctx, "message too long", "length", len(text), "limit", p.maxLen)
		return Reply{Text: tooLongReply(p.maxLen), Outcome: OutcomeTooLong}
	}

	clientID := ctxutil.GetClientID(ctx)
	if p.userLimiter != nil && !p.userLimiter.Allow(clientID) {
		slog.InfoContext(ctx, "client rate limited")
		return Reply{Text: RateLimitedReply, Outcome: OutcomeRateLimited}
	}
	if p.llmLimiter != nil && !p.llmLimiter.Allow(clientID) {
		slog.InfoContext(ctx, "llm budget exhausted, using fallback extractor")
		ctx = ctxutil.WithPrimarySkipped(ctx)
	}

	if p.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.requestTimeout)
		defer cancel()
	}

	return p.answer(ctx, text)
}

func (p *Processor) answer(ctx context.Context, text string) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "engine panicked",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
			sentry.CapturePanic(ctx, r, map[string]string{"transport": ctxutil.GetTransport(ctx)})
			reply = Reply{Text: InternalErrorReply, Outcome: OutcomePanic}
		}
	}()

	ans := p.engine.Answer(ctx, text)
	return Reply{Text: ans.Text, Outcome: string(ans.Outcome), Suggestions: ans.Suggestions}
}

// Sanitize trims text and collapses every whitespace run into one space.
func Sanitize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
