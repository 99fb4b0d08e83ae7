// Package webhook receives LINE Messaging API webhooks and answers text
// messages through the shared bot processor.
package webhook

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/garyellow/merit-linebot-go/internal/bot"
	"github.com/garyellow/merit-linebot-go/internal/config"
	"github.com/garyellow/merit-linebot-go/internal/ctxutil"
	"github.com/garyellow/merit-linebot-go/internal/lineutil"
	"github.com/garyellow/merit-linebot-go/internal/metrics"
	"github.com/garyellow/merit-linebot-go/internal/ratelimit"
)

const (
	// TransportLINE labels requests arriving through the webhook.
	TransportLINE = "line"

	defaultMaxEvents = 100
	defaultGlobalRPS = 100
)

// Processor answers one utterance. *bot.Processor satisfies it.
type Processor interface {
	Process(ctx context.Context, text string) bot.Reply
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	ChannelSecret string
	Messenger     Messenger
	Processor     Processor
	Metrics       *metrics.Metrics // optional

	MaxEventsPerWebhook int     // default 100
	GlobalRateRPS       float64 // outbound reply budget, default 100/s
}

// Handler handles LINE webhook events
type Handler struct {
	channelSecret string
	messenger     Messenger
	processor     Processor
	metrics       *metrics.Metrics
	limiter       *ratelimit.Limiter
	maxEvents     int
	wg            sync.WaitGroup
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.ChannelSecret == "" || cfg.Messenger == nil || cfg.Processor == nil {
		return nil, errors.New("webhook: channel secret, messenger and processor are required")
	}
	maxEvents := cfg.MaxEventsPerWebhook
	if maxEvents <= 0 {
		maxEvents = defaultMaxEvents
	}
	rps := cfg.GlobalRateRPS
	if rps <= 0 {
		rps = defaultGlobalRPS
	}
	return &Handler{
		channelSecret: cfg.ChannelSecret,
		messenger:     cfg.Messenger,
		processor:     cfg.Processor,
		metrics:       cfg.Metrics,
		limiter:       ratelimit.New(rps, rps),
		maxEvents:     maxEvents,
	}, nil
}

// Handle verifies the signature, acknowledges with 200 OK and processes the
// events in the background. LINE retries deliveries that are not acknowledged quickly.
func (h *Handler) Handle(c *gin.Context) {
	ctx := c.Request.Context()
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			slog.WarnContext(ctx, "invalid webhook signature")
			c.Status(http.StatusBadRequest)
		} else {
			slog.ErrorContext(ctx, "failed to parse webhook request", "error", err)
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)

	events := cb.Events
	if len(events) > h.maxEvents {
		slog.WarnContext(ctx, "too many events in webhook batch; truncating",
			"event_count", len(events),
			"limit", h.maxEvents)
		events = events[:h.maxEvents]
	}
	events = append([]webhook.EventInterface(nil), events...)

	base := ctxutil.PreserveTracing(ctxutil.WithTransport(ctx, TransportLINE))
	h.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(base, "panic in webhook event processing", "panic", r)
			}
		}()
		for _, event := range events {
			h.processEvent(base, event)
		}
	})
}

// processEvent answers text messages; other event types are ignored.
func (h *Handler) processEvent(ctx context.Context, event webhook.EventInterface) {
	start := time.Now()
	e, ok := event.(webhook.MessageEvent)
	if !ok {
		slog.DebugContext(ctx, "ignoring event", "event_type", eventType(event))
		return
	}
	msg, ok := e.Message.(webhook.TextMessageContent)
	if !ok {
		return
	}

	text := msg.Text
	sender := bot.Identify(e.Source)
	if sender.Shared {
		if !isBotMentioned(msg) {
			return
		}
		text = removeBotMentions(text, msg.Mention)
	}

	ctx = ctxutil.WithClientID(ctx, sender.ClientKey())
	ctx = ctxutil.WithChatID(ctx, sender.ChatID)
	if e.WebhookEventId != "" {
		ctx = ctxutil.WithRequestID(ctx, e.WebhookEventId)
	}

	if sender.ChatID != "" {
		if err := h.messenger.ShowLoading(ctx, sender.ChatID); err != nil {
			slog.DebugContext(ctx, "failed to show loading animation", "error", err)
		}
	}

	reply := h.processor.Process(ctx, text)

	status := "success"
	suggestions := lineutil.Suggestions(bot.Sanitize(text), reply.Suggestions)
	if err := h.reply(ctx, e.ReplyToken, reply.Text, suggestions); err != nil {
		status = "reply_error"
		slog.ErrorContext(ctx, "failed to send reply", "error", err)
	}
	if h.metrics != nil {
		h.metrics.RecordWebhook("message", status, time.Since(start).Seconds())
	}
	slog.InfoContext(ctx, "event processed",
		"outcome", reply.Outcome,
		"duration_ms", time.Since(start).Milliseconds())
}

func (h *Handler) reply(ctx context.Context, token, text string, suggestions []lineutil.Suggestion) error {
	if token == "" {
		return errors.New("empty reply token")
	}
	if !h.limiter.Allow() {
		if h.metrics != nil {
			h.metrics.RecordRateLimiterDrop("global")
		}
		return errors.New("global reply rate limit exceeded")
	}
	ctx, cancel := context.WithTimeout(ctx, config.LINEReplyTimeout)
	defer cancel()
	return h.messenger.Reply(ctx, token, text, suggestions)
}

func eventType(event webhook.EventInterface) string {
	switch event.(type) {
	case webhook.FollowEvent:
		return "follow"
	case webhook.JoinEvent:
		return "join"
	case webhook.PostbackEvent:
		return "postback"
	default:
		return "other"
	}
}

// Shutdown waits for background event processing or until ctx is done.
func (h *Handler) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
