// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/garyellow/merit-linebot-go/internal/bot"
	"github.com/garyellow/merit-linebot-go/internal/buildinfo"
	"github.com/garyellow/merit-linebot-go/internal/config"
	"github.com/garyellow/merit-linebot-go/internal/ctxutil"
	domerrors "github.com/garyellow/merit-linebot-go/internal/errors"
	"github.com/garyellow/merit-linebot-go/internal/genai"
	"github.com/garyellow/merit-linebot-go/internal/logger"
	"github.com/garyellow/merit-linebot-go/internal/metrics"
	"github.com/garyellow/merit-linebot-go/internal/ratelimit"
	"github.com/garyellow/merit-linebot-go/internal/sentry"
	"github.com/garyellow/merit-linebot-go/internal/storage"
	"github.com/garyellow/merit-linebot-go/internal/webhook"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// ServiceName identifies this service in logs and the banner.
const ServiceName = "merit-linebot-go"

// TransportHTTP labels requests arriving on POST /chat.
const TransportHTTP = "http"

const rateLimiterCleanupInterval = 5 * time.Minute

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg            *config.Config
	logger         *logger.Logger
	flushLogs      func(context.Context) error
	db             *storage.DB
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	extractor      genai.SlotExtractor // nil when the fallback extractor runs alone
	processor      *bot.Processor
	webhookHandler *webhook.Handler // nil when LINE is not configured
	llmLimiter     *ratelimit.KeyedLimiter
	userLimiter    *ratelimit.KeyedLimiter
	router         *gin.Engine
	server         *http.Server
}

// Initialize creates and initializes a new application with all dependencies.
// A missing seed while the database is empty aborts startup.
func Initialize(ctx context.Context, cfg *config.Config) (_ *Application, err error) {
	log, flushLogs := logger.Setup(logger.Options{
		Level:               cfg.LogLevel,
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log = log.WithField("service", ServiceName)
	if host, hostErr := os.Hostname(); hostErr == nil && host != "" {
		log = log.WithField("instance_id", host)
	}
	slog.SetDefault(log.Logger)

	log.WithField("release", buildinfo.Release()).Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if sentryErr := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Release(),
		SampleRate:  cfg.SentrySampleRate,
	}); sentryErr != nil {
		log.WithError(sentryErr).Warn("Sentry initialization failed, error reporting disabled")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error reporting enabled")
	}

	db, err := storage.New(ctx, cfg.SQLitePath())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	defer func() {
		if err != nil {
			_ = db.Close()
		}
	}()
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	if err = seedDatabase(ctx, cfg, db, m); err != nil {
		sentry.CaptureException(ctx, err, map[string]string{
			"stage":  "seed",
			"source": domerrors.SourceOf(err),
		})
		return nil, err
	}

	engine, extractor, err := BuildEngine(ctx, cfg, db, m)
	if err != nil {
		return nil, err
	}
	log.WithField("records", engine.Dataset().Catalog().Len()).
		WithField("llm", extractor != nil).
		Info("Resolver ready")

	userLimiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:          "user",
		Burst:         cfg.UserRateBurst,
		RefillRate:    cfg.UserRateRefillPerSec,
		CleanupPeriod: rateLimiterCleanupInterval,
		Recorder:      m,
	})
	llmLimiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:          "llm",
		Burst:         cfg.LLMRateBurst,
		RefillRate:    ratelimit.PerHour(cfg.LLMRateRefillPerHour),
		CleanupPeriod: rateLimiterCleanupInterval,
		Recorder:      m,
	})

	processor := bot.NewProcessor(bot.ProcessorConfig{
		Engine:           engine,
		UserLimiter:      userLimiter,
		LLMLimiter:       llmLimiter,
		Metrics:          m,
		RequestTimeout:   cfg.RequestTimeout,
		MaxMessageLength: cfg.MaxMessageLength,
	})

	app := &Application{
		cfg:         cfg,
		logger:      log,
		flushLogs:   flushLogs,
		db:          db,
		metrics:     m,
		registry:    registry,
		extractor:   extractor,
		processor:   processor,
		llmLimiter:  llmLimiter,
		userLimiter: userLimiter,
	}

	if cfg.HasLINE() {
		messenger, lineErr := webhook.NewLINEMessenger(cfg.LineChannelToken)
		if lineErr != nil {
			app.stopLimiters()
			return nil, fmt.Errorf("line messenger: %w", lineErr)
		}
		app.webhookHandler, err = webhook.NewHandler(webhook.HandlerConfig{
			ChannelSecret: cfg.LineChannelSecret,
			Messenger:     messenger,
			Processor:     processor,
			Metrics:       m,
		})
		if err != nil {
			app.stopLimiters()
			return nil, fmt.Errorf("webhook: %w", err)
		}
		log.Info("LINE webhook enabled")
	}

	gin.SetMode(gin.ReleaseMode)
	app.router = app.newRouter()
	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadHeaderTimeout: config.ServerReadHeader,
		ReadTimeout:       config.ServerRead,
		WriteTimeout:      config.ServerWrite,
		IdleTimeout:       config.ServerIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// seedDatabase imports the seed file when merit_data is empty.
func seedDatabase(ctx context.Context, cfg *config.Config, db *storage.DB, m *metrics.Metrics) error {
	ctx, cancel := context.WithTimeout(ctx, config.SeedLoadTimeout)
	defer cancel()

	src, err := SeedSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("seed source: %w", err)
	}
	n, err := db.SeedIfEmpty(ctx, src)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if n > 0 {
		m.RecordSeedRows(src.Name(), n)
	}
	return nil
}

// Handler returns the HTTP handler serving every route.
func (a *Application) Handler() http.Handler {
	return a.router
}

func (a *Application) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(a.logger))

	router.GET("/", a.banner)
	router.HEAD("/", a.banner)
	router.GET("/livez", a.livenessCheck)
	router.HEAD("/livez", a.livenessCheck)
	router.GET("/readyz", a.readinessCheck)
	router.HEAD("/readyz", a.readinessCheck)
	router.POST("/chat", a.handleChat)
	if a.webhookHandler != nil {
		router.POST("/webhook", a.webhookHandler.Handle)
	}
	router.GET("/metrics", a.metricsAuth(),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	return router
}

func (a *Application) banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": ServiceName,
		"release": buildinfo.Release(),
		"chat":    "POST /chat",
	})
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (a *Application) getFeatures() map[string]bool {
	return map[string]bool{
		"llm":     a.extractor != nil,
		"line":    a.webhookHandler != nil,
		"r2_seed": a.cfg.SeedR2Key != "",
		"sentry":  sentry.IsEnabled(),
	}
}

func (a *Application) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.ReadinessCheckTimeout)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		a.logger.WithError(err).Warn("Readiness check failed: database unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "database unavailable",
		})
		return
	}

	count, err := a.db.CountRecords(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Readiness check failed: cannot count records")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "records unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"database": "connected",
		"records":  count,
		"features": a.getFeatures(),
	})
}

type chatRequest struct {
	Message *string `json:"message"`
}

type chatResponse struct {
	Reply       string   `json:"reply"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// handleChat answers one utterance. A body without "message" is rejected;
// an empty message is answered like any other utterance.
func (a *Application) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == nil {
		a.metrics.RecordHTTPError("bad_request", "/chat")
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	ctx := ctxutil.WithTransport(c.Request.Context(), TransportHTTP)
	ctx = ctxutil.WithClientID(ctx, "ip:"+c.ClientIP())

	reply := a.processor.Process(ctx, *req.Message)
	c.JSON(http.StatusOK, chatResponse{Reply: reply.Text, Suggestions: reply.Suggestions})
}

// Run serves HTTP until ctx is canceled or the server fails, then shuts down
// gracefully. Callers cancel ctx on SIGINT/SIGTERM.
func (a *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Received shutdown signal")
		return a.shutdown() //nolint:contextcheck // Shutdown needs a fresh deadline after ctx is canceled
	})

	return g.Wait()
}

// shutdown stops accepting requests, drains in-flight webhook events and
// then releases resources. The database is closed after every user of it.
func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	serverErr := a.server.Shutdown(shutdownCtx)
	if serverErr != nil {
		a.logger.WithError(serverErr).Error("HTTP server shutdown error")
	}

	if a.webhookHandler != nil {
		a.logger.Info("Waiting for webhook events to complete...")
		if err := a.webhookHandler.Shutdown(shutdownCtx); err != nil {
			a.logger.WithError(err).Warn("Webhook handler shutdown timeout")
		}
	}

	a.logger.Info("Closing resources...")
	a.Close(shutdownCtx)

	if serverErr != nil {
		return fmt.Errorf("http server shutdown: %w", serverErr)
	}
	return nil
}

// Close releases resources without touching the HTTP server. It is used by
// shutdown and by callers that never ran the server.
func (a *Application) Close(ctx context.Context) {
	if a.extractor != nil {
		if err := a.extractor.Close(); err != nil {
			a.logger.WithError(err).WithField("component", "slot_extractor").Error("Component close error")
		}
	}

	a.stopLimiters()

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "database").Error("Component close error")
	}

	sentry.Flush(config.SentryFlushTimeout)

	a.logger.Info("Shutdown complete")
	if a.flushLogs != nil {
		if err := a.flushLogs(ctx); err != nil {
			a.logger.WithError(err).Warn("Logger shutdown timed out")
		}
	}
}

func (a *Application) stopLimiters() {
	if a.llmLimiter != nil {
		a.llmLimiter.Stop()
	}
	if a.userLimiter != nil {
		a.userLimiter.Stop()
	}
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Next()
	}
}

// requestIDHeaders are checked in order for a caller-supplied request ID.
var requestIDHeaders = []string{"X-Request-Id", "X-Correlation-Id"}

// loggingMiddleware tags each request with an ID and logs it with a
// status-based level: 5xx=Error, 4xx=Warn (404=Debug), otherwise Debug.
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		var requestID string
		for _, h := range requestIDHeaders {
			if requestID = c.GetHeader(h); requestID != "" {
				break
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-Id", requestID)
		c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		status := c.Writer.Status()
		entry := log.WithRequestID(requestID).
			WithField("http_method", method).
			WithField("http_path", path).
			WithField("http_status", status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("client_ip", c.ClientIP())

		switch {
		case status >= 500:
			entry.Error("HTTP request failed")
		case status == http.StatusNotFound:
			entry.Debug("HTTP request not found")
		case status >= 400:
			entry.Warn("HTTP request rejected")
		default:
			entry.Debug("HTTP request completed")
		}
	}
}
