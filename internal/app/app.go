package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"FeedSummarizer/internal/config"
	"FeedSummarizer/internal/infrastructure/llm"
	"FeedSummarizer/internal/infrastructure/miniflux"
	"FeedSummarizer/internal/infrastructure/scheduler"
	"FeedSummarizer/internal/logging"
	"FeedSummarizer/internal/server"
	"FeedSummarizer/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	poller *usecase.Poller
	server *http.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	source := miniflux.NewClient(cfg.Miniflux, nil)
	summarizer := llm.NewOpenAIClient(cfg.OpenAI)
	whitelist := cfg.WhitelistSet()

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:      source,
		Summarizer:  summarizer,
		Whitelist:   whitelist,
		Concurrency: cfg.Pipeline.Concurrency,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewTickerScheduler(cfg.Scheduler.TickInterval())
	poller := usecase.NewPoller(driver, source, pipeline, cfg.Pipeline.PollLimit,
		baseLogger.With("component", "poller"))

	webhook := server.NewWebhookHandler(pipeline, cfg.Webhook.Secret, whitelist,
		cfg.Webhook.MaxEntries, baseLogger.With("component", "webhook"))
	srv := server.New(cfg.Server, webhook)

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		poller: poller,
		server: srv,
	}
}

// Run starts the poll scheduler and the webhook listener, then blocks until
// the context is cancelled or the listener fails.
func (a *Application) Run(ctx context.Context) error {
	if err := a.poller.Start(ctx); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	a.logger.Info("listening", "addr", a.server.Addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	if err := a.poller.Stop(context.Background()); err != nil {
		a.logger.Warn("stop poller", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	return nil
}
