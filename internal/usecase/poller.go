package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"FeedSummarizer/internal/ports"
)

// Poller runs the unread-entries sweep on a schedule. A failed fetch abandons
// the run; per-entry failures inside the batch are handled best-effort.
type Poller struct {
	driver   ports.Scheduler
	source   ports.EntrySource
	pipeline *Pipeline
	limit    int
	logger   *slog.Logger
}

// NewPoller wires the schedule driver with the pipeline use case.
func NewPoller(driver ports.Scheduler, source ports.EntrySource, pipeline *Pipeline, limit int, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		driver:   driver,
		source:   source,
		pipeline: pipeline,
		limit:    limit,
		logger:   logger,
	}
}

// Start registers the sweep with the schedule driver.
func (p *Poller) Start(ctx context.Context) error {
	if p.driver == nil || p.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := p.RunOnce(ctx); err != nil {
			p.logger.Error("poll run failed", "error", err)
		}
	}

	return p.driver.Start(ctx, job)
}

// RunOnce performs a single sweep: fetch unread entries, process best-effort.
func (p *Poller) RunOnce(ctx context.Context) error {
	entries, err := p.source.ListUnread(ctx, p.limit)
	if err != nil {
		return fmt.Errorf("list unread entries: %w", err)
	}

	p.logger.Debug("poll fetched entries", "count", len(entries))
	_, err = p.pipeline.Process(ctx, entries, ModeBestEffort)
	return err
}

// Stop gracefully tears down the underlying schedule driver.
func (p *Poller) Stop(ctx context.Context) error {
	if p.driver == nil {
		return nil
	}
	return p.driver.Stop(ctx)
}
