package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"FeedSummarizer/internal/domain"
	"FeedSummarizer/internal/ports"
)

const defaultConcurrency = 5

// Mode selects how batch-level failures propagate out of Process.
type Mode int

const (
	// ModeBestEffort records every outcome and never returns an entry error.
	ModeBestEffort Mode = iota
	// ModeFailFast returns the first update failure once in-flight work drains.
	ModeFailFast
)

// Report aggregates per-entry outcomes of one batch.
type Report struct {
	Skipped         int
	Summarized      int
	SummarizeFailed int
	UpdateFailed    int
}

func (r *Report) count(outcome domain.Outcome) {
	switch outcome {
	case domain.OutcomeSummarized:
		r.Summarized++
	case domain.OutcomeSummarizeFailed:
		r.SummarizeFailed++
	case domain.OutcomeUpdateFailed:
		r.UpdateFailed++
	default:
		r.Skipped++
	}
}

// PipelineDeps wires the driven adapters into the batch processor.
type PipelineDeps struct {
	Source      ports.EntrySource
	Summarizer  ports.Summarizer
	Whitelist   map[string]struct{}
	Concurrency int
	Logger      *slog.Logger
}

// Pipeline turns a batch of candidate entries into summary updates on the
// feed reader, at most Concurrency entries in flight at once.
type Pipeline struct {
	source      ports.EntrySource
	summarizer  ports.Summarizer
	whitelist   map[string]struct{}
	concurrency int
	logger      *slog.Logger
}

// NewPipeline constructs the batch processor.
func NewPipeline(deps PipelineDeps) *Pipeline {
	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:      deps.Source,
		summarizer:  deps.Summarizer,
		whitelist:   deps.Whitelist,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Process fans the batch out over a bounded number of workers. Admission
// follows batch order, completion order is unconstrained, and every admitted
// entry runs to its terminal state regardless of sibling failures. In
// ModeFailFast the first update failure is returned after the batch drains;
// ModeBestEffort only logs it.
func (p *Pipeline) Process(ctx context.Context, entries []domain.Entry, mode Mode) (Report, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		report   Report
		firstErr error
	)

	permits := make(chan struct{}, p.concurrency)

	for _, entry := range entries {
		permits <- struct{}{}
		wg.Add(1)
		go func(entry domain.Entry) {
			defer wg.Done()
			defer func() { <-permits }()

			outcome, err := p.processEntry(ctx, entry)

			mu.Lock()
			report.count(outcome)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}(entry)
	}

	wg.Wait()

	p.logger.Info("batch processed",
		"entries", len(entries),
		"summarized", report.Summarized,
		"skipped", report.Skipped,
		"summarize_failed", report.SummarizeFailed,
		"update_failed", report.UpdateFailed,
	)

	if mode == ModeFailFast && firstErr != nil {
		return report, firstErr
	}
	if firstErr != nil {
		p.logger.Warn("batch finished with update failures", "error", firstErr)
	}
	return report, nil
}

// processEntry walks one entry through filter, summarize, and update. The
// returned error is non-nil only for update failures; summarize failures are
// terminal for the entry but never fatal for the batch.
func (p *Pipeline) processEntry(ctx context.Context, entry domain.Entry) (domain.Outcome, error) {
	if domain.HasSummary(entry.Content) {
		p.logger.Debug("entry already summarized", "entry", entry.ID)
		return domain.OutcomeSkipped, nil
	}

	if !p.whitelisted(entry) {
		p.logger.Debug("entry feed not whitelisted", "entry", entry.ID)
		return domain.OutcomeSkipped, nil
	}

	summary, err := p.summarizer.Summarize(ctx, entry.Content)
	if err != nil {
		p.logger.Warn("summarize entry", "entry", entry.ID, "error", err)
		return domain.OutcomeSummarizeFailed, nil
	}

	if strings.TrimSpace(summary) == "" {
		p.logger.Debug("model returned empty summary", "entry", entry.ID)
		return domain.OutcomeSkipped, nil
	}

	updated := domain.WrapSummary(summary, entry.Content)
	if err := p.source.UpdateEntry(ctx, entry.ID, updated); err != nil {
		p.logger.Warn("update entry", "entry", entry.ID, "error", err)
		return domain.OutcomeUpdateFailed, fmt.Errorf("update entry %d: %w", entry.ID, err)
	}

	p.logger.Debug("entry summarized", "entry", entry.ID)
	return domain.OutcomeSummarized, nil
}

// whitelisted requires a feed reference: entries without one are skipped on
// both trigger paths.
func (p *Pipeline) whitelisted(entry domain.Entry) bool {
	if entry.Feed == nil {
		return false
	}
	_, ok := p.whitelist[entry.Feed.SiteURL]
	return ok
}
