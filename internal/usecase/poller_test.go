package usecase

import (
	"context"
	"fmt"
	"testing"

	"FeedSummarizer/internal/domain"
)

func TestPollerRunOnceFiltersAndSummarizes(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.unread = []domain.Entry{
		feedEntry(1, "https://blog.example.org", "fresh article one"),
		feedEntry(2, "https://blog.example.org", domain.WrapSummary("旧摘要", "already handled")),
		feedEntry(3, "https://blog.example.org", "fresh article two"),
		feedEntry(4, "https://unlisted.example.org", "from an unlisted site"),
		feedEntry(5, "https://blog.example.org", domain.WrapSummary("旧摘要", "also handled")),
		feedEntry(6, "https://blog.example.org", "fresh article three"),
		feedEntry(7, "https://blog.example.org", "fresh article four"),
	}

	summarizer := &fakeSummarizer{}
	pipeline := newTestPipeline(source, summarizer, "https://blog.example.org")
	poller := NewPoller(nil, source, pipeline, 100, discardLogger())

	if err := poller.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if got := summarizer.calls.Load(); got != 4 {
		t.Fatalf("expected exactly 4 summarize calls, got %d", got)
	}
	if source.updateCount() != 4 {
		t.Fatalf("expected 4 updates, got %d", source.updateCount())
	}
}

func TestPollerRunOnceHonorsLimit(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	for i := 1; i <= 10; i++ {
		source.unread = append(source.unread, feedEntry(int64(i), "https://blog.example.org", fmt.Sprintf("article %d", i)))
	}

	summarizer := &fakeSummarizer{}
	pipeline := newTestPipeline(source, summarizer, "https://blog.example.org")
	poller := NewPoller(nil, source, pipeline, 3, discardLogger())

	if err := poller.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if got := summarizer.calls.Load(); got != 3 {
		t.Fatalf("expected 3 summarize calls, got %d", got)
	}
}

func TestPollerRunOncePropagatesFetchFailure(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.listErr = fmt.Errorf("connection refused")

	summarizer := &fakeSummarizer{}
	pipeline := newTestPipeline(source, summarizer, "https://blog.example.org")
	poller := NewPoller(nil, source, pipeline, 100, discardLogger())

	if err := poller.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected fetch failure to propagate")
	}
	if got := summarizer.calls.Load(); got != 0 {
		t.Fatalf("expected no summarize calls after fetch failure, got %d", got)
	}
}
