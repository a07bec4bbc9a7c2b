package ports

import (
	"context"
	"time"

	"FeedSummarizer/internal/domain"
)

// EntrySource reads and writes entries on the feed reader.
type EntrySource interface {
	ListUnread(ctx context.Context, limit int) ([]domain.Entry, error)
	UpdateEntry(ctx context.Context, id int64, content string) error
}

// Summarizer produces a short summary of an article body.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}

// Scheduler controls when the unread-entries sweep executes.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
