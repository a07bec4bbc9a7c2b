package domain

import (
	"fmt"
	"strings"
)

// Entry is one article fetched from the feed reader. The ID is an opaque
// handle assigned by the reader; Feed is absent when the reader omits it.
type Entry struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	Feed    *Feed  `json:"feed,omitempty"`
}

// Feed references the site an entry belongs to.
type Feed struct {
	SiteURL string `json:"site_url"`
}

// Outcome enumerates the terminal state of one entry within a batch.
type Outcome string

const (
	OutcomeSkipped         Outcome = "skipped"
	OutcomeSummarized      Outcome = "summarized"
	OutcomeSummarizeFailed Outcome = "summarize_failed"
	OutcomeUpdateFailed    Outcome = "update_failed"
)

// summaryMarkerPrefix doubles as the idempotence guard: a body that already
// starts with the block must not be summarized again.
const summaryMarkerPrefix = "<pre"

// HasSummary reports whether the body already carries the summary block.
func HasSummary(content string) bool {
	return strings.HasPrefix(content, summaryMarkerPrefix)
}

// WrapSummary prepends the styled summary block to the original body. The
// original body is preserved byte for byte as the suffix.
func WrapSummary(summary, body string) string {
	return fmt.Sprintf("<pre style=\"white-space: pre-wrap;\"><code>\n💡AI 摘要：\n%s</code></pre><hr><br />%s", summary, body)
}
