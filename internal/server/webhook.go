package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"FeedSummarizer/internal/domain"
	"FeedSummarizer/internal/usecase"
)

// signatureHeader carries the hex HMAC-SHA256 digest of the raw body.
const signatureHeader = "X-Miniflux-Signature"

// WebhookHandler validates and dispatches feed-reader webhook deliveries.
type WebhookHandler struct {
	pipeline   *usecase.Pipeline
	secret     string
	whitelist  map[string]struct{}
	maxEntries int
	logger     *slog.Logger
}

type webhookPayload struct {
	EventType string         `json:"event_type"`
	Feed      domain.Feed    `json:"feed"`
	Entries   []domain.Entry `json:"entries"`
}

// NewWebhookHandler wires the pipeline with the shared webhook secret.
func NewWebhookHandler(pipeline *usecase.Pipeline, secret string, whitelist map[string]struct{}, maxEntries int, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{
		pipeline:   pipeline,
		secret:     secret,
		whitelist:  whitelist,
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Handle processes one webhook delivery. Per-entry failures inside the batch
// never change the HTTP status; only request-level problems do.
func (h *WebhookHandler) Handle(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "Cannot read request body")
		return
	}

	if !VerifySignature(h.secret, payload, c.GetHeader(signatureHeader)) {
		c.String(http.StatusUnauthorized, "Invalid signature")
		return
	}

	var hook webhookPayload
	if err := json.Unmarshal(payload, &hook); err != nil {
		c.String(http.StatusBadRequest, "Malformed payload")
		return
	}

	if hook.EventType != "new_entries" {
		c.String(http.StatusOK, "Ignored non-new_entries event")
		return
	}

	if _, ok := h.whitelist[hook.Feed.SiteURL]; !ok {
		c.String(http.StatusOK, "Ignored non-whitelist feed")
		return
	}

	entries := hook.Entries
	if h.maxEntries > 0 && len(entries) > h.maxEntries {
		h.logger.Warn("webhook batch truncated", "received", len(entries), "cap", h.maxEntries)
		entries = entries[:h.maxEntries]
	}

	// Entries delivered without their own feed reference inherit the one
	// announced at the top of the payload.
	for i := range entries {
		if entries[i].Feed == nil {
			entries[i].Feed = &domain.Feed{SiteURL: hook.Feed.SiteURL}
		}
	}

	if _, err := h.pipeline.Process(c.Request.Context(), entries, usecase.ModeFailFast); err != nil {
		h.logger.Error("webhook batch failed", "error", err)
	}

	c.String(http.StatusOK, "Webhook handled")
}
