package miniflux

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"FeedSummarizer/internal/config"
	"FeedSummarizer/internal/domain"
	"FeedSummarizer/internal/ports"
)

// Client talks to the feed reader's REST API using Basic Auth.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

var _ ports.EntrySource = (*Client)(nil)

// NewClient builds a client from configuration; client defaults to a 20s-timeout one.
func NewClient(cfg config.MinifluxConfig, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: client,
	}
}

// ListUnread fetches up to limit unread entries.
func (c *Client) ListUnread(ctx context.Context, limit int) ([]domain.Entry, error) {
	endpoint := fmt.Sprintf("%s/v1/entries?status=unread&limit=%d", c.baseURL, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list unread: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("miniflux error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded struct {
		Entries []domain.Entry `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}

	return decoded.Entries, nil
}

// UpdateEntry replaces the stored body of one entry.
func (c *Client) UpdateEntry(ctx context.Context, id int64, content string) error {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("marshal update payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/entries/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("miniflux error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	return nil
}
