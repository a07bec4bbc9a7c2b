package llm

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
	"FeedSummarizer/internal/ports"
)

// systemPrompt is the fixed summarization instruction sent with every request.
const systemPrompt = "Please summarize the content of the article under 150 words in Chinese. Do not add any additional Character、markdown language to the result text. 请用不超过150个汉字概括文章内容。结果文本中不要添加任何额外的字符、Markdown语言。"

// OpenAIClient implements ports.Summarizer backed by OpenAI-compatible APIs.
type OpenAIClient struct {
	baseURL        string
	token          string
	model          string
	stripHTML      bool
	promptMaxRunes int
	httpClient     *http.Client
}

var _ ports.Summarizer = (*OpenAIClient)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		baseURL:        strings.TrimSuffix(cfg.URL, "/"),
		token:          cfg.Token,
		model:          cfg.Model,
		stripHTML:      cfg.StripHTML,
		promptMaxRunes: cfg.PromptMaxRunes,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Summarize posts the article body as a user message and returns the reply text.
func (c *OpenAIClient) Summarize(ctx context.Context, content string) (string, error) {
	if c.token == "" || c.baseURL == "" || c.model == "" {
		return "", fmt.Errorf("openai client misconfigured")
	}

	prompt := content
	if c.stripHTML {
		prompt = ExtractText(prompt)
	}
	if c.promptMaxRunes > 0 {
		prompt = truncateRunes(prompt, c.promptMaxRunes)
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "The following is the input content:\n---\n " + prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chat completion %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return decoded.Choices[0].Message.Content, nil
}
