package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"jobfinder-backend/internal/llm"
)

// DefaultBaseURL targets the Groq OpenAI-compatible API.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

const (
	maxRetries     = 2
	retryBaseDelay = 300 * time.Millisecond
)

// ErrMissingCredential is returned when no API key is configured.
var ErrMissingCredential = errors.New("GROQ_API_KEY is required")

// HTTPError wraps a non-2xx service response so retry logic can inspect the
// status code.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("groq http status %d: %s", e.StatusCode, e.Body)
}

// Client implements llm.Client using Groq chat completions.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a Groq client. The API key must be non-empty; this is
// the single credential check for the analysis half of the pipeline.
func NewClient(baseURL, apiKey, model string, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("GROQ_MODEL is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Ask submits instruction plus context as a single-turn user message with
// temperature pinned to zero and max_tokens bounding the response. Transient
// failures (timeouts, 5xx) are retried at most twice with doubling backoff;
// anything else fails immediately.
func (c *Client) Ask(ctx context.Context, instruction, contextText string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = llm.DefaultMaxTokens
	}
	prompt := instruction + "\n\n" + contextText

	answer, err := c.askOnce(ctx, prompt, maxTokens)
	if err == nil || !shouldRetry(err) {
		return answer, err
	}

	delay := retryBaseDelay
	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}

		answer, err = c.askOnce(ctx, prompt, maxTokens)
		if err == nil || !shouldRetry(err) {
			return answer, err
		}
		delay *= 2
	}
	return "", err
}

func (c *Client) askOnce(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0,
		MaxTokens:   maxTokens,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("groq request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return "", &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		}
		return "", fmt.Errorf("groq response parse: %w", err)
	}
	if parsed.Error != nil {
		if resp.StatusCode >= 400 {
			return "", &HTTPError{StatusCode: resp.StatusCode, Body: fmt.Sprintf("%s (%s)", parsed.Error.Message, parsed.Error.Type)}
		}
		return "", fmt.Errorf("groq error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if resp.StatusCode >= 400 {
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("groq response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("groq response empty content")
	}
	return content, nil
}

// shouldRetry reports whether the error represents a transient failure.
// Context cancellation and 4xx responses never retry.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "eof")
}

var _ llm.Client = (*Client)(nil)
