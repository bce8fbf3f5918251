// internal/genai/client.go

// Package genai wraps the upstream completion API. The contract is
// deliberately thin: a system instruction plus a user message in, free
// text out. Transport faults surface as the shared sentinel errors and
// are recovered by the callers, never here.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "wealth-assistant/internal/common/errors"
	"wealth-assistant/internal/common/logger"
	"wealth-assistant/internal/common/metrics"
)

// Completer is the upstream completion collaborator consumed by the
// classifier and orchestrator.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	MaxTokens   int
	Temperature float64
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		logger: log.WithFields(map[string]interface{}{"component": "genai"}),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one completion call and returns the trimmed response
// text. Non-200 responses are retried with exponential backoff up to
// MaxRetries; context expiry maps to ErrCompletionTimeout.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	body, _ := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	})

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Apply exponential backoff for retries
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				metrics.CompletionRequests.WithLabelValues("timeout").Inc()
				return "", apperrors.ErrCompletionTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/chat/completions", bytes.NewBuffer(body))
		if err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrCompletionFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, lastErr = c.client.Do(req)

		// If the context expired during the request, return timeout immediately.
		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			metrics.CompletionRequests.WithLabelValues("timeout").Inc()
			return "", apperrors.ErrCompletionTimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			// For non-OK status codes, treat as error and retry
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		metrics.CompletionRequests.WithLabelValues("error").Inc()
		if ctx.Err() == context.DeadlineExceeded {
			return "", apperrors.ErrCompletionTimeout
		}
		return "", fmt.Errorf("%w: %v", apperrors.ErrCompletionFailed, lastErr)
	}

	if resp == nil {
		metrics.CompletionRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: no successful response after retries", apperrors.ErrCompletionFailed)
	}
	defer resp.Body.Close()

	var apiResponse chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		metrics.CompletionRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: decode error: %v", apperrors.ErrCompletionFailed, err)
	}

	if len(apiResponse.Choices) == 0 {
		metrics.CompletionRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: empty choices", apperrors.ErrCompletionFailed)
	}

	content := strings.TrimSpace(apiResponse.Choices[0].Message.Content)

	metrics.CompletionRequests.WithLabelValues("ok").Inc()
	c.logger.Debug("completion succeeded", map[string]interface{}{
		"responseLen": len(content),
	})

	return content, nil
}
