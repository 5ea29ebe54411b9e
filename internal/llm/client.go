// Package llm is a thin client for an OpenAI-compatible chat-completion API.
// The provider is a third-party network dependency with uncontrolled latency
// and availability, so every call carries a timeout and bounded retries.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds the configuration for the completion-API client
type Config struct {
	APIKey           string
	BaseURL          string
	Model            string
	AppName          string
	TimeoutSeconds   int
	RetryAttempts    int
	RetryWaitSeconds int
}

// Client provides access to the chat-completion API
type Client struct {
	config     Config
	httpClient *http.Client
}

// New creates a new completion-API client
func New(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("completion API key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://openrouter.ai/api/v1"
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = 60
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 3
	}
	if config.RetryWaitSeconds <= 0 {
		config.RetryWaitSeconds = 1
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Model returns the configured default model
func (c *Client) Model() string {
	return c.config.Model
}

// Message is a single conversation turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ResponseFormat requests a structured output mode from the provider
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatCompletionRequest is the request body for chat completions
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	User           string          `json:"user,omitempty"`
}

// Usage reports token consumption
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice is one completion candidate
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// APIError is an error reported by the provider
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// ChatCompletionResponse is the response body for chat completions
type ChatCompletionResponse struct {
	ID      string    `json:"id"`
	Model   string    `json:"model"`
	Created int64     `json:"created"`
	Usage   Usage     `json:"usage"`
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

// Content returns the text of the first completion choice
func (r *ChatCompletionResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// CreateChatCompletion sends a chat completion request to the provider
func (c *Client) CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if req.Model == "" {
		req.Model = c.config.Model
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.config.BaseURL)
	return c.sendWithRetry(ctx, endpoint, body)
}

// sendWithRetry posts the request, retrying on server errors and rate limits
func (c *Client) sendWithRetry(ctx context.Context, endpoint string, body []byte) (*ChatCompletionResponse, error) {
	var lastErr error

	for attempt := 0; attempt < c.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(c.config.RetryWaitSeconds) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)
			continue
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))
		if c.config.AppName != "" {
			req.Header.Set("X-Title", c.config.AppName)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(respBody))
			// retry only server errors and rate limits
			if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, lastErr
			}
			continue
		}

		var result ChatCompletionResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			lastErr = fmt.Errorf("failed to unmarshal response: %w", err)
			continue
		}

		if result.Error != nil {
			return &result, fmt.Errorf("API returned error: %w", result.Error)
		}

		return &result, nil
	}

	return nil, fmt.Errorf("max retry attempts reached: %w", lastErr)
}
