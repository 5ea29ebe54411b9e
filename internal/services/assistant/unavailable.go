package assistant

import (
	"context"
	"errors"

	"benefitsportal/internal/llm"
)

// ErrUnavailable is returned by the stand-in client when the completion
// provider is not configured.
var ErrUnavailable = errors.New("completion provider is not configured")

// UnavailableClient stands in when no provider is configured. Read paths
// degrade to placeholder content and generation paths fail cleanly.
type UnavailableClient struct{}

// CreateChatCompletion always fails
func (UnavailableClient) CreateChatCompletion(context.Context, llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	return nil, ErrUnavailable
}

// Model returns an empty model name
func (UnavailableClient) Model() string {
	return ""
}
